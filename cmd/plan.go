package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pjaos/chargeplan/core/model"
	"github.com/pjaos/chargeplan/core/plan"
	"github.com/pjaos/chargeplan/pkg/export"
)

var (
	planTargetSoC  float64
	planCurrentSoC float64
	planDeadline   string
	planSet        bool
	planOutput     string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute the cheapest charge schedule",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().Float64Var(&planTargetSoC, "target-soc", 80, "target state of charge in percent")
	planCmd.Flags().Float64Var(&planCurrentSoC, "current-soc", 0, "current state of charge in percent")
	planCmd.Flags().StringVar(&planDeadline, "ready-by", "", "ready-by time, HH:MM or RFC3339")
	planCmd.Flags().BoolVar(&planSet, "set", false, "program the schedule onto the charger")
	planCmd.Flags().StringVar(&planOutput, "output", "", "write the schedule to stdout as json or csv")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	deadline, err := plan.ResolveDeadline(time.Now(), planDeadline)
	if err != nil {
		return err
	}
	sched, summary, err := svc.Plan(ctx, model.ChargeRequest{
		TargetSoCPct:  planTargetSoC,
		CurrentSoCPct: planCurrentSoC,
		Deadline:      deadline,
	})
	if err != nil {
		return err
	}

	fmt.Printf("schedule %s: %d slots, %.2f kWh, cost %.2f (saves %.2f)\n",
		sched.ID, len(sched.Slots), sched.TotalEnergyKWh, sched.TotalCost, summary.Savings)
	for _, s := range sched.Slots {
		label := fmt.Sprintf("%.4f/kWh", s.Price)
		if s.Free {
			label = "free"
		}
		fmt.Printf("  %s - %s  %s\n", s.Start.Format("Mon 15:04"), s.End().Format("15:04"), label)
	}
	if sched.UnderDelivered {
		fmt.Printf("warning: %d slots short of the full charge before the deadline\n", sched.Shortfall)
	}

	switch planOutput {
	case "":
	case "json":
		if err := export.WriteJSON(os.Stdout, sched); err != nil {
			return err
		}
	case "csv":
		if err := export.WriteCSV(os.Stdout, sched); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", planOutput)
	}

	if planSet {
		if err := svc.Set(ctx); err != nil {
			return err
		}
		fmt.Println("schedule programmed onto the charger")
	}
	return nil
}
