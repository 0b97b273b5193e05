package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pjaos/chargeplan/app"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Program the calculated schedule onto the charger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			if err := svc.Set(ctx); err != nil {
				return err
			}
			fmt.Println("schedule programmed onto the charger")
			return nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Read the schedule back from the charger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			state, _, rb, err := svc.Status(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("state: %s, charging at %.1f kW\n", state, rb.ChargeKW)
			for _, e := range rb.Entries {
				fmt.Printf("  slot %d: start %s duration %s days %s\n", e.SlotID, e.Start, e.Duration, e.Days)
			}
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the schedule from the charger",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			if err := svc.Clear(ctx); err != nil {
				return err
			}
			fmt.Println("schedule cleared")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(setCmd, getCmd, clearCmd)
}

func withService(fn func(context.Context, *app.Service) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(ctx, svc)
}
