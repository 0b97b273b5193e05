// Package schedule exposes the charge schedule over HTTP: plan,
// confirm, read back and clear.
package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pjaos/chargeplan/core/device"
	"github.com/pjaos/chargeplan/core/model"
	"github.com/pjaos/chargeplan/core/plan"
	"github.com/pjaos/chargeplan/core/tariff"
)

// Service is the surface the handler needs from the application.
type Service interface {
	Plan(ctx context.Context, req model.ChargeRequest) (model.Schedule, plan.Summary, error)
	Set(ctx context.Context) error
	Status(ctx context.Context) (model.ScheduleState, model.Schedule, device.ReadBack, error)
	Clear(ctx context.Context) error
}

type planRequest struct {
	TargetSoCPct  float64 `json:"target_soc_pct"`
	CurrentSoCPct float64 `json:"current_soc_pct"`
	Deadline      string  `json:"deadline"`
}

type slotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Price float64   `json:"price"`
	Free  bool      `json:"free,omitempty"`
}

type planResponse struct {
	ScheduleID     string         `json:"schedule_id"`
	Slots          []slotResponse `json:"slots"`
	EnergyKWh      float64        `json:"energy_kwh"`
	Cost           float64        `json:"cost"`
	Savings        float64        `json:"savings"`
	MeanPriceKWh   float64        `json:"mean_price_kwh"`
	ChargeMinutes  int            `json:"charge_minutes"`
	UnderDelivered bool           `json:"under_delivered"`
	Shortfall      int            `json:"shortfall,omitempty"`
}

type statusResponse struct {
	State    string        `json:"state"`
	Schedule *planResponse `json:"schedule,omitempty"`
	ChargeKW float64       `json:"charge_kw"`
	Entries  []boostEntry  `json:"device_slots,omitempty"`
}

type boostEntry struct {
	SlotID   int    `json:"slot_id"`
	Start    string `json:"start"`
	Duration string `json:"duration"`
	Days     string `json:"days"`
}

// NewHandler returns the schedule API routes mounted on a fresh mux.
func NewHandler(svc Service) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/plan", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handlePlan(svc, w, r)
	})
	mux.HandleFunc("/api/schedule", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handleSet(svc, w, r)
		case http.MethodGet:
			handleStatus(svc, w, r)
		case http.MethodDelete:
			handleClear(svc, w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	return mux
}

func handlePlan(svc Service, w http.ResponseWriter, r *http.Request) {
	var in planRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	deadline, err := plan.ResolveDeadline(time.Now(), in.Deadline)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req := model.ChargeRequest{
		TargetSoCPct:  in.TargetSoCPct,
		CurrentSoCPct: in.CurrentSoCPct,
		Deadline:      deadline,
	}
	sched, summary, err := svc.Plan(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, toPlanResponse(sched, summary))
}

func handleSet(svc Service, w http.ResponseWriter, r *http.Request) {
	if err := svc.Set(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"state": model.StateSet.String()})
}

func handleStatus(svc Service, w http.ResponseWriter, r *http.Request) {
	state, sched, rb, err := svc.Status(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := statusResponse{State: state.String(), ChargeKW: rb.ChargeKW}
	if !sched.Empty() {
		pr := toPlanResponse(sched, plan.Summary{})
		out.Schedule = &pr
	}
	for _, e := range rb.Entries {
		out.Entries = append(out.Entries, boostEntry{
			SlotID:   e.SlotID,
			Start:    formatClock(e.Start),
			Duration: formatClock(e.Duration),
			Days:     e.Days,
		})
	}
	writeJSON(w, out)
}

func handleClear(svc Service, w http.ResponseWriter, r *http.Request) {
	if err := svc.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"state": model.StateCleared.String()})
}

func toPlanResponse(sched model.Schedule, summary plan.Summary) planResponse {
	out := planResponse{
		ScheduleID:     sched.ID,
		EnergyKWh:      sched.TotalEnergyKWh,
		Cost:           sched.TotalCost,
		Savings:        summary.Savings,
		MeanPriceKWh:   summary.MeanPriceKWh,
		ChargeMinutes:  summary.ChargeMinutes,
		UnderDelivered: sched.UnderDelivered,
		Shortfall:      sched.Shortfall,
	}
	for _, s := range sched.Slots {
		price := s.Price
		if s.Free {
			// the sentinel is not representable in JSON
			price = 0
		}
		out.Slots = append(out.Slots, slotResponse{Start: s.Start, End: s.End(), Price: price, Free: s.Free})
	}
	return out
}

func formatClock(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC).Format("15:04")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	var serr *tariff.StaleError
	switch {
	case errors.As(err, &verr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &serr):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}
