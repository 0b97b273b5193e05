package plan

import (
	"time"

	"github.com/pjaos/chargeplan/core/model"
	"github.com/pjaos/chargeplan/core/tariff"
)

// ResolveDeadline turns a deadline string into an absolute instant. It
// accepts RFC 3339, or a bare "HH:MM" which resolves to the next
// occurrence of that time of day: tonight if still ahead, tomorrow if
// already past.
func ResolveDeadline(now time.Time, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	off, err := tariff.ParseOffset(s)
	if err != nil {
		return time.Time{}, model.Validationf("deadline", "want RFC3339 or HH:MM, got %q", s)
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	deadline := day.Add(off)
	if !deadline.After(now) {
		deadline = deadline.AddDate(0, 0, 1)
	}
	return deadline, nil
}

// NextFreeWindow resolves a daily free-energy window to its next
// occurrence: the ongoing one if now falls inside it, otherwise the
// upcoming one.
func NextFreeWindow(now time.Time, start time.Duration, duration time.Duration) model.FreeEnergyWindow {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	ws := day.Add(start)
	if !ws.Add(duration).After(now) {
		ws = ws.AddDate(0, 0, 1)
	}
	return model.FreeEnergyWindow{Start: ws, Duration: duration}
}
