package device

import (
	"fmt"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

// The charger addresses schedules through four fixed slot identifiers.
// Each holds one contiguous run of at most 8h59m.
var scheduleSlotIDs = [...]int{11, 12, 13, 14}

const maxRunDuration = 9 * time.Hour

// SlotIDs returns the charger schedule slot identifiers in order.
func SlotIDs() []int {
	ids := scheduleSlotIDs
	return ids[:]
}

// EncodedSlot is one charger schedule command: a start time of day, a
// duration and a day-of-week bitmask, all in the device's wire form.
type EncodedSlot struct {
	SlotID   int
	Start    string // HHMM
	Duration string // HMM
	DayMask  string // 0 followed by Mon..Sun flags
}

// Command renders the slot as the command fragment the charger API
// expects.
func (s EncodedSlot) Command() string {
	return fmt.Sprintf("%02d-%s-%s-%s", s.SlotID, s.Start, s.Duration, s.DayMask)
}

// EncodedSchedule is the wire representation handed to the proxy.
type EncodedSchedule struct {
	Slots []EncodedSlot
}

// Encode converts a schedule into charger commands. Consecutive slots are
// merged into runs first since the device only has four schedule slots.
// Encoding is a pure function of the schedule: encoding the same value
// twice yields identical output, so a SET may be retried safely.
func Encode(sched model.Schedule) (EncodedSchedule, error) {
	runs := mergeRuns(sched.Slots)
	if len(runs) == 0 {
		return EncodedSchedule{}, model.Validationf("schedule", "no slots to encode")
	}
	if len(runs) > len(scheduleSlotIDs) {
		return EncodedSchedule{}, model.Validationf("schedule", "%d charge periods exceed the %d schedule slots the charger supports", len(runs), len(scheduleSlotIDs))
	}

	enc := EncodedSchedule{Slots: make([]EncodedSlot, 0, len(runs))}
	for i, r := range runs {
		dur := r.end.Sub(r.start)
		if dur >= maxRunDuration {
			return EncodedSchedule{}, model.Validationf("schedule", "charge period starting %s is %s long; the charger limit is under 9 hours", r.start.Format("15:04"), dur)
		}
		enc.Slots = append(enc.Slots, EncodedSlot{
			SlotID:   scheduleSlotIDs[i],
			Start:    r.start.Format("1504"),
			Duration: fmt.Sprintf("%d%02d", int(dur.Hours()), int(dur.Minutes())%60),
			DayMask:  dayMask(r.start.Weekday()),
		})
	}
	return enc, nil
}

type run struct {
	start, end time.Time
}

// mergeRuns collapses back-to-back slots into contiguous charge periods.
// Slots arrive in chronological order from the optimizer.
func mergeRuns(slots []model.Slot) []run {
	var runs []run
	for _, s := range slots {
		if len(runs) > 0 && runs[len(runs)-1].end.Equal(s.Start) {
			runs[len(runs)-1].end = s.End()
			continue
		}
		runs = append(runs, run{start: s.Start, end: s.End()})
	}
	return runs
}

// dayMask renders the charger's eight character day-of-week field: a
// leading zero then one flag per day from Monday to Sunday.
func dayMask(d time.Weekday) string {
	mask := []byte("00000000")
	// time.Weekday counts from Sunday; the device mask counts from Monday.
	idx := (int(d) + 6) % 7
	mask[idx+1] = '1'
	return string(mask)
}
