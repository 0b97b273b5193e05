// Package export renders a charge schedule for consumption outside the
// service, as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

// WriteJSON writes the schedule slots to w in JSON format. The free
// price sentinel is not representable in JSON, so free slots are
// exported with a zero price.
func WriteJSON(w io.Writer, sched model.Schedule) error {
	slots := make([]model.Slot, len(sched.Slots))
	copy(slots, sched.Slots)
	for i := range slots {
		if slots[i].Free {
			slots[i].Price = 0
		}
	}
	sched.Slots = slots
	enc := json.NewEncoder(w)
	return enc.Encode(sched)
}

// WriteCSV writes the schedule slots to w as CSV rows.
func WriteCSV(w io.Writer, sched model.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"start", "end", "price_kwh", "free"}); err != nil {
		return err
	}
	for _, s := range sched.Slots {
		price := strconv.FormatFloat(s.Price, 'f', -1, 64)
		if s.Free {
			price = "0"
		}
		rec := []string{
			s.Start.Format(time.RFC3339),
			s.End().Format(time.RFC3339),
			price,
			strconv.FormatBool(s.Free),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
