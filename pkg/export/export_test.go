package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pjaos/chargeplan/core/model"
)

func exportSchedule() model.Schedule {
	start := time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC)
	return model.Schedule{
		ID: "sched-1",
		Slots: []model.Slot{
			{Start: start, Duration: 15 * time.Minute, Price: 0.07},
			{Start: start.Add(15 * time.Minute), Duration: 15 * time.Minute, Price: model.FreePrice, Free: true},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportSchedule()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus 2 rows", len(lines))
	}
	if lines[0] != "start,end,price_kwh,free" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "0.07,false") {
		t.Fatalf("row = %q", lines[1])
	}
	// free slots export a zero price, not the sentinel
	if !strings.HasSuffix(lines[2], "0,true") {
		t.Fatalf("free row = %q", lines[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, exportSchedule()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"sched-1"`) {
		t.Fatalf("json = %s", buf.String())
	}
}
