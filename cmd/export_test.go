package cmd

import (
	"testing"
	"time"

	"github.com/etnz/chipbook"
)

func TestExportName(t *testing.T) {
	ledger := chipbook.NewLedger()
	for _, d := range []chipbook.Date{
		chipbook.NewDate(2025, time.March, 1),
		chipbook.NewDate(2025, time.January, 3),
	} {
		if _, err := ledger.CreateSession(d, "", chipbook.CashGame, "", ""); err != nil {
			t.Fatalf("CreateSession(%v): %v", d, err)
		}
	}

	tests := []struct {
		name   string
		period chipbook.Range
		want   string
	}{
		{"bounded", chipbook.NewRange(chipbook.NewDate(2025, time.January, 1), chipbook.NewDate(2025, time.February, 1)), "2025-01-01_2025-02-01.csv"},
		{"open end", chipbook.Range{From: chipbook.NewDate(2025, time.January, 1)}, "since_2025-01-01.csv"},
		{"unbounded clamps to the books", chipbook.Range{}, "2025-01-03_2025-03-01.csv"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := exportName(ledger, tc.period); got != tc.want {
				t.Errorf("exportName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExportName_EmptyLedger(t *testing.T) {
	if got := exportName(chipbook.NewLedger(), chipbook.Range{}); got != "all-time.csv" {
		t.Errorf("exportName() = %q, want %q", got, "all-time.csv")
	}
}
