package chipbook

import "testing"

func TestNewRange_Swaps(t *testing.T) {
	r := NewRange(NewDate(2025, 3, 1), NewDate(2025, 1, 1))
	if r.From != NewDate(2025, 1, 1) || r.To != NewDate(2025, 3, 1) {
		t.Errorf("NewRange did not swap reversed bounds: %v", r)
	}

	// A zero side stays put, it means unbounded rather than "before everything".
	r = NewRange(NewDate(2025, 3, 1), Date{})
	if r.From != NewDate(2025, 3, 1) || !r.To.IsZero() {
		t.Errorf("NewRange moved an unbounded side: %v", r)
	}
}

func TestRange_Contains(t *testing.T) {
	jan := NewRange(NewDate(2025, 1, 1), NewDate(2025, 1, 31))

	tests := []struct {
		name string
		r    Range
		d    Date
		want bool
	}{
		{name: "inside", r: jan, d: NewDate(2025, 1, 15), want: true},
		{name: "lower bound", r: jan, d: NewDate(2025, 1, 1), want: true},
		{name: "upper bound", r: jan, d: NewDate(2025, 1, 31), want: true},
		{name: "before", r: jan, d: NewDate(2024, 12, 31), want: false},
		{name: "after", r: jan, d: NewDate(2025, 2, 1), want: false},
		{name: "zero range has everything", r: Range{}, d: NewDate(1999, 7, 4), want: true},
		{name: "open start", r: Range{To: NewDate(2025, 1, 31)}, d: NewDate(1999, 7, 4), want: true},
		{name: "open start upper bound", r: Range{To: NewDate(2025, 1, 31)}, d: NewDate(2025, 2, 1), want: false},
		{name: "open end", r: Range{From: NewDate(2025, 1, 1)}, d: NewDate(2030, 6, 1), want: true},
		{name: "open end lower bound", r: Range{From: NewDate(2025, 1, 1)}, d: NewDate(2024, 12, 31), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.d); got != tt.want {
				t.Errorf("Range.Contains(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestRange_Identifier(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want string
	}{
		{name: "bounded", r: NewRange(NewDate(2025, 1, 1), NewDate(2025, 1, 31)), want: "2025-01-01_2025-01-31"},
		{name: "all time", r: Range{}, want: "all-time"},
		{name: "until", r: Range{To: NewDate(2025, 1, 31)}, want: "until_2025-01-31"},
		{name: "since", r: Range{From: NewDate(2025, 1, 1)}, want: "since_2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Identifier(); got != tt.want {
				t.Errorf("Range.Identifier() = %q, want %q", got, tt.want)
			}
		})
	}
}
