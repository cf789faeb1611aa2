package chipbook

// Range represents a range of dates. A zero From or To leaves that side
// unbounded, so the zero Range contains every date.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// IsZero returns true if the range is unbounded on both sides.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Identifier compute a unique identifier for the Range.
func (r Range) Identifier() string {
	switch {
	case r.IsZero():
		return "all-time"
	case r.From.IsZero():
		return "until_" + r.To.String()
	case r.To.IsZero():
		return "since_" + r.From.String()
	default:
		return r.From.String() + "_" + r.To.String()
	}
}
