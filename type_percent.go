package chipbook

import (
	"fmt"
	"math"
)

// Percent is a ratio already scaled to the 0..100 space, the way win rates
// and returns are quoted at the table.
type Percent float64

// Equal compares two percents to a ten-thousandth of a point.
func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < 0.0001
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedString renders the percent with an explicit sign. A value rounding
// to +0.00% renders as "-".
func (p Percent) SignedString() string {
	s := fmt.Sprintf("%+.2f%%", p)
	if s == "+0.00%" {
		return "-"
	}
	return s
}
