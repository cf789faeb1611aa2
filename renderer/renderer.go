package renderer

import (
	"fmt"

	"github.com/etnz/chipbook"
)

// periodLabel renders a range the way report titles want it.
func periodLabel(period chipbook.Range) string {
	switch {
	case period.IsZero():
		return "all time"
	case period.From.IsZero():
		return "until " + period.To.String()
	case period.To.IsZero():
		return "since " + period.From.String()
	default:
		return fmt.Sprintf("%s to %s", period.From, period.To)
	}
}
