package chipbook

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the ISO-8601 form dates take in data files and reports.
const DateFormat = "2006-01-02"

// readDateFormat additionally accepts single-digit month and day.
const readDateFormat = "2006-1-2"

// cellDateFormat is the spreadsheet M/D/YYYY form used in import grids.
const cellDateFormat = "1/2/2006"

// Date is a calendar day, no clock, no zone. Sessions are booked by day.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date: out-of-range values roll over the way
// time.Date rolls them, so NewDate(2025, time.January, 0) is 2024-12-31.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date.
func Today() Date { return NewDate(time.Now().Date()) }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// time pins the day at midnight UTC.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// String renders the ISO form, "2025-01-02".
func (d Date) String() string { return d.time().Format(DateFormat) }

// Cell renders the date the way import grids write it, "1/2/2025".
func (d Date) Cell() string { return d.time().Format(cellDateFormat) }

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d falls before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d falls after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns the date i days later, negative i going back.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

var (
	relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)
	monthDayDateRE = regexp.MustCompile(`^(?:(\d+)-)?(\d+)$`)
	cellDateRE     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
)

// ParseDate reads the flexible date forms commands accept: ISO "2025-1-2",
// spreadsheet "1/2/2025", short forms like "27" and "8-27" for dates of the
// current year, and offsets from today like "-1d", "+2w", "-3m" or "+1y".
func ParseDate(str string) (Date, error) {
	str = strings.TrimSpace(str)

	if d, ok := parseRelativeDate(str); ok {
		return d, nil
	}
	if d, ok := parseMonthDayDate(str); ok {
		return d, nil
	}
	if d, ok := ParseCellDate(str); ok {
		return d, nil
	}
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return NewDate(on.Date()), nil
}

// parseRelativeDate reads signed offsets from today, "-1d", "+2w", "-3m",
// "+1y". The bare "0d" also means today.
func parseRelativeDate(str string) (Date, bool) {
	if str == "0d" {
		return Today(), true
	}
	m := relativeDateRE.FindStringSubmatch(str)
	if m == nil {
		return Date{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Date{}, false
	}
	if m[1] == "-" {
		n = -n
	}
	today := Today()
	switch m[3] {
	case "d":
		return today.Add(n), true
	case "w":
		return today.Add(7 * n), true
	case "m":
		return NewDate(today.Year(), today.Month()+time.Month(n), today.Day()), true
	default: // y
		return NewDate(today.Year()+n, today.Month(), today.Day()), true
	}
}

// parseMonthDayDate reads the short forms "[M-]D" against the current year:
// "27" is the 27th of this month, "8-27" is August 27. Month 0 stands for
// last December and day 0 for the last day of the previous month.
func parseMonthDayDate(str string) (Date, bool) {
	m := monthDayDateRE.FindStringSubmatch(str)
	if m == nil {
		return Date{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return Date{}, false
	}
	today := Today()
	year, month := today.Year(), today.Month()
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Date{}, false
		}
		if n == 0 {
			year, month = year-1, time.December
		} else {
			month = time.Month(n)
		}
	}
	return NewDate(year, month, day), true
}

// ParseCellDate parses a spreadsheet header cell as a M/D/YYYY date.
// Two-digit years are promoted to 20YY. Months must fall in [1,12], days in
// [1,31] and years in [1900,2100]; calendar-invalid combinations such as
// 2/30/2025 are rejected because normalizing them rolls into the next month.
// The boolean is false when the text is not a date: the importer uses that
// as the terminator of the date columns.
func ParseCellDate(text string) (Date, bool) {
	match := cellDateRE.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return Date{}, false
	}
	// The regex only matches digits, so these cannot fail.
	month, _ := strconv.Atoi(match[1])
	day, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if len(match[3]) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2100 {
		return Date{}, false
	}
	d := NewDate(year, time.Month(month), day)
	// A day overflowing its month lands in the following month, so checking
	// the month catches every rollover.
	if d.Month() != time.Month(month) {
		return Date{}, false
	}
	return d, true
}

// MarshalJSON writes the ISO form, the zero date as "".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts what MarshalJSON writes, plus single-digit month and
// day for hand-edited files.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return fmt.Errorf("invalid date %q in data file, want format %q: %w", str, DateFormat, err)
	}
	*d = NewDate(on.Date())
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
