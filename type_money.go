package chipbook

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// rawAmount is the set of types amounts arrive in: grid cells decode to
// float64 or int, wire records to decimal.Decimal.
type rawAmount interface {
	int | float64 | decimal.Decimal
}

// Money is an exact monetary value: a decimal amount in major units plus an
// ISO currency code. The "" currency is legal and weak, it yields to the
// other side's currency in arithmetic.
type Money struct {
	value decimal.Decimal
	cur   string
}

// M builds a Money of the given currency from a raw amount.
func M[T rawAmount](value T, currency string) Money {
	var d decimal.Decimal
	switch v := any(value).(type) {
	case int:
		d = decimal.NewFromInt(int64(v))
	case float64:
		d = decimal.NewFromFloat(v)
	case decimal.Decimal:
		d = v
	}
	return Money{value: d, cur: currency}
}

// ParseMoneyCell parses a spreadsheet cell as a monetary amount. It strips
// currency symbols, thousands separators and whitespace, and reads
// parenthesized values as negatives: "($30.00)" is -30.00.
// The boolean is false for blank cells, which mean "no value" rather than
// zero, and for malformed text; recording an error for malformed text is the
// caller's concern, never this function's.
// The returned Money carries no currency, callers bind one with [Money.In].
func ParseMoneyCell(text string) (Money, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Money{}, false
	}

	// Accounting format "(123.45)" means negative.
	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = strings.TrimSpace(text[1 : len(text)-1])
	}

	text = strings.ReplaceAll(text, "$", "")
	text = strings.ReplaceAll(text, "€", "")
	text = strings.ReplaceAll(text, "£", "")
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSpace(text)

	value, err := decimal.NewFromString(text)
	if err != nil {
		return Money{}, false
	}
	if negative {
		value = value.Neg()
	}
	return Money{value: value}, true
}

// In returns a copy of m denominated in the given currency.
func (m Money) In(currency string) Money { return Money{value: m.value, cur: currency} }

// currency resolves the full currency record. money.New never hands back a
// nil currency, unknown codes come with an empty formatting template.
func (m Money) currency() money.Currency {
	return *money.New(0, m.cur).Currency()
}

// String renders the amount with its currency's formatter, "$100.00".
func (m Money) String() string {
	c := m.currency()
	return c.Formatter().Format(m.value.Shift(int32(c.Fraction)).IntPart())
}

// SignedString renders gains with an explicit plus sign, and zero as "-".
func (m Money) SignedString() string {
	switch {
	case m.value.IsZero():
		return "-"
	case m.value.IsPositive():
		return "+" + m.String()
	default:
		return m.String()
	}
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool    { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money               { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money               { return Money{value: m.value.Abs(), cur: m.cur} }

// Add returns m+n. Two distinct set currencies panic.
func (m Money) Add(n Money) Money {
	return Money{value: m.value.Add(n.value), cur: mergeCur(m, n)}
}

// Sub returns m-n, with Add's currency rules.
func (m Money) Sub(n Money) Money {
	return Money{value: m.value.Sub(n.value), cur: mergeCur(m, n)}
}

// Div divides the amount by a count, for averages.
func (m Money) Div(n int64) Money {
	return Money{value: m.value.Div(decimal.NewFromInt(n)), cur: m.cur}
}

// mergeCur resolves the currency of a binary operation, the "" currency
// yielding to the other side.
func mergeCur(a, b Money) string {
	switch {
	case a.cur == "":
		return b.cur
	case b.cur == "":
		return a.cur
	case a.cur != b.cur:
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// AsFloat returns the amount as a float64, for statistical aggregates only.
// Ledger arithmetic stays exact through decimal operations.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// MarshalJSON flattens to an amount and an optional currency field.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.value.Round(int32(m.currency().Fraction)))
	return w.MarshalJSON()
}
