package domain

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Lenient wire values
// ============================================================

// Amount is a currency or quantity value as sent by the backend.
// The backend is inconsistent: amounts arrive as numbers, numeric strings,
// null, or not at all. Anything that does not parse decodes to zero.
type Amount struct {
	d decimal.Decimal
}

// NewAmount builds an Amount from a float. NaN and infinities become zero.
func NewAmount(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Amount{}
	}
	return Amount{d: decimal.NewFromFloat(f)}
}

// AmountFromDecimal wraps a decimal value.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// Decimal returns the exact value.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// Float64 returns the value as a float (for JSON responses and ratios).
func (a Amount) Float64() float64 {
	return a.d.InexactFloat64()
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.d = parseLenient(b)
	return nil
}

// parseLenient decodes a JSON number or numeric string. Anything else, and
// values too large to render as a float, decode to zero.
func parseLenient(b []byte) decimal.Decimal {
	s := strings.TrimSpace(string(b))
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" || s == "null" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return d
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// Progress is a completion percentage. The backend sends it as an integer,
// a float or a numeric string; it decodes leniently and is clamped to 0-100.
type Progress float64

func (p *Progress) UnmarshalJSON(b []byte) error {
	f := parseLenient(b).InexactFloat64()
	switch {
	case f < 0:
		f = 0
	case f > 100:
		f = 100
	}
	*p = Progress(f)
	return nil
}

// Date is a calendar date or timestamp. Accepts RFC3339, a naive
// timestamp, or YYYY-MM-DD. Empty or invalid input decodes to the zero time.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewDate wraps a time.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	d.Time = time.Time{}
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	u := d.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return []byte(`"` + u.Format("2006-01-02") + `"`), nil
	}
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}
