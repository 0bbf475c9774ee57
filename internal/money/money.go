// Package money represents monetary amounts as integer minor currency
// units (cents). All arithmetic stays in integers; decimal strings exist
// only at the API boundary.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount in minor currency units.
type Money int64

// ParseDecimal converts a decimal string to Money with half-up rounding on
// the third decimal place. Both dot and comma separators are accepted.
// Negative amounts are rejected; zero is allowed so callers can enforce
// their own positivity rules.
func ParseDecimal(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = math.MaxInt64 / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	return Money(iv*100 + fracCents), nil
}

// FromFloat converts a float amount in major units, rounding half away
// from zero to the nearest cent.
func FromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float returns the amount in major units. Display only; never feed the
// result back into ledger arithmetic.
func (m Money) Float() float64 {
	return float64(m) / 100.0
}

// Percent returns pct percent of m, rounded half away from zero.
func (m Money) Percent(pct float64) Money {
	return Money(math.Round(float64(m) * pct / 100))
}

// Split divides m into n parts that sum exactly to m. The remainder is
// handed out one cent at a time starting from the first part.
func (m Money) Split(n int) []Money {
	if n <= 0 {
		return nil
	}
	base := int64(m) / int64(n)
	rem := int64(m) % int64(n)

	parts := make([]Money, n)
	for i := range parts {
		parts[i] = Money(base)
		if int64(i) < rem {
			parts[i]++
		}
	}
	return parts
}

// Half returns m divided by two, truncating the odd cent.
func (m Money) Half() Money {
	return m / 2
}

func Sum(amounts []Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	parsed, err := ParseDecimal(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *Money) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*m = Money(v)
		return nil
	case nil:
		*m = 0
		return nil
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
}
