// Package pricing holds the invoice line arithmetic: dimensional quantity,
// price tier resolution, extra product formulas and line/invoice totals.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Dimension is one measured side as entered by the operator. It stays a
// string so an invoice keeps exactly what was typed; JSON numbers are
// accepted too.
type Dimension string

func (d *Dimension) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = Dimension(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("dimension must be a number or a numeric string: %w", err)
	}
	*d = Dimension(n.String())
	return nil
}

// Decimal parses the dimension; missing or invalid input reads as zero.
func (d Dimension) Decimal() decimal.Decimal {
	v, err := d.parse()
	if err != nil {
		return decimal.Zero
	}
	return v
}

// Limits keep one measurement from blowing up decimal arithmetic: a
// huge exponent panics in Mul and a long coefficient makes String slow.
const (
	maxDimensionLength = 32
	maxDimensionScale  = 12
	maxDimensionExp    = 6
)

var (
	maxDimension      = decimal.NewFromInt(1_000_000)
	errDimensionRange = fmt.Errorf("must be at most %s with no more than %d decimal places", maxDimension, maxDimensionScale)
)

func (d Dimension) parse() (decimal.Decimal, error) {
	s := strings.TrimSpace(string(d))
	if len(s) > maxDimensionLength {
		return decimal.Zero, errDimensionRange
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	// exponent first: comparing rescales to a common exponent
	if exp := v.Exponent(); exp < -maxDimensionScale || exp > maxDimensionExp {
		return decimal.Zero, errDimensionRange
	}
	if v.Abs().GreaterThan(maxDimension) {
		return decimal.Zero, errDimensionRange
	}
	return v, nil
}

// Measurements are the a/b/c sides of an invoice line.
type Measurements struct {
	A Dimension `json:"a"`
	B Dimension `json:"b"`
	C Dimension `json:"c"`
}

// Quantity is a for one side, a×b for two and a×b×c for three. Any other
// side count yields zero.
func Quantity(sides int, m Measurements) decimal.Decimal {
	a, b, c := m.A.Decimal(), m.B.Decimal(), m.C.Decimal()
	switch sides {
	case 1:
		return a
	case 2:
		return a.Mul(b)
	case 3:
		return a.Mul(b).Mul(c)
	default:
		return decimal.Zero
	}
}

// ValidateMeasurements requires every side used by the product to be a
// number greater than zero.
func ValidateMeasurements(sides int, m Measurements) error {
	if sides < 1 || sides > 3 {
		return fmt.Errorf("count of sides must be 1, 2 or 3, got %d", sides)
	}
	dims := []struct {
		name  string
		value Dimension
	}{{"a", m.A}, {"b", m.B}, {"c", m.C}}

	for _, dim := range dims[:sides] {
		v, err := dim.value.parse()
		if errors.Is(err, errDimensionRange) {
			return fmt.Errorf("measurement %s %w", dim.name, err)
		}
		if err != nil || !v.IsPositive() {
			return fmt.Errorf("measurement %s must be a number greater than zero", dim.name)
		}
	}
	return nil
}
