package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/gval"
	"github.com/shopspring/decimal"
)

// Formulas are arithmetic over the line's measurements only: numeric
// literals, a, b and c as whole identifiers, + - * /, unary minus and
// parentheses. Anything else fails to evaluate. Arithmetic is decimal so
// totals stay exact.
var formulaLanguage = gval.NewLanguage(
	gval.DecimalArithmetic(),
	gval.InfixDecimalOperator("/", func(a, b decimal.Decimal) (interface{}, error) {
		if b.IsZero() {
			return nil, errNotFinite
		}
		return a.Div(b), nil
	}),
	gval.PrefixOperator("-", func(_ context.Context, v interface{}) (interface{}, error) {
		d, ok := v.(decimal.Decimal)
		if !ok {
			return nil, fmt.Errorf("unexpected %v(%T), expected number", v, v)
		}
		return d.Neg(), nil
	}),
)

var errFormulaSyntax = errors.New("formula may only use numbers, a, b, c, + - * / and parentheses")

// EvaluateFormula computes an extra product's quantity from its calculation
// type. Failures, NaN and infinities yield zero.
func EvaluateFormula(formula string, m Measurements) decimal.Decimal {
	v, err := evaluate(formula, m.A.Decimal(), m.B.Decimal(), m.C.Decimal())
	if err != nil {
		return decimal.Zero
	}
	return v
}

// CheckFormula reports whether formula is well formed. It evaluates with
// every variable set to one, so a formula that only divides by zero for
// some inputs is still accepted.
func CheckFormula(formula string) error {
	one := decimal.NewFromInt(1)
	_, err := evaluate(formula, one, one, one)
	if errors.Is(err, errNotFinite) {
		return nil
	}
	return err
}

var errNotFinite = errors.New("formula result is not a finite number")

func evaluate(formula string, a, b, c decimal.Decimal) (result decimal.Decimal, err error) {
	expr := strings.ToLower(strings.TrimSpace(formula))
	if expr == "" {
		return decimal.Zero, errors.New("formula is empty")
	}
	if !allowedFormula(expr) {
		return decimal.Zero, errFormulaSyntax
	}

	// decimal panics on exponent overflow
	defer func() {
		if r := recover(); r != nil {
			result, err = decimal.Zero, fmt.Errorf("evaluate formula %q: %v", formula, r)
		}
	}()

	value, err := formulaLanguage.Evaluate(expr, map[string]interface{}{
		"a": a,
		"b": b,
		"c": c,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("evaluate formula %q: %w", formula, err)
	}

	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, fmt.Errorf("formula %q does not produce a number", formula)
	}
}

func allowedFormula(expr string) bool {
	if strings.Contains(expr, "**") {
		return false
	}
	for _, r := range expr {
		switch {
		case r >= '0' && r <= '9':
		case r == 'a' || r == 'b' || r == 'c':
		case strings.ContainsRune(".+-*/() \t", r):
		default:
			return false
		}
	}
	return true
}
