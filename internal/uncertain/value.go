// Package uncertain implements a measured value paired with its standard
// uncertainty. Arithmetic propagates uncertainty to first order assuming the
// operands are uncorrelated.
package uncertain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrSyntax is returned when a string cannot be read as an uncertain value.
var ErrSyntax = errors.New("invalid uncertain value")

// Value is a nominal value with a one-sigma uncertainty.
type Value struct {
	Nominal float64 `json:"nominal"`
	Sigma   float64 `json:"sigma"`
}

// New returns a Value. The sign of sigma is discarded.
func New(nominal, sigma float64) Value {
	return Value{Nominal: nominal, Sigma: math.Abs(sigma)}
}

// Exact returns a Value with zero uncertainty.
func Exact(nominal float64) Value {
	return Value{Nominal: nominal}
}

// Add returns v + o.
func (v Value) Add(o Value) Value {
	return Value{Nominal: v.Nominal + o.Nominal, Sigma: math.Hypot(v.Sigma, o.Sigma)}
}

// Sub returns v - o.
func (v Value) Sub(o Value) Value {
	return Value{Nominal: v.Nominal - o.Nominal, Sigma: math.Hypot(v.Sigma, o.Sigma)}
}

// Mul returns v * o.
func (v Value) Mul(o Value) Value {
	return Value{
		Nominal: v.Nominal * o.Nominal,
		Sigma:   math.Hypot(v.Sigma*o.Nominal, o.Sigma*v.Nominal),
	}
}

// Div returns v / o. Division by an exact zero yields an infinite nominal.
func (v Value) Div(o Value) Value {
	n := v.Nominal / o.Nominal
	return Value{
		Nominal: n,
		Sigma:   math.Abs(n) * math.Hypot(relative(v), relative(o)),
	}
}

// Scale multiplies by an exact constant.
func (v Value) Scale(k float64) Value {
	return Value{Nominal: v.Nominal * k, Sigma: math.Abs(v.Sigma * k)}
}

// Inverse returns k / v for an exact constant k.
func (v Value) Inverse(k float64) Value {
	return Exact(k).Div(v)
}

// Cmp compares nominal values. Uncertainty does not take part in ordering.
func (v Value) Cmp(o Value) int {
	switch {
	case v.Nominal < o.Nominal:
		return -1
	case v.Nominal > o.Nominal:
		return 1
	default:
		return 0
	}
}

// Overlaps reports whether the one-sigma intervals of v and o intersect.
func (v Value) Overlaps(o Value) bool {
	return math.Abs(v.Nominal-o.Nominal) <= v.Sigma+o.Sigma
}

// IsExact reports whether the value carries no uncertainty.
func (v Value) IsExact() bool { return v.Sigma == 0 }

func (v Value) String() string {
	if v.Sigma == 0 {
		return strconv.FormatFloat(v.Nominal, 'g', -1, 64)
	}
	return fmt.Sprintf("%g+/-%g", v.Nominal, v.Sigma)
}

func relative(v Value) float64 {
	if v.Nominal == 0 {
		if v.Sigma == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return v.Sigma / math.Abs(v.Nominal)
}

// Parse reads the notations used by the atomic-weight and wallet-card tables:
//
//	1.00782503207(10)   concise form, uncertainty in the last digits
//	4.5(1.2)            concise form with an absolute uncertainty
//	1.23(4)E-5          concise form with exponent
//	[1.00784,1.00811]   interval, read as midpoint +/- half width
//	12.011              exact
//	12.011+/-0.002      explicit
func Parse(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty", ErrSyntax)
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return parseInterval(s)
	}
	if nom, sig, ok := strings.Cut(s, "+/-"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(nom), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		u, err := strconv.ParseFloat(strings.TrimSpace(sig), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		return New(n, u), nil
	}
	if open := strings.IndexByte(s, '('); open >= 0 {
		return parseConcise(s, open)
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return Exact(n), nil
}

func parseInterval(s string) (Value, error) {
	lo, hi, ok := strings.Cut(s[1:len(s)-1], ",")
	if !ok {
		return Value{}, fmt.Errorf("%w: interval %q needs two bounds", ErrSyntax, s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	if b < a {
		return Value{}, fmt.Errorf("%w: interval %q is reversed", ErrSyntax, s)
	}
	return New((a+b)/2, (b-a)/2), nil
}

func parseConcise(s string, open int) (Value, error) {
	closing := strings.IndexByte(s, ')')
	if closing < open {
		return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	mantissa := s[:open]
	digits := s[open+1 : closing]
	exponent := s[closing+1:]

	n, err := strconv.ParseFloat(mantissa+exponent, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	scale := 1.0
	if exponent != "" {
		e, err := strconv.ParseFloat("1"+exponent, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		scale = e
	}

	if strings.Contains(digits, ".") {
		u, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		return New(n, u*scale), nil
	}

	u, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	decimals := 0
	if dot := strings.IndexByte(mantissa, '.'); dot >= 0 {
		decimals = len(mantissa) - dot - 1
	}
	return New(n, float64(u)*math.Pow10(-decimals)*scale), nil
}
