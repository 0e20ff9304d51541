// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package fixed implements binary fixed-point numbers of configurable width.
//
// A value is kept as an integer scaled by 2^FracBits, so addition and
// subtraction are exact, while multiplication, division, square roots and
// right shifts truncate toward zero and report it with the Inexact status.
// Results which do not fit the format saturate and report Overflow.
package fixed

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	mu "github.com/avdva/posit/internal/mathutil"
)

// Fixed is an immutable binary fixed-point number.
// The zero value is a zero of the Q1.0 format.
type Fixed struct {
	f Format
	v *big.Int
}

func (x Fixed) raw() *big.Int {
	if x.v == nil {
		return new(big.Int)
	}
	return x.v
}

func (x Fixed) format() Format {
	if x.f.IntBits == 0 {
		return Format{IntBits: 1}
	}
	return x.f
}

func (x Fixed) mustSame(y Fixed) Format {
	f := x.format()
	if f != y.format() {
		panic(fmt.Sprintf("fixed: format mismatch %v vs %v", f, y.format()))
	}
	return f
}

// FromInt64 returns a value for given int64 number.
func (f Format) FromInt64(v int64) (Fixed, Status) {
	return f.FromBigInt(big.NewInt(v))
}

// FromBigInt returns a value for given integer.
func (f Format) FromBigInt(v *big.Int) (Fixed, Status) {
	return f.saturate(new(big.Int).Lsh(v, uint(f.FracBits)), 0)
}

// FromMantExp returns a value for (-1)^neg * mant * 2^exp, truncated toward zero.
func (f Format) FromMantExp(neg bool, mant *big.Int, exp int) (Fixed, Status) {
	q, exact := mu.QuoPow2(new(big.Int).Abs(mant), -(exp + f.FracBits))
	if neg {
		q.Neg(q)
	}
	return f.saturate(q, inexact(exact))
}

// FromFloat64 returns a value for given float64, truncated toward zero.
// Returns an error for infinities, not-a-numbers and values out of range.
func (f Format) FromFloat64(v float64) (Fixed, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return f.Zero(), fmt.Errorf("bad float number")
	}
	frac, exp := math.Frexp(math.Abs(v))
	// frac has at most 53 significant bits.
	mant := new(big.Int).SetUint64(uint64(frac * (1 << 53)))
	res, st := f.FromMantExp(v < 0, mant, exp-53)
	if st&Overflow != 0 {
		return f.Zero(), errRange
	}
	return res, nil
}

// MustFromFloat64 calls FromFloat64 and panics on error.
func (f Format) MustFromFloat64(v float64) Fixed {
	res, err := f.FromFloat64(v)
	if err != nil {
		panic(err)
	}
	return res
}

// Format returns the format of x.
func (x Fixed) Format() Format {
	return x.format()
}

// Sign returns -1 if x < 0, 0 if x == 0, 1 if x > 0.
func (x Fixed) Sign() int {
	return x.raw().Sign()
}

// IsZero returns true if x == 0.
func (x Fixed) IsZero() bool {
	return x.Sign() == 0
}

// Neg returns -x.
func (x Fixed) Neg() Fixed {
	return Fixed{f: x.format(), v: new(big.Int).Neg(x.raw())}
}

// Abs returns |x|.
func (x Fixed) Abs() Fixed {
	return Fixed{f: x.format(), v: new(big.Int).Abs(x.raw())}
}

// Cmp compares two values.
// Returns -1 if x < y, 0 if x == y, 1 if x > y.
func (x Fixed) Cmp(y Fixed) int {
	x.mustSame(y)
	return x.raw().Cmp(y.raw())
}

// Add returns x+y.
func (x Fixed) Add(y Fixed) (Fixed, Status) {
	f := x.mustSame(y)
	return f.saturate(new(big.Int).Add(x.raw(), y.raw()), 0)
}

// Sub returns x-y.
func (x Fixed) Sub(y Fixed) (Fixed, Status) {
	f := x.mustSame(y)
	return f.saturate(new(big.Int).Sub(x.raw(), y.raw()), 0)
}

// Mul returns x*y.
func (x Fixed) Mul(y Fixed) (Fixed, Status) {
	f := x.mustSame(y)
	p := new(big.Int).Mul(x.raw(), y.raw())
	q, exact := mu.QuoPow2(p, f.FracBits)
	return f.saturate(q, inexact(exact))
}

// Div returns x/y. If y == 0, Div panics.
func (x Fixed) Div(y Fixed) (Fixed, Status) {
	f := x.mustSame(y)
	if y.IsZero() {
		panic("division by zero")
	}
	n := new(big.Int).Lsh(x.raw(), uint(f.FracBits))
	q, r := new(big.Int).QuoRem(n, y.raw(), new(big.Int))
	return f.saturate(q, inexact(r.Sign() == 0))
}

// Sqrt returns the square root of x. If x < 0, Sqrt panics.
func (x Fixed) Sqrt() (Fixed, Status) {
	f := x.format()
	if x.Sign() < 0 {
		panic("square root of a negative number")
	}
	n := new(big.Int).Lsh(x.raw(), uint(f.FracBits))
	r := new(big.Int).Sqrt(n)
	exact := new(big.Int).Mul(r, r).Cmp(n) == 0
	return f.saturate(r, inexact(exact))
}

// Shift returns x*2^n.
func (x Fixed) Shift(n int) (Fixed, Status) {
	f := x.format()
	q, exact := mu.QuoPow2(x.raw(), -n)
	return f.saturate(q, inexact(exact))
}

// MantExp returns such mant >= 0 and exp, that |x| = mant * 2^exp.
func (x Fixed) MantExp() (neg bool, mant *big.Int, exp int) {
	v := x.raw()
	return v.Sign() < 0, new(big.Int).Abs(v), -x.format().FracBits
}

// Float64 returns the nearest float64 value.
func (x Fixed) Float64() float64 {
	bf := new(big.Float).SetInt(x.raw())
	bf.SetMantExp(bf, -x.format().FracBits)
	res, _ := bf.Float64()
	return res
}

// Decimal returns the exact decimal value of x.
func (x Fixed) Decimal() decimal.Decimal {
	neg, mant, exp := x.MantExp()
	return mu.ExactDecimal(neg, mant, exp)
}

// String returns the exact decimal representation of x.
func (x Fixed) String() string {
	return x.Decimal().String()
}

// GoString returns debug string representation.
func (x Fixed) GoString() string {
	return x.String() + fmt.Sprintf(" {%v, %v}", x.raw(), x.format())
}

func inexact(exact bool) Status {
	if exact {
		return 0
	}
	return Inexact
}
