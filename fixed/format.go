// Copyright 2020 Aleksandr Demakin. All rights reserved.

package fixed

import (
	"fmt"
	"math/big"
)

const (
	// MaxTotalBits is the maximum IntBits+FracBits of a format.
	MaxTotalBits = 1 << 17
)

var (
	errRange  = fmt.Errorf("value out of range")
	errFormat = fmt.Errorf("bad fixed-point format")
)

// Format describes a binary fixed-point representation.
// A value v of the format is stored as the integer v*2^FracBits,
// and |v| must stay below 2^IntBits.
type Format struct {
	IntBits  int
	FracBits int
}

// Status reports how an operation's result differs from the exact one.
type Status uint8

const (
	// Inexact is set if the result was truncated toward zero.
	Inexact Status = 1 << iota
	// Overflow is set if the result was saturated to the format bounds.
	Overflow
)

// Validate checks the format.
func (f Format) Validate() error {
	if f.IntBits < 1 || f.FracBits < 0 || f.IntBits+f.FracBits > MaxTotalBits {
		return fmt.Errorf("%w: %d.%d", errFormat, f.IntBits, f.FracBits)
	}
	return nil
}

// String returns the format in Q notation, like "Q16.16".
func (f Format) String() string {
	return fmt.Sprintf("Q%d.%d", f.IntBits, f.FracBits)
}

// maxRaw returns the largest stored integer, 2^(IntBits+FracBits) - 1.
func (f Format) maxRaw() *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(f.IntBits+f.FracBits))
	return m.Sub(m, big.NewInt(1))
}

// Zero returns a zero value of the format.
func (f Format) Zero() Fixed {
	return Fixed{f: f, v: new(big.Int)}
}

// Max returns the largest value of the format.
func (f Format) Max() Fixed {
	return Fixed{f: f, v: f.maxRaw()}
}

// Min returns the smallest (most negative) value of the format.
func (f Format) Min() Fixed {
	return Fixed{f: f, v: new(big.Int).Neg(f.maxRaw())}
}

// Resolution returns the smallest positive value of the format, 2^-FracBits.
func (f Format) Resolution() Fixed {
	return Fixed{f: f, v: big.NewInt(1)}
}

// saturate clamps v to the format bounds.
func (f Format) saturate(v *big.Int, st Status) (Fixed, Status) {
	m := f.maxRaw()
	if v.CmpAbs(m) > 0 {
		if v.Sign() < 0 {
			m.Neg(m)
		}
		return Fixed{f: f, v: m}, st | Overflow
	}
	return Fixed{f: f, v: v}, st
}
