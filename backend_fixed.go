// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"github.com/avdva/posit/fixed"
	mu "github.com/avdva/posit/internal/mathutil"
)

// toFixed converts a decoded posit to the backend's fixed-point format.
// The conversion is exact: the format holds every posit (see validate).
func (b Backend) toFixed(x unpacked) fixed.Fixed {
	tz := x.sig.TrailingZeros()
	mant := x.sig.Rsh(tz).Big()
	if x.neg {
		mant.Neg(mant)
	}
	v, _ := b.Fixed.FromBigInt(mant)
	v, _ = v.Shift(x.scale - 127 + tz)
	return v
}

func (b Backend) fixedOp(f *Format, o op, x, y unpacked) unpacked {
	a := b.toFixed(x)
	var (
		r   fixed.Fixed
		st  fixed.Status
		neg = x.neg != y.neg
	)
	switch o {
	case opAdd:
		r, st = a.Add(b.toFixed(y))
	case opMul:
		r, st = a.Mul(b.toFixed(y))
	case opDiv:
		r, st = a.Div(b.toFixed(y))
	case opSqrt:
		r, st = a.Sqrt()
		neg = false
	}
	return f.fromFixed(r, st, neg)
}

// fromFixed converts a result of the collaborator back, turning its
// truncation into the sticky bit. neg is the sign of the exact result,
// which is lost if it was truncated to zero.
func (f *Format) fromFixed(r fixed.Fixed, st fixed.Status, neg bool) unpacked {
	rneg, mant, exp := r.MantExp()
	switch {
	case st&fixed.Overflow != 0:
		return f.saturated(rneg, true)
	case mant.Sign() == 0:
		if st&fixed.Inexact != 0 {
			return f.saturated(neg, false)
		}
		return unpacked{zero: true}
	}
	n := mant.BitLen()
	sticky := st&fixed.Inexact != 0
	if n > 128 {
		var exact bool
		mant, exact = mu.QuoPow2(mant, n-128)
		sticky = sticky || !exact
	}
	sig := mu.FromBig(mant)
	return unpacked{
		neg:    rneg,
		scale:  exp + n - 1,
		sig:    sig.Lsh(sig.LeadingZeros()),
		sticky: sticky,
	}
}
