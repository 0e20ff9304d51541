// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"math/bits"

	mu "github.com/avdva/posit/internal/mathutil"
)

// The integer backend works on the significands as 64-bit integers in
// [2^63, 2^64). A posit of at most 64 bits has no more than 62 significant
// bits, so products fit 128 bits and quotients and roots get at least
// two extra bits before the sticky one.

func cmpMagnitude(x, y unpacked) int {
	switch {
	case x.scale < y.scale:
		return -1
	case x.scale > y.scale:
		return 1
	default:
		return x.sig.Cmp(y.sig)
	}
}

func intAdd(x, y unpacked) unpacked {
	if cmpMagnitude(x, y) < 0 {
		x, y = y, x
	}
	// one bit of headroom for the carry.
	a, sticky := x.sig.RshSticky(1)
	b, lost := y.sig.RshSticky(1 + x.scale - y.scale)
	if sticky = sticky || lost || y.sticky; sticky {
		b.Lo |= 1
	}
	var s mu.Uint128
	if x.neg == y.neg {
		s = a.Add(b)
	} else {
		s = a.Sub(b)
	}
	if s.IsZero() {
		return unpacked{zero: true}
	}
	lz := s.LeadingZeros()
	return unpacked{
		neg:    x.neg,
		scale:  x.scale + 1 - lz,
		sig:    s.Lsh(lz),
		sticky: sticky,
	}
}

func intMul(x, y unpacked) unpacked {
	hi, lo := bits.Mul64(x.sig.Hi, y.sig.Hi)
	p := mu.Uint128{Hi: hi, Lo: lo}
	scale := x.scale + y.scale
	if hi>>63 == 0 {
		p = p.Lsh(1)
	} else {
		scale++
	}
	return unpacked{neg: x.neg != y.neg, scale: scale, sig: p}
}

func intDiv(x, y unpacked) unpacked {
	// (x.Hi * 2^63) / y.Hi, then 64 more quotient bits from the remainder.
	q1, r := bits.Div64(x.sig.Hi>>1, x.sig.Hi<<63, y.sig.Hi)
	q0, r := bits.Div64(r, 0, y.sig.Hi)
	q := mu.Uint128{Hi: q1, Lo: q0}
	lz := q.LeadingZeros()
	return unpacked{
		neg:    x.neg != y.neg,
		scale:  x.scale - y.scale - lz,
		sig:    q.Lsh(lz),
		sticky: r != 0,
	}
}

func intSqrt(x unpacked) unpacked {
	s, lost := x.sig, false
	if x.scale&1 == 0 {
		s, lost = s.RshSticky(1)
	}
	root, rem := s.Sqrt()
	return unpacked{
		scale:  x.scale >> 1,
		sig:    mu.Uint128{Hi: root},
		sticky: lost || !rem.IsZero(),
	}
}
