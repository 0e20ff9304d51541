// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	mu "github.com/avdva/posit/internal/mathutil"
)

// layout holds the bit field geometry of a format.
//
//   nbits-1    regime         exponent    fraction     0
//   ________|______________|____________|___________|
//   s        r r r ... r r̄   e1 ... e_es   f1 ... f_n
//
// The regime is a run of identical bits terminated by the opposite bit (or
// by the end of the pattern). A run of r ones means k = r-1, a run of r zeros
// means k = -r. The exponent and the fraction take whatever bits are left;
// missing exponent bits are zeros.
type layout struct {
	nbits, es int
	mask, nar mu.Uint128
}

// unpacked is a finite value (-1)^neg * sig/2^127 * 2^scale, where the
// hidden bit of sig is bit 127. sticky marks non-zero bits below sig.
type unpacked struct {
	neg    bool
	zero   bool
	nar    bool
	scale  int
	sig    mu.Uint128
	sticky bool
}

var hiddenBit = mu.Uint128{Hi: 1 << 63}

// Fields is a decoded posit: (-1)^Neg * 2^(K*2^ES + E) * (1 + Frac/2^FracBits),
// where Frac = FracHi<<64 | FracLo.
type Fields struct {
	Neg      bool
	K        int
	E        int
	FracHi   uint64
	FracLo   uint64
	FracBits int
	Zero     bool
	NaR      bool
}

// Scale returns the binary exponent K*2^es + E.
func (fl Fields) Scale(es int) int {
	return fl.K<<uint(es) + fl.E
}

func (fl Fields) frac() mu.Uint128 {
	return mu.Uint128{Hi: fl.FracHi, Lo: fl.FracLo}
}

func (fl Fields) unpack(es int) unpacked {
	switch {
	case fl.NaR:
		return unpacked{nar: true}
	case fl.Zero:
		return unpacked{zero: true}
	}
	frac := fl.frac().Lsh(128 - fl.FracBits)
	return unpacked{
		neg:   fl.Neg,
		scale: fl.Scale(es),
		sig:   hiddenBit.Or(frac.Rsh(1)),
	}
}

func (l layout) fields(p mu.Uint128) Fields {
	switch {
	case p.IsZero():
		return Fields{Zero: true}
	case p == l.nar:
		return Fields{NaR: true}
	}
	var fl Fields
	if p.Bit(l.nbits-1) == 1 {
		fl.Neg = true
		p = p.Neg().And(l.mask)
	}
	n := l.nbits - 1
	// left-align the bits which follow the sign.
	x := p.Lsh(128 - n)
	var run int
	if x.Bit(127) == 1 {
		run = x.LeadingOnes()
		fl.K = run - 1
	} else {
		run = x.LeadingZeros()
		fl.K = -run
	}
	used := run + 1
	if used > n {
		used = n
	}
	x = x.Lsh(used)
	if l.es > 0 {
		fl.E = int(x.Hi >> uint(64-l.es))
		x = x.Lsh(l.es)
	}
	if fl.FracBits = n - used - l.es; fl.FracBits < 0 {
		fl.FracBits = 0
	}
	frac := x.Rsh(128 - fl.FracBits)
	fl.FracHi, fl.FracLo = frac.Hi, frac.Lo
	return fl
}

func (l layout) decode(p mu.Uint128) unpacked {
	return l.fields(p).unpack(l.es)
}

// encode rounds u to the nearest pattern, ties to even.
// The rounding is done on the unbounded string regime|exponent|fraction|sticky,
// so a carry out of the fraction moves into the exponent and the regime.
// Non-zero values never round to zero or NaR: they saturate at minpos and maxpos.
func (l layout) encode(u unpacked) mu.Uint128 {
	switch {
	case u.nar:
		return l.nar
	case u.zero:
		return mu.Uint128{}
	}
	n := l.nbits - 1
	k := u.scale >> uint(l.es)
	var p mu.Uint128
	switch {
	case k >= n-1:
		p = mu.Mask(n)
	case k < -(n - 1):
		p = mu.U128(1)
	default:
		var regime mu.Uint128
		var rl int
		if k >= 0 {
			rl = k + 2
			regime = mu.Mask(k + 1).Lsh(1)
		} else {
			rl = 1 - k
			regime = mu.U128(1)
		}
		avail := n - rl
		t, sticky := u.sig.Lsh(1), u.sticky
		if l.es > 0 {
			var lost bool
			t, lost = t.RshSticky(l.es)
			t.Hi |= uint64(u.scale&(1<<uint(l.es)-1)) << uint(64-l.es)
			sticky = sticky || lost
		}
		guard := t.Bit(127-avail) == 1
		sticky = sticky || !t.Lsh(avail+1).IsZero()
		p = regime.Lsh(avail).Or(t.Rsh(128 - avail))
		if guard && (sticky || p.Lo&1 == 1) {
			p = p.Add64(1)
		}
	}
	if u.neg {
		p = p.Neg().And(l.mask)
	}
	return p
}

func (f *Format) decode(p mu.Uint128) unpacked {
	if f.table != nil {
		return f.table.entries[p.Lo]
	}
	return f.layout().decode(p)
}

// Fields decodes p.
func (p Posit) Fields() Fields {
	return p.format().layout().fields(p.bits)
}

// Decode decodes a pattern of at most 64 bits.
func (f *Format) Decode(bits uint64) Fields {
	return f.FromBits(bits).Fields()
}

// Encode returns the posit nearest to fl, rounding the fraction if it has
// more bits than the format can hold at the given scale.
func (f *Format) Encode(fl Fields) (Posit, error) {
	switch {
	case fl.NaR:
		return f.NaR(), nil
	case fl.Zero:
		return f.Zero(), nil
	case fl.E < 0 || fl.E >= 1<<uint(f.cfg.ES):
		return f.NaR(), ConfigError.New("exponent %d does not fit %d bits", fl.E, f.cfg.ES)
	case fl.FracBits < 0 || fl.FracBits >= 128:
		return f.NaR(), ConfigError.New("fraction width %d out of range", fl.FracBits)
	case !fl.frac().Rsh(fl.FracBits).IsZero():
		return f.NaR(), ConfigError.New("fraction %v does not fit %d bits", fl.frac(), fl.FracBits)
	}
	return f.round(fl.unpack(f.cfg.ES)), nil
}
