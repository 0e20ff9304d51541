// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"math"
	"math/big"

	"golang.org/x/exp/constraints"

	mu "github.com/avdva/posit/internal/mathutil"
)

// unpackFloat64 returns the exact unpacked form of a finite non-zero float64.
func unpackFloat64(v float64) unpacked {
	if v == 0 {
		return unpacked{zero: true}
	}
	frac, exp := math.Frexp(math.Abs(v))
	// frac is in [0.5, 1) and has at most 53 significant bits.
	m := uint64(frac * (1 << 53))
	return unpacked{
		neg:   v < 0,
		scale: exp - 1,
		sig:   mu.U128(m).Lsh(75),
	}
}

// float64 returns the float64 nearest to u, ties to even.
func (u unpacked) float64() float64 {
	switch {
	case u.nar:
		return math.NaN()
	case u.zero:
		return 0
	}
	if u.scale < -1022 || u.scale > 1023 {
		res, _ := u.bigFloat().Float64()
		return res
	}
	m := u.sig.Hi >> 11
	half := u.sig.Hi>>10&1 == 1
	below := u.sig.Hi&(1<<10-1) != 0 || u.sig.Lo != 0 || u.sticky
	if half && (below || m&1 == 1) {
		m++
	}
	res := math.Ldexp(float64(m), u.scale-52)
	if u.neg {
		res = -res
	}
	return res
}

// bigFloat returns u as a big.Float with enough precision to be exact.
// The sticky bit becomes one more set bit below the significand.
func (u unpacked) bigFloat() *big.Float {
	m := u.sig.Big()
	exp := u.scale - 127
	if u.sticky {
		m.Lsh(m, 1).SetBit(m, 0, 1)
		exp--
	}
	if u.neg {
		m.Neg(m)
	}
	bf := new(big.Float).SetInt(m)
	return bf.SetMantExp(bf, exp)
}

// unpackRat returns the unpacked form of r, exact up to the sticky bit.
func unpackRat(r *big.Rat) unpacked {
	if r.Sign() == 0 {
		return unpacked{zero: true}
	}
	num := new(big.Int).Abs(r.Num())
	den := r.Denom()
	// scale the quotient to have at least 128 bits.
	s := 129 - (num.BitLen() - den.BitLen())
	if s > 0 {
		num.Lsh(num, uint(s))
	} else {
		den = new(big.Int).Lsh(den, uint(-s))
	}
	q, rem := num.QuoRem(num, den, new(big.Int))
	n := q.BitLen()
	sticky := rem.Sign() != 0
	if n > 128 {
		var exact bool
		q, exact = mu.QuoPow2(q, n-128)
		sticky = sticky || !exact
	}
	sig := mu.FromBig(q)
	return unpacked{
		neg:    r.Sign() < 0,
		scale:  n - 1 - s,
		sig:    sig.Lsh(sig.LeadingZeros()),
		sticky: sticky,
	}
}

// FromFloat64 returns the posit nearest to v.
// NaN is NaR; infinities are NaR or ±maxpos, depending on Config.Spec.
func (f *Format) FromFloat64(v float64) Posit {
	switch {
	case math.IsNaN(v):
		return f.NaR()
	case math.IsInf(v, 0):
		return f.infinite(v < 0)
	}
	return f.round(unpackFloat64(v))
}

// FromFloat32 returns the posit nearest to v.
func (f *Format) FromFloat32(v float32) Posit {
	// float32 to float64 conversion is exact.
	return f.FromFloat64(float64(v))
}

// FromInt64 returns the posit nearest to v.
func (f *Format) FromInt64(v int64) Posit {
	return f.FromRat(new(big.Rat).SetInt64(v))
}

// FromUint64 returns the posit nearest to v.
func (f *Format) FromUint64(v uint64) Posit {
	return f.FromRat(new(big.Rat).SetUint64(v))
}

// FromRat returns the posit nearest to r.
func (f *Format) FromRat(r *big.Rat) Posit {
	return f.round(unpackRat(r))
}

// FromInt returns the posit nearest to v.
func FromInt[T constraints.Integer](f *Format, v T) Posit {
	if v < 0 {
		return f.FromInt64(int64(v))
	}
	return f.FromUint64(uint64(v))
}

// ToInt rounds p to the nearest integer, ties to even.
// It returns a DomainError if p is NaR or the result does not fit T.
func ToInt[T constraints.Integer](p Posit) (T, error) {
	r, err := p.Rat()
	if err != nil {
		return 0, err
	}
	i := mu.RoundRat(r)
	var res T
	switch {
	case i.IsInt64():
		res = T(i.Int64())
	case i.IsUint64():
		res = T(i.Uint64())
	default:
		return 0, DomainError.New("%v is out of range", p)
	}
	// the conversion wraps around if the value does not fit T.
	if res < 0 {
		if !i.IsInt64() || int64(res) != i.Int64() {
			return 0, DomainError.New("%v is out of range", p)
		}
	} else if !i.IsUint64() || uint64(res) != i.Uint64() {
		return 0, DomainError.New("%v is out of range", p)
	}
	return res, nil
}

// Float64 returns the float64 nearest to p. NaR is NaN.
// The result is exact when the fraction of p fits 52 bits and its scale is in range.
func (p Posit) Float64() float64 {
	f := p.format()
	if p.IsNaR() {
		return math.NaN()
	}
	return f.cfg.Backend.toDouble(f.decode(p.bits))
}

// Float32 returns the float32 nearest to p. NaR is NaN.
func (p Posit) Float32() float32 {
	if p.IsNaR() {
		return float32(math.NaN())
	}
	u := p.format().decode(p.bits)
	if u.zero {
		return 0
	}
	res, _ := u.bigFloat().Float32()
	return res
}

// Rat returns the exact value of p.
// It returns a DomainError if p is NaR.
func (p Posit) Rat() (*big.Rat, error) {
	if p.IsNaR() {
		return nil, DomainError.New("NaR has no real value")
	}
	u := p.format().decode(p.bits)
	if u.zero {
		return new(big.Rat), nil
	}
	return u.rat(), nil
}

func (u unpacked) rat() *big.Rat {
	m := u.sig.Big()
	if u.neg {
		m.Neg(m)
	}
	r := new(big.Rat).SetInt(m)
	exp := u.scale - 127
	pow := new(big.Int).Lsh(big.NewInt(1), uint(mu.AbsInt(exp)))
	if exp < 0 {
		return r.Quo(r, new(big.Rat).SetInt(pow))
	}
	return r.Mul(r, new(big.Rat).SetInt(pow))
}
