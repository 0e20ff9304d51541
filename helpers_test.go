// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	mu "github.com/avdva/posit/internal/mathutil"
)

// exactBackend returns a fixed-point backend able to hold every posit of the format.
func exactBackend(nbits, es int) Backend {
	need := (nbits-2)<<uint(es) + 2
	return FixedBackend(need, need)
}

func mustFormat(t testing.TB, nbits, es int, b Backend) *Format {
	f, err := New(Config{NBits: nbits, ES: es, Backend: b})
	require.NoError(t, err)
	return f
}

// formatsFor returns the same geometry with every backend which can serve it.
func formatsFor(t testing.TB, nbits, es int) []*Format {
	res := []*Format{mustFormat(t, nbits, es, exactBackend(nbits, es))}
	for _, w := range []int{32, 64, 128} {
		if 2*nbits <= w {
			res = append(res, mustFormat(t, nbits, es, IntBackend(w)))
			break
		}
	}
	return res
}

func randPosit(r *rand.Rand, f *Format) Posit {
	p := f.FromBits128(r.Uint64(), r.Uint64())
	// values around one are more interesting than the extremes.
	if r.Intn(2) == 0 {
		p = f.make(f.One().bits.Xor(mu.U128(r.Uint64()).Rsh(64 - f.NBits()/2)))
		if r.Intn(2) == 0 {
			p = p.Neg()
		}
	}
	return p
}

func mustRat(t testing.TB, p Posit) *big.Rat {
	r, err := p.Rat()
	require.NoError(t, err, spew.Sdump(p.Fields()))
	return r
}

// oracle checks rounding independently of the encoder.
// The rounding boundary between the posits with patterns p and p+1 is
// the value of the pattern 2p+1 of the posit format one bit wider.
type oracle struct {
	f, wide *Format
}

func newOracle(t testing.TB, f *Format) *oracle {
	nbits, es := f.NBits()+1, f.ES()
	return &oracle{f: f, wide: mustFormat(t, nbits, es, exactBackend(nbits, es))}
}

func (o *oracle) midpoint(bits mu.Uint128) *big.Rat {
	r, err := o.wide.make(bits.Lsh(1).Or(mu.U128(1))).Rat()
	if err != nil {
		panic(err)
	}
	return r
}

// check returns an error if p is not the correct rounding of a value x
// with the given sign; cmpAbs(m) compares |x| with m.
func (o *oracle) check(p Posit, sign int, cmpAbs func(m *big.Rat) int) error {
	if sign == 0 {
		if !p.IsZero() {
			return fmt.Errorf("expected zero, got %#v", p)
		}
		return nil
	}
	abs := p
	if sign < 0 {
		abs = p.Neg()
	}
	if abs.IsNaR() || abs.Sign() <= 0 {
		return fmt.Errorf("expected a value of sign %d, got %#v", sign, p)
	}
	bits, odd := abs.bits, abs.bits.Lo&1 == 1
	if bits != o.f.MaxPos().bits {
		if c := cmpAbs(o.midpoint(bits)); c > 0 || c == 0 && odd {
			return fmt.Errorf("%#v is too small", p)
		}
	}
	if bits != o.f.MinPos().bits {
		if c := cmpAbs(o.midpoint(bits.Sub(mu.U128(1)))); c < 0 || c == 0 && odd {
			return fmt.Errorf("%#v is too large", p)
		}
	}
	return nil
}

// checkRat checks that p is x rounded.
func (o *oracle) checkRat(p Posit, x *big.Rat) error {
	abs := new(big.Rat).Abs(x)
	return o.check(p, x.Sign(), func(m *big.Rat) int {
		return abs.Cmp(m)
	})
}

// checkSqrt checks that p is sqrt(x) rounded.
func (o *oracle) checkSqrt(p Posit, x *big.Rat) error {
	return o.check(p, x.Sign(), func(m *big.Rat) int {
		return x.Cmp(new(big.Rat).Mul(m, m))
	})
}
