// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"

	mu "github.com/avdva/posit/internal/mathutil"
)

func TestFields(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		nbits, es int
		bits      uint64
		fl        Fields
		value     string
	}{
		{8, 0, 0x00, Fields{Zero: true}, "0"},
		{8, 0, 0x80, Fields{NaR: true}, "NaR"},
		{8, 0, 0x40, Fields{K: 0, FracBits: 5}, "1"},
		{8, 0, 0xc0, Fields{Neg: true, K: 0, FracBits: 5}, "-1"},
		{8, 0, 0x50, Fields{K: 0, FracLo: 0x10, FracBits: 5}, "1.5"},
		{8, 0, 0x7f, Fields{K: 6, FracBits: 0}, "64"},
		{8, 0, 0x01, Fields{K: -6, FracBits: 0}, "0.015625"},
		{8, 1, 0x01, Fields{K: -6, FracBits: 0}, "0.000244140625"},
		{8, 1, 0x03, Fields{K: -5, E: 1, FracBits: 0}, "0.001953125"},
		{8, 2, 0x7f, Fields{K: 6, FracBits: 0}, "16777216"},
		{8, 2, 0x7e, Fields{K: 5, FracBits: 0}, "1048576"},
		{8, 2, 0x60, Fields{K: 1, E: 0, FracBits: 2}, "16"},
		{16, 2, 0x0ff2, Fields{K: -3, E: 3, FracLo: 0x1f2, FracBits: 9}, "0.003852844238281250"},
		{16, 2, 0x2123, Fields{K: -1, E: 0, FracLo: 0x123, FracBits: 11}, "0.07138061523437500"},
		{16, 2, 0x0841, Fields{K: -3, E: 0, FracLo: 0x41, FracBits: 9}, "0.000275135040283203125"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			f := mustFormat(t, test.nbits, test.es, IntBackend(32))
			fl := f.Decode(test.bits)
			a.Equal(test.fl, fl)
			expected, ok := new(big.Rat).SetString(test.value)
			if test.value == "NaR" {
				a.True(f.FromBits(test.bits).IsNaR())
			} else if a.True(ok) {
				a.Equal(expected.String(), mustRat(t, f.FromBits(test.bits)).String())
			}
			p, err := f.Encode(fl)
			if a.NoError(err) {
				a.Equal(test.bits, p.Bits())
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	a := assert.New(t)
	f := mustFormat(t, 16, 2, IntBackend(32))
	tests := []struct {
		fl Fields
	}{
		{Fields{E: 4}},
		{Fields{E: -1}},
		{Fields{FracBits: -1}},
		{Fields{FracBits: 128}},
		{Fields{FracLo: 0x10, FracBits: 4}},
		{Fields{FracHi: 1, FracBits: 64}},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			p, err := f.Encode(test.fl)
			a.True(ConfigError.Has(err), "%v", err)
			a.True(p.IsNaR())
		})
	}
}

func TestEncodeRounding(t *testing.T) {
	a := assert.New(t)
	f := mustFormat(t, 8, 0, IntBackend(32))
	tests := []struct {
		fl   Fields
		bits uint64
	}{
		// 1 + 1/64 is halfway between 1 and 1 + 1/32, ties to even.
		{Fields{FracLo: 0x1, FracBits: 6}, 0x40},
		{Fields{FracLo: 0x3, FracBits: 6}, 0x42},
		{Fields{FracLo: 0x3, FracBits: 7}, 0x41},
		// carry into the regime.
		{Fields{FracLo: 0x3f, FracBits: 6}, 0x60},
		// saturation.
		{Fields{K: 100}, 0x7f},
		{Fields{K: -100}, 0x01},
		{Fields{Neg: true, K: 100}, 0x81},
		{Fields{Neg: true, K: -100}, 0xff},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			p, err := f.Encode(test.fl)
			if a.NoError(err) {
				a.Equal(test.bits, p.Bits(), "%#x", p.Bits())
			}
		})
	}
}

// TestRoundTrip checks that every pattern of narrow formats decodes and encodes back.
func TestRoundTrip(t *testing.T) {
	eg, _ := errgroup.WithContext(context.Background())
	for nbits := 2; nbits <= 12; nbits++ {
		for es := 0; es <= 3 && es < nbits-1; es++ {
			nbits, es := nbits, es
			eg.Go(func() error {
				f, err := New(Config{NBits: nbits, ES: es, Backend: exactBackend(nbits, es)})
				if err != nil {
					return err
				}
				l := f.layout()
				for i := uint64(0); i < 1<<uint(nbits); i++ {
					bits := mu.U128(i)
					if got := l.encode(l.decode(bits)); got != bits {
						return fmt.Errorf("%v: %v encoded as %v: %s", f, bits, got, spew.Sdump(l.fields(bits)))
					}
					if got := f.decode(bits); got != l.decode(bits) {
						return fmt.Errorf("%v: table entry of %v differs", f, bits)
					}
					p, err := f.Encode(l.fields(bits))
					if err != nil {
						return err
					}
					if p.bits != bits {
						return fmt.Errorf("%v: fields of %v encoded as %v", f, bits, p.bits)
					}
				}
				return nil
			})
		}
	}
	assert.NoError(t, eg.Wait())
}

// TestOrdering checks that the values are strictly increasing with the patterns
// read as signed integers, and that negation is exact.
func TestOrdering(t *testing.T) {
	a := assert.New(t)
	for _, c := range []struct{ nbits, es int }{{3, 0}, {6, 1}, {8, 0}, {8, 2}, {10, 3}, {12, 1}} {
		f := mustFormat(t, c.nbits, c.es, exactBackend(c.nbits, c.es))
		prev := f.NaR().Next()
		a.Equal(prev.bits, f.MaxPos().Neg().bits)
		prevRat := mustRat(t, prev)
		for p := prev.Next(); !p.IsNaR(); p = p.Next() {
			r := mustRat(t, p)
			if !a.True(prevRat.Cmp(r) < 0, "%v: %#v >= %#v", f, prev, p) {
				return
			}
			a.Equal(Less, prev.Cmp(p))
			a.Less(prev.Float64(), p.Float64())
			a.Equal(Greater, p.Cmp(prev))
			a.True(prev.Less(p))
			a.Equal(new(big.Rat).Neg(r).String(), mustRat(t, p.Neg()).String())
			a.Equal(Equal, p.CmpValue(p))
			a.Equal(Less, prev.CmpValue(p))
			a.Equal(Greater, p.CmpValue(prev))
			a.Equal(p.bits, p.Prev().Next().bits)
			prev, prevRat = p, r
		}
		a.Equal(f.MaxPos().bits, prev.bits)
	}
}

func TestCmpValue(t *testing.T) {
	a := assert.New(t)
	p8 := mustFormat(t, 8, 0, IntBackend(32))
	p16 := mustFormat(t, 16, 1, IntBackend(32))
	p64 := mustFormat(t, 64, 3, IntBackend(128))
	tests := []struct {
		x, y Posit
		res  Ordering
	}{
		{p8.FromFloat64(1.5), p16.FromFloat64(1.5), Equal},
		{p8.FromFloat64(-1.5), p64.FromFloat64(-1.5), Equal},
		{p8.Zero(), p64.Zero(), Equal},
		{p8.Zero(), p64.MinPos(), Less},
		{p8.Zero(), p64.MinPos().Neg(), Greater},
		{p8.MaxPos(), p16.MaxPos(), Less},
		{p8.MinPos(), p16.MinPos(), Greater},
		{p8.MaxPos().Neg(), p64.FromInt64(-65), Greater},
		// 0.1 is rounded differently by the two formats.
		{p8.FromFloat64(0.1), p16.FromFloat64(0.1), Less},
		{p16.FromFloat64(0.1), p64.FromFloat64(0.1), Greater},
		{p8.NaR(), p16.One(), Unordered},
		{p16.One(), p16.NaR(), Unordered},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.res, test.x.CmpValue(test.y), "%v vs %v", test.x, test.y)
			if test.res != Unordered {
				a.Equal(-test.res, test.y.CmpValue(test.x))
			}
			rx, errx := test.x.Rat()
			ry, erry := test.y.Rat()
			if errx == nil && erry == nil {
				a.Equal(int(test.res), rx.Cmp(ry))
			}
		})
	}
}

func TestSpecialValues(t *testing.T) {
	a := assert.New(t)
	for _, c := range []struct{ nbits, es int }{{2, 0}, {8, 0}, {16, 1}, {32, 2}, {64, 3}, {128, 2}} {
		f := mustFormat(t, c.nbits, c.es, exactBackend(c.nbits, c.es))
		a.True(f.Zero().IsZero())
		a.True(f.NaR().IsNaR())
		a.Equal("1", f.One().String())
		a.Equal(Unordered, f.NaR().Cmp(f.NaR()))
		a.False(f.NaR().Equal(f.NaR()))
		a.True(f.Zero().Equal(f.Zero().Neg()))
		a.True(f.NaR().Neg().IsNaR())
		a.Equal(0, f.NaR().Sign())
		a.Equal(-1, f.One().Neg().Sign())
		a.Equal(f.MinPos().bits, f.Zero().Next().bits)
		a.Equal(f.MinPos().Neg().bits, f.Zero().Prev().bits)

		maxpos := new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(f.MaxScale())))
		a.Equal(maxpos.String(), mustRat(t, f.MaxPos()).String())
		a.Equal(new(big.Rat).Inv(maxpos).String(), mustRat(t, f.MinPos()).String())
		a.Equal(f.MaxPos().Neg().bits, f.NaR().Next().bits)
	}
}
