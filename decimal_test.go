// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"encoding/json"
	"fmt"
	"testing"

	of "github.com/robaho/fixed"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimal(t *testing.T) {
	a := assert.New(t)
	f := mustFormat(t, 16, 2, IntBackend(32))
	tests := []struct {
		bits uint64
		s    string
	}{
		{0x0000, "0"},
		{0x4000, "1"},
		{0xc000, "-1"},
		{0x0ff2, "0.00385284423828125"},
		{0x0841, "0.000275135040283203125"},
		{0x0001, "0.00000000000000001387778780781445675529539585113525390625"},
		{0x7fff, "72057594037927936"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			p := f.FromBits(test.bits)
			a.True(decimal.RequireFromString(test.s).Equal(p.Decimal()), "%v vs %v", test.s, p.Decimal())
			a.Equal(test.bits, f.FromDecimal(p.Decimal()).Bits())
			parsed, err := f.Parse(p.String())
			a.NoError(err)
			a.Equal(test.bits, parsed.Bits())
		})
	}
	a.True(f.NaR().Decimal().IsZero())
	a.Equal("NaR", f.NaR().String())
}

func TestParse(t *testing.T) {
	a := assert.New(t)
	f := mustFormat(t, 16, 1, IntBackend(32))
	tests := []struct {
		s    string
		bits uint64
		err  bool
	}{
		{"0", 0, false},
		{"1", 0x4000, false},
		{" -1.5 ", 0xb800, false},
		{"0.1", 0x14cd, false},
		{"1e100", 0x7fff, false},
		{"-1e-100", 0xffff, false},
		{"NaR", 0x8000, false},
		{"nar", 0x8000, false},
		{"", 0x8000, true},
		{"1.2.3", 0x8000, true},
		{"inf", 0x8000, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			p, err := f.Parse(test.s)
			if test.err {
				a.True(DomainError.Has(err), "%v", err)
			} else {
				a.NoError(err)
			}
			a.Equal(test.bits, p.Bits())
		})
	}
	a.Panics(func() {
		f.MustParse("x")
	})
	p := f.Zero()
	a.NoError(p.UnmarshalText([]byte("2.5")))
	a.Equal("2.5", p.String())
	text, err := p.MarshalText()
	a.NoError(err)
	a.Equal("2.5", string(text))
	a.Error(p.UnmarshalText([]byte("two")))
	var zero Posit
	a.True(ConfigError.Has(zero.UnmarshalText([]byte("1"))))
	a.Equal(Posit{}, zero)
}

func TestJSON(t *testing.T) {
	a := assert.New(t)
	f := mustFormat(t, 16, 1, IntBackend(32))
	defer func(mode int) {
		JSONMode = mode
	}(JSONMode)
	tests := []struct {
		p                         Posit
		str, float, bits, compact string
	}{
		{f.One(), `"1"`, `1`, `{"bits":"0x4000"}`, `"1"`},
		{f.FromBits(0x14cd), `"0.100006103515625"`, `0.100006103515625`, `{"bits":"0x14cd"}`, `{"bits":"0x14cd"}`},
		{f.FromInt64(-3), `"-3"`, `-3`, `{"bits":"0xa800"}`, `"-3"`},
		{f.NaR(), `"NaR"`, `null`, `{"bits":"0x8000"}`, `"NaR"`},
		{f.Zero(), `"0"`, `0`, `{"bits":"0x0"}`, `"0"`},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			for mode, expected := range []string{test.str, test.float, test.bits, test.compact} {
				JSONMode = mode
				data, err := json.Marshal(test.p)
				a.NoError(err)
				a.Equal(expected, string(data))
				res := f.One()
				if a.NoError(json.Unmarshal(data, &res)) {
					a.Equal(test.p.bits, res.bits)
				}
			}
		})
	}
	var s struct {
		V Posit `json:"v"`
	}
	s.V = f.Zero()
	require.NoError(t, json.Unmarshal([]byte(`{"v":1.5}`), &s))
	a.Equal(uint64(0x4800), s.V.Bits())
	var empty struct {
		V Posit `json:"v"`
	}
	err := json.Unmarshal([]byte(`{"v":1.5}`), &empty)
	a.True(ConfigError.Has(err), "%v", err)
	for _, bad := range []string{`{"v":"x"}`, `{"v":{"bits":"0x10000"}}`, `{"v":{"bits":"-1"}}`, `{"v":{"bits":1}}`, `{"v":nil}`} {
		a.Error(json.Unmarshal([]byte(bad), &s), bad)
	}
}

func TestBinary(t *testing.T) {
	a := assert.New(t)
	for _, c := range []struct{ nbits, es int }{{8, 0}, {12, 1}, {16, 2}, {80, 3}} {
		f := mustFormat(t, c.nbits, c.es, exactBackend(c.nbits, c.es))
		p := f.MaxPos().Neg().Next()
		data, err := p.MarshalBinary()
		a.NoError(err)
		a.Len(data, (c.nbits+7)/8)
		res := f.Zero()
		a.NoError(res.UnmarshalBinary(data))
		a.Equal(p.bits, res.bits)
		a.True(ConfigError.Has(res.UnmarshalBinary(append(data, 0))))
	}
	f := mustFormat(t, 16, 1, IntBackend(32))
	data, err := f.FromBits(0x14cd).MarshalBinary()
	a.NoError(err)
	a.Equal([]byte{0x14, 0xcd}, data)
	var zero Posit
	a.True(ConfigError.Has(zero.UnmarshalBinary(data)))
}

func TestFixedInterop(t *testing.T) {
	a := assert.New(t)
	f := mustFormat(t, 16, 1, IntBackend(32))
	tests := []struct {
		p   Posit
		fx  string
		err bool
	}{
		{f.FromFloat64(1.5), "1.5", false},
		{f.FromInt64(-3), "-3", false},
		{f.FromBits(0x14cd), "0.1000061", false},
		{f.MinPos(), "0", false},
		{f.NaR(), "", true},
		{mustFormat(t, 32, 2, IntBackend(64)).MaxPos(), "", true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			v, err := test.p.ToFixed()
			if test.err {
				a.True(DomainError.Has(err), "%v", err)
				a.True(v.IsNaN())
				return
			}
			a.NoError(err)
			a.True(of.NewS(test.fx).Equal(v), "%v vs %v", test.fx, v)
		})
	}
	a.Equal(uint64(0x14cd), f.FromFixed(of.NewS("0.1")).Bits())
	a.Equal(uint64(0x4800), f.FromFixed(of.NewF(1.5)).Bits())
	a.True(f.FromFixed(of.NaN).IsNaR())
}

func BenchmarkString(b *testing.B) {
	f := MustNew(Config{NBits: 32, ES: 2, Backend: IntBackend(64)})
	p := f.FromFloat64(123.456)
	var dummy int
	for i := 0; i < b.N; i++ {
		dummy += len(p.String())
	}
	// this metric is just to prevent unwanted optimisations in calculations of `dummy.`
	b.ReportMetric(float64(dummy), "dummy_metric")
}

func BenchmarkParse(b *testing.B) {
	f := MustNew(Config{NBits: 32, ES: 2, Backend: IntBackend(64)})
	var dummy uint64
	for i := 0; i < b.N; i++ {
		dummy += f.MustParse("123.456").Bits()
	}
	// this metric is just to prevent unwanted optimisations in calculations of `dummy.`
	b.ReportMetric(float64(dummy), "dummy_metric")
}
