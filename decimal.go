// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	mu "github.com/avdva/posit/internal/mathutil"
)

const narString = "NaR"

// Decimal returns the exact decimal value of p.
// Every posit is a binary fraction, so its decimal expansion is finite.
// Decimal of NaR is zero, check IsNaR before.
func (p Posit) Decimal() decimal.Decimal {
	u := p.format().decode(p.bits)
	if u.zero || u.nar {
		return decimal.Zero
	}
	return mu.ExactDecimal(u.neg, u.sig.Big(), u.scale-127)
}

// Parse returns the posit nearest to the decimal number in s.
// "NaR" is parsed as NaR.
func (f *Format) Parse(s string) (Posit, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, narString) {
		return f.NaR(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return f.NaR(), DomainError.Wrap(err)
	}
	return f.FromDecimal(d), nil
}

// MustParse calls Parse and panics on error.
func (f *Format) MustParse(s string) Posit {
	p, err := f.Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// FromDecimal returns the posit nearest to d.
func (f *Format) FromDecimal(d decimal.Decimal) Posit {
	return f.FromRat(decimalRat(d))
}

func decimalRat(d decimal.Decimal) *big.Rat {
	r := new(big.Rat).SetInt(d.Coefficient())
	exp := d.Exponent()
	if exp == 0 {
		return r
	}
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(mu.AbsInt(int(exp)))), nil)
	if exp < 0 {
		return r.Quo(r, new(big.Rat).SetInt(pow))
	}
	return r.Mul(r, new(big.Rat).SetInt(pow))
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The format is taken from p, which must have been created by a Format,
// otherwise a ConfigError is returned.
func (p *Posit) UnmarshalText(text []byte) error {
	f, err := p.targetFormat()
	if err != nil {
		return err
	}
	res, err := f.Parse(string(text))
	if err != nil {
		return err
	}
	*p = res
	return nil
}
