// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	of "github.com/robaho/fixed"
	"github.com/shopspring/decimal"
)

// robaho fixed-point values have 7 decimal places and at most 11 integer digits.
const ofPlaces = 7

var ofLimit = decimal.New(1, 11)

// ToFixed returns p rounded to 7 decimal places as a robaho fixed-point value.
// It returns a DomainError for NaR and values out of range.
func (p Posit) ToFixed() (of.Fixed, error) {
	if p.IsNaR() {
		return of.NaN, DomainError.New("NaR has no fixed-point value")
	}
	d := p.Decimal().Round(ofPlaces)
	if d.Abs().GreaterThanOrEqual(ofLimit) {
		return of.NaN, DomainError.New("%v is out of fixed-point range", p)
	}
	res, err := of.NewSErr(d.StringFixed(ofPlaces))
	if err != nil {
		return of.NaN, DomainError.Wrap(err)
	}
	return res, nil
}

// FromFixed returns the posit nearest to a robaho fixed-point value.
// NaN is NaR.
func (f *Format) FromFixed(v of.Fixed) Posit {
	if v.IsNaN() {
		return f.NaR()
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return f.NaR()
	}
	return f.FromDecimal(d)
}
