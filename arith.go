// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

// Every operation decodes its operands, handles NaR and zeros, lets the
// backend compute the value and rounds it exactly once.

// Add returns p+q.
func (p Posit) Add(q Posit) Posit {
	f := p.mustSame(q)
	x, y := f.decode(p.bits), f.decode(q.bits)
	switch {
	case x.nar || y.nar:
		return f.NaR()
	case x.zero:
		return q
	case y.zero:
		return p
	}
	return f.round(f.cfg.Backend.add(f, x, y))
}

// Sub returns p-q.
func (p Posit) Sub(q Posit) Posit {
	f := p.mustSame(q)
	x, y := f.decode(p.bits), f.decode(q.bits)
	switch {
	case x.nar || y.nar:
		return f.NaR()
	case x.zero:
		return q.Neg()
	case y.zero:
		return p
	}
	return f.round(f.cfg.Backend.sub(f, x, y))
}

// Mul returns p*q.
func (p Posit) Mul(q Posit) Posit {
	f := p.mustSame(q)
	x, y := f.decode(p.bits), f.decode(q.bits)
	switch {
	case x.nar || y.nar:
		return f.NaR()
	case x.zero || y.zero:
		return f.Zero()
	}
	return f.round(f.cfg.Backend.mul(f, x, y))
}

// Div returns p/q.
// Division by zero is NaR, or ±maxpos for Saturating formats if p != 0.
func (p Posit) Div(q Posit) Posit {
	f := p.mustSame(q)
	x, y := f.decode(p.bits), f.decode(q.bits)
	switch {
	case x.nar || y.nar:
		return f.NaR()
	case y.zero:
		if x.zero {
			return f.NaR()
		}
		return f.infinite(x.neg)
	case x.zero:
		return f.Zero()
	}
	return f.round(f.cfg.Backend.div(f, x, y))
}

// Sqrt returns the square root of p. It is NaR for negative values.
func (p Posit) Sqrt() Posit {
	f := p.format()
	x := f.decode(p.bits)
	switch {
	case x.nar || x.neg:
		return f.NaR()
	case x.zero:
		return p
	}
	return f.round(f.cfg.Backend.sqrt(f, x))
}

// FMA returns p*q + r rounded once.
func (p Posit) FMA(q, r Posit) Posit {
	f := p.mustSame(q)
	p.mustSame(r)
	qr := f.NewQuire()
	if err := qr.AddProduct(p, q); err != nil {
		return f.NaR()
	}
	if err := qr.Add(r); err != nil {
		return f.NaR()
	}
	return qr.ToPosit()
}
