// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"math/big"
	"math/bits"

	"go.uber.org/zap"

	mu "github.com/avdva/posit/internal/mathutil"
)

// DefaultCarryBits is the number of quire bits reserved for carries.
// A quire holds 2^(carry+1)-1 products of maxpos by maxpos of the same sign.
const DefaultCarryBits = 30

// Product is an exact product of two posits: (-1)^neg * sig/2^254 * 2^scale,
// where sig = hi<<128 | lo has its top bit at 255 or 254.
type Product struct {
	f      *Format
	neg    bool
	zero   bool
	nar    bool
	scale  int
	hi, lo mu.Uint128
}

// Product returns the exact product of p and q.
func (p Posit) Product(q Posit) Product {
	f := p.mustSame(q)
	x, y := f.decode(p.bits), f.decode(q.bits)
	switch {
	case x.nar || y.nar:
		return Product{f: f, nar: true}
	case x.zero || y.zero:
		return Product{f: f, zero: true}
	}
	hi, lo := mu.Mul128(x.sig, y.sig)
	return Product{f: f, neg: x.neg != y.neg, scale: x.scale + y.scale, hi: hi, lo: lo}
}

// IsNaR returns true if any of the factors was NaR.
func (pr Product) IsNaR() bool {
	return pr.nar
}

// IsZero returns true if the product is zero.
func (pr Product) IsZero() bool {
	return pr.zero
}

// Rat returns the exact value of the product.
func (pr Product) Rat() (*big.Rat, error) {
	switch {
	case pr.nar:
		return nil, DomainError.New("NaR has no real value")
	case pr.zero:
		return new(big.Rat), nil
	}
	m := pr.hi.Big()
	m.Lsh(m, 128).Or(m, pr.lo.Big())
	if pr.neg {
		m.Neg(m)
	}
	r := new(big.Rat).SetInt(m)
	exp := pr.scale - 254
	pow := new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(mu.AbsInt(exp))))
	if exp < 0 {
		return r.Quo(r, pow), nil
	}
	return r.Mul(r, pow), nil
}

// negated returns -pr.
func (pr Product) negated() Product {
	pr.neg = !pr.neg
	return pr
}

// QuireOption configures a quire.
type QuireOption func(q *Quire)

// WithLogger sets the logger of the quire. Quires are silent by default.
func WithLogger(l *zap.Logger) QuireOption {
	return func(q *Quire) {
		q.log = l
	}
}

// WithCarryBits sets the number of carry bits of the quire.
func WithCarryBits(n int) QuireOption {
	return func(q *Quire) {
		if n >= 0 {
			q.carry = n
		}
	}
}

// Quire is an exact accumulator of posit products.
// It holds a two's complement fixed-point number with 2*MaxScale() fraction bits,
// wide enough for any product of two posits and DefaultCarryBits more bits.
// Values are rounded to a posit only by ToPosit.
//
// A quire must not be used from multiple goroutines concurrently.
type Quire struct {
	f     *Format
	log   *zap.Logger
	carry int
	width int
	limbs []uint64
	term  []uint64
	last  *Product
	nar   bool
	err   error
	terms int
}

// NewQuire returns an empty quire for posits of the format.
func (f *Format) NewQuire(opts ...QuireOption) *Quire {
	q := &Quire{
		f:     f,
		log:   zap.NewNop(),
		carry: DefaultCarryBits,
	}
	for _, o := range opts {
		o(q)
	}
	q.width = 4*f.maxScale + 2 + q.carry
	// one spare bit above the sign bit to detect overflows.
	n := q.width/64 + 1
	q.limbs = make([]uint64, n)
	q.term = make([]uint64, n)
	return q
}

// Width returns the number of significant bits of the quire.
func (q *Quire) Width() int {
	return q.width
}

// Format returns the format of the quire.
func (q *Quire) Format() *Format {
	return q.f
}

// IsNaR returns true if a NaR was accumulated since the last Clear.
func (q *Quire) IsNaR() bool {
	return q.nar
}

// Err returns the overflow error, if any.
// After an overflow Clear is the only operation which succeeds.
func (q *Quire) Err() error {
	return q.err
}

// Clear resets the quire to zero.
func (q *Quire) Clear() {
	for i := range q.limbs {
		q.limbs[i] = 0
	}
	q.log.Debug("quire cleared", zap.Int("terms", q.terms), zap.Bool("nar", q.nar), zap.Bool("failed", q.err != nil))
	q.last, q.nar, q.err, q.terms = nil, false, nil, 0
}

// Accumulate adds an exact product.
func (q *Quire) Accumulate(pr Product) error {
	if q.err != nil {
		return q.err
	}
	if pr.f != q.f && (pr.f == nil || pr.f.cfg != q.f.cfg) {
		return ConfigError.New("product of %v added to a quire of %v", pr.f, q.f)
	}
	q.last = &pr
	q.terms++
	switch {
	case pr.nar:
		q.nar = true
		return nil
	case pr.zero || q.nar:
		return nil
	}
	return q.add(q.place(pr))
}

// AddProduct adds a*b.
func (q *Quire) AddProduct(a, b Posit) error {
	return q.Accumulate(a.Product(b))
}

// SubProduct subtracts a*b.
func (q *Quire) SubProduct(a, b Posit) error {
	return q.Accumulate(a.Product(b).negated())
}

// Add adds p.
func (q *Quire) Add(p Posit) error {
	return q.Accumulate(p.Product(p.format().One()))
}

// Sub subtracts p.
func (q *Quire) Sub(p Posit) error {
	return q.Accumulate(p.Product(p.format().One()).negated())
}

// NegateLast negates the term accumulated last, turning an addition into
// a subtraction and vice versa.
func (q *Quire) NegateLast() error {
	if q.err != nil {
		return q.err
	}
	if q.last == nil {
		return errNoTerm
	}
	pr := q.last.negated()
	q.last = &pr
	if pr.nar || pr.zero || q.nar {
		return nil
	}
	// remove the term and add its negation.
	t := q.place(pr)
	if err := q.add(t); err != nil {
		return err
	}
	return q.add(t)
}

// Merge adds the value of another quire of the same format.
// Merged terms cannot be negated: NegateLast fails until the next term.
func (q *Quire) Merge(o *Quire) error {
	if q.err != nil {
		return q.err
	}
	if o.err != nil {
		return o.err
	}
	if (o.f != q.f && o.f.cfg != q.f.cfg) || o.width != q.width {
		return ConfigError.New("quire of %v (%d bits) merged into a quire of %v (%d bits)", o.f, o.width, q.f, q.width)
	}
	q.terms += o.terms
	q.last = nil
	q.log.Debug("merging quires", zap.Int("terms", o.terms), zap.Bool("nar", o.nar))
	if o.nar {
		q.nar = true
	}
	if q.nar {
		return nil
	}
	return q.add(o.limbs)
}

// ToPosit returns the value of the quire rounded to a posit.
// The quire is not modified.
func (q *Quire) ToPosit() Posit {
	if q.nar || q.err != nil {
		return q.f.NaR()
	}
	m := append(q.term[:0], q.limbs...)
	neg := isNegative(m)
	if neg {
		negate(m)
	}
	h := bitLen(m) - 1
	if h < 0 {
		return q.f.Zero()
	}
	low := h - 127
	u := unpacked{
		neg:    neg,
		scale:  h - 2*q.f.maxScale,
		sig:    mu.Uint128{Hi: wordAt(m, h-63), Lo: wordAt(m, low)},
		sticky: anyBelow(m, low),
	}
	return q.f.round(u)
}

// place returns the two's complement representation of pr in the quire layout.
// The returned slice is reused by later calls.
func (q *Quire) place(pr Product) []uint64 {
	t := q.term
	for i := range t {
		t[i] = 0
	}
	// the lowest bit of sig weighs 2^(scale-254), bit i of the quire weighs 2^(i-2*maxScale).
	shift := pr.scale - 254 + 2*q.f.maxScale
	for i, w := range [4]uint64{pr.lo.Lo, pr.lo.Hi, pr.hi.Lo, pr.hi.Hi} {
		orAt(t, w, shift+64*i)
	}
	if pr.neg {
		negate(t)
	}
	return t
}

// add adds t to the quire and checks the result for overflow.
func (q *Quire) add(t []uint64) error {
	var c uint64
	for i := range q.limbs {
		q.limbs[i], c = bits.Add64(q.limbs[i], t[i], c)
	}
	if !fits(q.limbs, q.width) {
		return q.overflow()
	}
	return nil
}

func (q *Quire) overflow() error {
	q.err = OverflowError.New("%d bits are not enough after %d terms", q.width, q.terms)
	q.log.Warn("quire overflow", zap.Stringer("format", q.f), zap.Int("width", q.width), zap.Int("terms", q.terms))
	return q.err
}
