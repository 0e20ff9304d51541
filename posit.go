// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"

	mu "github.com/avdva/posit/internal/mathutil"
)

// Ordering is the result of a posit comparison.
type Ordering int8

const (
	// Less means p < q.
	Less Ordering = -1
	// Equal means p == q.
	Equal Ordering = 0
	// Greater means p > q.
	Greater Ordering = 1
	// Unordered means that at least one operand is NaR.
	Unordered Ordering = 2
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return "Unordered"
	}
}

// Posit is an immutable posit number.
// It is created by a Format and remembers it; the zero Posit is not usable.
//
// The bit pattern is stored as is, negative values being the two's complement
// of their absolute values:
//   nbits-1                                   0
//   ________|________________________________
//   s        regime | exponent | fraction
type Posit struct {
	f    *Format
	bits mu.Uint128
}

func (p Posit) format() *Format {
	if p.f == nil {
		panic("posit: use of a posit without a format")
	}
	return p.f
}

// targetFormat returns the format a posit is decoded into.
func (p *Posit) targetFormat() (*Format, error) {
	if p.f == nil {
		return nil, errNoFormat
	}
	return p.f, nil
}

func (p Posit) mustSame(q Posit) *Format {
	f := p.format()
	if f != q.format() && f.cfg != q.f.cfg {
		panic(fmt.Sprintf("posit: format mismatch %v vs %v", f, q.f))
	}
	return f
}

// Format returns the format of p.
func (p Posit) Format() *Format {
	return p.f
}

// Bits returns the 64 least significant bits of the pattern.
// For formats wider than 64 bits, use Bits128.
func (p Posit) Bits() uint64 {
	return p.bits.Lo
}

// Bits128 returns the pattern as two words.
func (p Posit) Bits128() (hi, lo uint64) {
	return p.bits.Hi, p.bits.Lo
}

// IsZero returns true if p == 0.
func (p Posit) IsZero() bool {
	return p.bits.IsZero()
}

// IsNaR returns true if p is Not-a-Real.
func (p Posit) IsNaR() bool {
	return p.bits == p.format().nar
}

func (p Posit) isNeg() bool {
	return p.bits.Bit(p.format().cfg.NBits-1) == 1
}

// Sign returns -1 if p < 0, 0 if p is zero or NaR, 1 if p > 0.
func (p Posit) Sign() int {
	switch {
	case p.IsZero() || p.IsNaR():
		return 0
	case p.isNeg():
		return -1
	default:
		return 1
	}
}

// Neg returns -p. It is exact: the pattern is negated as a two's complement integer.
// The negation of NaR is NaR.
func (p Posit) Neg() Posit {
	return p.format().make(p.bits.Neg())
}

// Abs returns |p|.
func (p Posit) Abs() Posit {
	if p.isNeg() {
		return p.Neg()
	}
	return p
}

// Next returns the posit whose pattern follows p's.
// Next of maxpos is NaR, Next of NaR is -maxpos.
func (p Posit) Next() Posit {
	return p.format().make(p.bits.Add64(1))
}

// Prev returns the posit whose pattern precedes p's.
func (p Posit) Prev() Posit {
	return p.format().make(p.bits.Sub(mu.U128(1)))
}

// orderKey maps patterns to unsigned integers with the same order as their values.
func (p Posit) orderKey() mu.Uint128 {
	return p.bits.Xor(p.f.nar)
}

// Cmp compares p and q.
// Posits are ordered like their patterns read as signed integers,
// NaR is not comparable with anything, including itself.
func (p Posit) Cmp(q Posit) Ordering {
	p.mustSame(q)
	if p.IsNaR() || q.IsNaR() {
		return Unordered
	}
	return Ordering(p.orderKey().Cmp(q.orderKey()))
}

// CmpValue compares the exact values of p and q, which may have different formats.
func (p Posit) CmpValue(q Posit) Ordering {
	if p.IsNaR() || q.IsNaR() {
		return Unordered
	}
	return Ordering(compareExact(p.format().decode(p.bits), q.format().decode(q.bits)))
}

// Equal returns true if p == q. It is false if either of them is NaR.
func (p Posit) Equal(q Posit) bool {
	return p.Cmp(q) == Equal
}

// Less returns true if p < q. It is false if either of them is NaR.
func (p Posit) Less(q Posit) bool {
	return p.Cmp(q) == Less
}

// String returns the exact decimal value of p, or "NaR".
func (p Posit) String() string {
	if p.IsNaR() {
		return "NaR"
	}
	return p.Decimal().String()
}

// GoString returns debug string representation.
func (p Posit) GoString() string {
	return p.String() + fmt.Sprintf(" {%v, %v}", p.bits, p.format())
}

// MarshalText implements encoding.TextMarshaler.
func (p Posit) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MarshalBinary returns the pattern in big-endian order, using (nbits+7)/8 bytes.
func (p Posit) MarshalBinary() ([]byte, error) {
	n := (p.format().cfg.NBits + 7) / 8
	data := make([]byte, n)
	for i := 0; i < n; i++ {
		data[n-1-i] = byte(p.bits.Rsh(8 * i).Lo)
	}
	return data, nil
}

// UnmarshalBinary reads a pattern written by MarshalBinary.
// The format is taken from p, which must have been created by a Format,
// otherwise a ConfigError is returned.
func (p *Posit) UnmarshalBinary(data []byte) error {
	f, err := p.targetFormat()
	if err != nil {
		return err
	}
	if n := (f.cfg.NBits + 7) / 8; len(data) != n {
		return ConfigError.New("expected %d bytes, got %d", n, len(data))
	}
	var bits mu.Uint128
	for _, b := range data {
		bits = bits.Lsh(8).Or(mu.U128(uint64(b)))
	}
	*p = f.make(bits)
	return nil
}
