package mathutil

import (
	"fmt"
	"math/big"
	"math/bits"

	"lukechampine.com/uint128"
)

// Uint128 is an unsigned 128-bit integer.
// It is used both as a raw posit bit pattern and as a left-aligned significand.
// Arithmetic wraps modulo 2^128, unlike the checked operations of uint128.Uint128.
type Uint128 uint128.Uint128

// U128 returns a Uint128 for a uint64 value.
func U128(v uint64) Uint128 {
	return Uint128(uint128.From64(v))
}

func (x Uint128) u() uint128.Uint128 {
	return uint128.Uint128(x)
}

// Mask returns a value with the n least significant bits set.
func Mask(n int) Uint128 {
	switch {
	case n <= 0:
		return Uint128{}
	case n >= 128:
		return Uint128(uint128.Max)
	default:
		return Uint128(uint128.Max.Rsh(uint(128 - n)))
	}
}

// IsZero returns true if x == 0.
func (x Uint128) IsZero() bool {
	return x.u().IsZero()
}

// Cmp compares two values.
// Returns -1 if x < y, 0 if x == y, 1 if x > y.
func (x Uint128) Cmp(y Uint128) int {
	return x.u().Cmp(y.u())
}

// Add returns x+y mod 2^128.
func (x Uint128) Add(y Uint128) Uint128 {
	return Uint128(x.u().AddWrap(y.u()))
}

// AddCarry returns x+y and the carry out of the top bit.
func (x Uint128) AddCarry(y Uint128) (Uint128, uint64) {
	lo, c := bits.Add64(x.Lo, y.Lo, 0)
	hi, c := bits.Add64(x.Hi, y.Hi, c)
	return Uint128{Hi: hi, Lo: lo}, c
}

// Add64 returns x+v mod 2^128.
func (x Uint128) Add64(v uint64) Uint128 {
	return Uint128(x.u().AddWrap64(v))
}

// Sub returns x-y mod 2^128.
func (x Uint128) Sub(y Uint128) Uint128 {
	return Uint128(x.u().SubWrap(y.u()))
}

// Neg returns the two's complement of x.
func (x Uint128) Neg() Uint128 {
	return Uint128(uint128.Zero.SubWrap(x.u()))
}

// Not returns ^x.
func (x Uint128) Not() Uint128 {
	return Uint128(x.u().Xor(uint128.Max))
}

// And returns x&y.
func (x Uint128) And(y Uint128) Uint128 {
	return Uint128(x.u().And(y.u()))
}

// Or returns x|y.
func (x Uint128) Or(y Uint128) Uint128 {
	return Uint128(x.u().Or(y.u()))
}

// Xor returns x^y.
func (x Uint128) Xor(y Uint128) Uint128 {
	return Uint128(x.u().Xor(y.u()))
}

// Lsh returns x<<n. Shifts of 128 or more produce zero.
func (x Uint128) Lsh(n int) Uint128 {
	switch {
	case n <= 0:
		return x
	case n >= 128:
		return Uint128{}
	default:
		return Uint128(x.u().Lsh(uint(n)))
	}
}

// Rsh returns x>>n. Shifts of 128 or more produce zero.
func (x Uint128) Rsh(n int) Uint128 {
	switch {
	case n <= 0:
		return x
	case n >= 128:
		return Uint128{}
	default:
		return Uint128(x.u().Rsh(uint(n)))
	}
}

// RshSticky returns x>>n and whether any set bit was shifted out.
func (x Uint128) RshSticky(n int) (Uint128, bool) {
	if n <= 0 {
		return x, false
	}
	return x.Rsh(n), !x.And(Mask(n)).IsZero()
}

// Bit returns the value of the i'th bit.
func (x Uint128) Bit(i int) uint {
	if i < 0 || i >= 128 {
		return 0
	}
	return uint(x.Rsh(i).Lo) & 1
}

// LeadingZeros returns the number of leading zero bits; 128 for x == 0.
func (x Uint128) LeadingZeros() int {
	return x.u().LeadingZeros()
}

// TrailingZeros returns the number of trailing zero bits; 128 for x == 0.
func (x Uint128) TrailingZeros() int {
	return x.u().TrailingZeros()
}

// BitLen returns the minimum number of bits required to represent x.
func (x Uint128) BitLen() int {
	return x.u().Len()
}

// LeadingOnes returns the number of leading one bits.
func (x Uint128) LeadingOnes() int {
	return x.Not().LeadingZeros()
}

// Mul128 returns the full 256-bit product of x and y.
func Mul128(x, y Uint128) (hi, lo Uint128) {
	h00, l00 := bits.Mul64(x.Lo, y.Lo)
	h01, l01 := bits.Mul64(x.Lo, y.Hi)
	h10, l10 := bits.Mul64(x.Hi, y.Lo)
	h11, l11 := bits.Mul64(x.Hi, y.Hi)

	r1, c1 := bits.Add64(h00, l01, 0)
	r1, c2 := bits.Add64(r1, l10, 0)
	r2, c3 := bits.Add64(h01, h10, 0)
	r2, c4 := bits.Add64(r2, l11, 0)
	r2, c5 := bits.Add64(r2, c1+c2, 0)
	r3 := h11 + c3 + c4 + c5
	return Uint128{Hi: r3, Lo: r2}, Uint128{Hi: r1, Lo: l00}
}

// Sqrt returns floor(sqrt(x)) and the remainder x - root^2.
func (x Uint128) Sqrt() (root uint64, rem Uint128) {
	var res Uint128
	bit := Uint128{Hi: 1 << 62}
	for bit.Cmp(x) > 0 {
		bit = bit.Rsh(2)
	}
	for !bit.IsZero() {
		t := res.Add(bit)
		if x.Cmp(t) >= 0 {
			x = x.Sub(t)
			res = res.Rsh(1).Add(bit)
		} else {
			res = res.Rsh(1)
		}
		bit = bit.Rsh(2)
	}
	return res.Lo, x
}

// Big returns x as a big.Int.
func (x Uint128) Big() *big.Int {
	return x.u().Big()
}

// FromBig returns the 128 least significant bits of |v|.
func FromBig(v *big.Int) Uint128 {
	a := new(big.Int).Abs(v)
	return Uint128(uint128.FromBig(a.And(a, uint128.Max.Big())))
}

// String returns a hexadecimal representation of x.
func (x Uint128) String() string {
	if x.Hi == 0 {
		return fmt.Sprintf("%#x", x.Lo)
	}
	return fmt.Sprintf("%#x%016x", x.Hi, x.Lo)
}
