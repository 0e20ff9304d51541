package mathutil

import (
	"math/big"
	"sync"
	"unsafe"

	"github.com/shopspring/decimal"
)

var (
	pow5Mu    sync.Mutex
	pow5Cache = map[int]*big.Int{}
)

// AbsInt returns |val|.
func AbsInt(val int) int {
	mask := val >> (unsafe.Sizeof(int(0))*8 - 1)
	return (val + mask) ^ mask
}

// Pow5 returns 5^n. The returned value must not be modified.
func Pow5(n int) *big.Int {
	pow5Mu.Lock()
	defer pow5Mu.Unlock()
	if p, found := pow5Cache[n]; found {
		return p
	}
	p := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(n)), nil)
	if len(pow5Cache) < 1024 {
		pow5Cache[n] = p
	}
	return p
}

// ExactDecimal returns mant*2^exp as a decimal without any rounding.
// A binary fraction 2^-n is exactly 5^n*10^-n, so every finite binary value
// has a finite decimal expansion.
func ExactDecimal(neg bool, mant *big.Int, exp int) decimal.Decimal {
	m := new(big.Int).Abs(mant)
	if m.Sign() == 0 {
		return decimal.Zero
	}
	if tz := int(m.TrailingZeroBits()); tz > 0 {
		m.Rsh(m, uint(tz))
		exp += tz
	}
	if exp >= 0 {
		m.Lsh(m, uint(exp))
		exp = 0
	} else {
		m.Mul(m, Pow5(-exp))
	}
	if neg {
		m.Neg(m)
	}
	return decimal.NewFromBigInt(m, int32(exp))
}

// QuoPow2 returns v/2^n truncated toward zero and whether the division was exact.
func QuoPow2(v *big.Int, n int) (*big.Int, bool) {
	if n <= 0 {
		return new(big.Int).Lsh(v, uint(-n)), true
	}
	a := new(big.Int).Abs(v)
	exact := a.Sign() == 0 || int(a.TrailingZeroBits()) >= n
	a.Rsh(a, uint(n))
	if v.Sign() < 0 {
		a.Neg(a)
	}
	return a, exact
}

// RoundRat rounds r to the nearest integer, ties to even.
func RoundRat(r *big.Rat) *big.Int {
	num, den := r.Num(), r.Denom()
	q, m := new(big.Int).QuoRem(num, den, new(big.Int))
	// compare 2*|m| with den.
	m.Abs(m).Lsh(m, 1)
	switch c := m.Cmp(den); {
	case c > 0, c == 0 && q.Bit(0) == 1:
		if num.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}
