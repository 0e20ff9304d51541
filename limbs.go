// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import "math/bits"

// Little-endian two's complement integers made of 64-bit limbs.

// orAt ors w shifted left by n bits into m. Bits below zero or above
// the top of m are dropped.
func orAt(m []uint64, w uint64, n int) {
	switch {
	case w == 0 || n <= -64:
		return
	case n < 0:
		w >>= uint(-n)
		n = 0
	}
	idx, off := n/64, uint(n%64)
	if idx < len(m) {
		m[idx] |= w << off
	}
	if off != 0 && idx+1 < len(m) {
		m[idx+1] |= w >> (64 - off)
	}
}

// wordAt returns the 64 bits of m starting at bit n. Bits below zero are zeros.
func wordAt(m []uint64, n int) uint64 {
	switch {
	case n <= -64:
		return 0
	case n < 0:
		return m[0] << uint(-n)
	}
	idx, off := n/64, uint(n%64)
	var w uint64
	if idx < len(m) {
		w = m[idx] >> off
	}
	if off != 0 && idx+1 < len(m) {
		w |= m[idx+1] << (64 - off)
	}
	return w
}

// anyBelow returns true if any of the bits of m below n is set.
func anyBelow(m []uint64, n int) bool {
	if n <= 0 {
		return false
	}
	idx, off := n/64, uint(n%64)
	for i := 0; i < idx && i < len(m); i++ {
		if m[i] != 0 {
			return true
		}
	}
	return off != 0 && idx < len(m) && m[idx]&(1<<off-1) != 0
}

func negate(m []uint64) {
	var c uint64 = 1
	for i := range m {
		m[i], c = bits.Add64(^m[i], 0, c)
	}
}

func isNegative(m []uint64) bool {
	return m[len(m)-1]>>63 == 1
}

// bitLen returns the index of the highest set bit plus one.
func bitLen(m []uint64) int {
	for i := len(m) - 1; i >= 0; i-- {
		if m[i] != 0 {
			return 64*i + bits.Len64(m[i])
		}
	}
	return 0
}

// fits returns true if m is a valid two's complement integer of width bits,
// that is if all its bits from width-1 up are equal.
func fits(m []uint64, width int) bool {
	var ext uint64
	if isNegative(m) {
		ext = ^uint64(0)
	}
	idx, off := (width-1)/64, uint((width-1)%64)
	for i := idx + 1; i < len(m); i++ {
		if m[i] != ext {
			return false
		}
	}
	top := m[idx] >> off
	return top == ext>>off
}
