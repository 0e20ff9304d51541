// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import "math"

const (
	// maxFloatScale is the largest binary exponent of a finite float64.
	maxFloatScale = 1023
	// floatFracBits is the number of fraction bits of a float64.
	floatFracBits = 52
)

// floatOp computes with float64 and converts the result back exactly,
// so that the codec rounds the float64 result to the posit.
// Backend.validate keeps the operands exact float64 values.
func (f *Format) floatOp(o op, x, y unpacked) unpacked {
	a, b := x.float64(), y.float64()
	var r float64
	switch o {
	case opAdd:
		r = a + b
	case opMul:
		r = a * b
	case opDiv:
		r = a / b
	case opSqrt:
		r = math.Sqrt(a)
	}
	switch {
	case r == 0:
		if o == opAdd {
			return unpacked{zero: true}
		}
		// the exact result is not zero, it has underflowed.
		return f.saturated(math.Signbit(r), false)
	case math.IsInf(r, 0):
		return f.saturated(r < 0, true)
	}
	return unpackFloat64(r)
}
