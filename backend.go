// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"

	"github.com/avdva/posit/fixed"
)

// Kind is the kind of computation backend.
type Kind uint8

const (
	// NativeInt computes with machine integers. It is bit-exact.
	NativeInt Kind = iota + 1
	// NativeFloat computes with float64. Results are rounded twice, first to
	// float64 and then to the posit, so the last bit may differ from NativeInt.
	// It serves formats whose fractions fit the 52 fraction bits of a float64.
	NativeFloat
	// FixedPoint computes with binary fixed-point numbers of the fixed package.
	FixedPoint
)

func (k Kind) String() string {
	switch k {
	case NativeInt:
		return "NativeInt"
	case NativeFloat:
		return "NativeFloat"
	case FixedPoint:
		return "FixedPoint"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Backend selects how the linear values of posits are computed.
// Use IntBackend, FloatBackend or FixedBackend to build one.
type Backend struct {
	Kind  Kind
	Width int
	Fixed fixed.Format
}

// IntBackend returns a NativeInt backend with intermediates of the given width.
// Width must be 32, 64 or 128 and at least twice the posit width.
func IntBackend(width int) Backend {
	return Backend{Kind: NativeInt, Width: width}
}

// FloatBackend returns a NativeFloat backend.
// It requires NBits-3-ES <= 52 and MaxScale() <= 1023.
func FloatBackend() Backend {
	return Backend{Kind: NativeFloat, Width: 64}
}

// FixedBackend returns a FixedPoint backend computing in Q(intBits.fracBits).
// Both intBits and fracBits must be at least MaxScale()+2 of the format,
// so that every posit is exactly representable.
func FixedBackend(intBits, fracBits int) Backend {
	return Backend{Kind: FixedPoint, Fixed: fixed.Format{IntBits: intBits, FracBits: fracBits}}
}

func (b Backend) String() string {
	switch b.Kind {
	case NativeInt:
		return fmt.Sprintf("NativeInt(%d)", b.Width)
	case FixedPoint:
		return fmt.Sprintf("FixedPoint(%v)", b.Fixed)
	default:
		return b.Kind.String()
	}
}

func (b Backend) validate(f *Format) error {
	switch b.Kind {
	case NativeInt:
		if b.Width != 32 && b.Width != 64 && b.Width != 128 {
			return ConfigError.New("integer backend width must be 32, 64 or 128, got %d", b.Width)
		}
		if 2*f.cfg.NBits > b.Width {
			return ConfigError.New("integer backend width %d is too small for %d-bit posits", b.Width, f.cfg.NBits)
		}
	case NativeFloat:
		if frac := f.cfg.NBits - 3 - f.cfg.ES; frac > floatFracBits {
			return ConfigError.New("%d-bit fractions do not fit float64", frac)
		}
		if f.maxScale > maxFloatScale {
			return ConfigError.New("maxpos 2^%d is out of float64 range", f.maxScale)
		}
	case FixedPoint:
		if err := b.Fixed.Validate(); err != nil {
			return ConfigError.Wrap(err)
		}
		if need := f.maxScale + 2; b.Fixed.IntBits < need || b.Fixed.FracBits < need {
			return ConfigError.New("fixed-point backend %v cannot hold every posit, need at least Q%d.%d", b.Fixed, need, need)
		}
	case 0:
		return ConfigError.New("backend is not set")
	default:
		return ConfigError.New("unknown backend %v", b.Kind)
	}
	return nil
}

// The backend operations receive finite non-zero operands; zeros and NaRs
// are handled by the callers. Their results are exact values or values with
// the sticky bit set, and are rounded by the codec exactly once.

func (b Backend) add(f *Format, x, y unpacked) unpacked {
	switch b.Kind {
	case NativeInt:
		return intAdd(x, y)
	case NativeFloat:
		return f.floatOp(opAdd, x, y)
	default:
		return b.fixedOp(f, opAdd, x, y)
	}
}

func (b Backend) sub(f *Format, x, y unpacked) unpacked {
	y.neg = !y.neg
	return b.add(f, x, y)
}

func (b Backend) mul(f *Format, x, y unpacked) unpacked {
	switch b.Kind {
	case NativeInt:
		return intMul(x, y)
	case NativeFloat:
		return f.floatOp(opMul, x, y)
	default:
		return b.fixedOp(f, opMul, x, y)
	}
}

func (b Backend) div(f *Format, x, y unpacked) unpacked {
	switch b.Kind {
	case NativeInt:
		return intDiv(x, y)
	case NativeFloat:
		return f.floatOp(opDiv, x, y)
	default:
		return b.fixedOp(f, opDiv, x, y)
	}
}

func (b Backend) sqrt(f *Format, x unpacked) unpacked {
	switch b.Kind {
	case NativeInt:
		return intSqrt(x)
	case NativeFloat:
		return f.floatOp(opSqrt, x, unpacked{})
	default:
		return b.fixedOp(f, opSqrt, x, unpacked{})
	}
}

// toDouble returns the float64 nearest to x.
func (b Backend) toDouble(x unpacked) float64 {
	if b.Kind == FixedPoint && !x.nar {
		return b.toFixed(x).Float64()
	}
	return x.float64()
}

// compareExact compares the values of two decoded finite operands.
// It does not depend on the backend: decoded values are exact.
func compareExact(x, y unpacked) int {
	sign := func(u unpacked) int {
		switch {
		case u.zero:
			return 0
		case u.neg:
			return -1
		default:
			return 1
		}
	}
	sx, sy := sign(x), sign(y)
	switch {
	case sx != sy:
		if sx < sy {
			return -1
		}
		return 1
	case sx == 0:
		return 0
	case sx < 0:
		return -cmpMagnitude(x, y)
	default:
		return cmpMagnitude(x, y)
	}
}

type op uint8

const (
	opAdd op = iota
	opMul
	opDiv
	opSqrt
)

// saturated returns a value which the codec maps to ±maxpos or ±minpos.
func (f *Format) saturated(neg, huge bool) unpacked {
	scale := -f.maxScale - 1<<uint(f.cfg.ES+1)
	if huge {
		scale = f.maxScale + 1<<uint(f.cfg.ES+1)
	}
	return unpacked{neg: neg, scale: scale, sig: hiddenBit}
}
