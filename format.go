// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"

	mu "github.com/avdva/posit/internal/mathutil"
)

const (
	// MaxBits is the widest supported posit.
	MaxBits = 128
	// MaxES is the largest supported exponent field size.
	MaxES = 8
)

// Spec selects how a format treats results with no real value.
type Spec uint8

const (
	// WithNaR is the standard behavior: every undefined result is NaR.
	WithNaR Spec = iota
	// Saturating maps results whose limit is an infinity (x/0, ±Inf) to ±maxpos.
	// Results with no limit at all, like 0/0, sqrt(-1) or a float NaN, are still NaR.
	Saturating
)

func (s Spec) String() string {
	switch s {
	case WithNaR:
		return "WithNaR"
	case Saturating:
		return "Saturating"
	default:
		return fmt.Sprintf("Spec(%d)", uint8(s))
	}
}

// Config describes a posit format.
// All fields are required, the zero Backend is rejected.
type Config struct {
	NBits   int
	ES      int
	Backend Backend
	Spec    Spec
}

func (c Config) String() string {
	return fmt.Sprintf("posit<%d,%d,%v,%v>", c.NBits, c.ES, c.Backend, c.Spec)
}

// Format is a validated posit configuration.
// It is immutable and may be shared between goroutines.
type Format struct {
	cfg      Config
	maxScale int
	mask     mu.Uint128
	nar      mu.Uint128
	table    *decodeTable
}

// New validates c and returns a format for it.
func New(c Config) (*Format, error) {
	if c.NBits < 2 || c.NBits > MaxBits {
		return nil, ConfigError.New("nbits must be in [2, %d], got %d", MaxBits, c.NBits)
	}
	if c.ES < 0 || c.ES > MaxES {
		return nil, ConfigError.New("es must be in [0, %d], got %d", MaxES, c.ES)
	}
	if c.ES >= c.NBits-1 {
		return nil, ConfigError.New("es must be less than nbits-1, got nbits=%d es=%d", c.NBits, c.ES)
	}
	if c.Spec > Saturating {
		return nil, ConfigError.New("unknown spec %v", c.Spec)
	}
	f := &Format{
		cfg:      c,
		maxScale: (c.NBits - 2) << uint(c.ES),
		mask:     mu.Mask(c.NBits),
		nar:      mu.U128(1).Lsh(c.NBits - 1),
	}
	if err := c.Backend.validate(f); err != nil {
		return nil, err
	}
	if c.NBits <= maxTableBits {
		f.table = tableFor(f.layout())
	}
	return f, nil
}

// MustNew calls New and panics on error.
func MustNew(c Config) *Format {
	f, err := New(c)
	if err != nil {
		panic(err)
	}
	return f
}

// Config returns the configuration of the format.
func (f *Format) Config() Config {
	return f.cfg
}

// NBits returns the width of the format.
func (f *Format) NBits() int {
	return f.cfg.NBits
}

// ES returns the exponent field size.
func (f *Format) ES() int {
	return f.cfg.ES
}

// MaxScale returns the binary exponent of maxpos, (nbits-2)*2^es.
// The binary exponent of minpos is -MaxScale().
func (f *Format) MaxScale() int {
	return f.maxScale
}

func (f *Format) String() string {
	return f.cfg.String()
}

func (f *Format) layout() layout {
	return layout{nbits: f.cfg.NBits, es: f.cfg.ES, mask: f.mask, nar: f.nar}
}

func (f *Format) make(bits mu.Uint128) Posit {
	return Posit{f: f, bits: bits.And(f.mask)}
}

// Zero returns the zero posit.
func (f *Format) Zero() Posit {
	return Posit{f: f}
}

// NaR returns the Not-a-Real posit.
func (f *Format) NaR() Posit {
	return Posit{f: f, bits: f.nar}
}

// One returns 1.
func (f *Format) One() Posit {
	return f.make(f.nar.Rsh(1))
}

// MaxPos returns the largest positive posit.
func (f *Format) MaxPos() Posit {
	return f.make(f.nar.Sub(mu.U128(1)))
}

// MinPos returns the smallest positive posit.
func (f *Format) MinPos() Posit {
	return f.make(mu.U128(1))
}

// FromBits returns a posit with the given bit pattern.
// Bits above nbits are ignored.
func (f *Format) FromBits(bits uint64) Posit {
	return f.make(mu.U128(bits))
}

// FromBits128 returns a posit with the bit pattern hi<<64 | lo.
// Bits above nbits are ignored.
func (f *Format) FromBits128(hi, lo uint64) Posit {
	return f.make(mu.Uint128{Hi: hi, Lo: lo})
}

func (f *Format) round(u unpacked) Posit {
	return Posit{f: f, bits: f.layout().encode(u)}
}

// infinite returns the result of an operation whose limit is ±infinity.
func (f *Format) infinite(neg bool) Posit {
	if f.cfg.Spec != Saturating {
		return f.NaR()
	}
	if neg {
		return f.MaxPos().Neg()
	}
	return f.MaxPos()
}
