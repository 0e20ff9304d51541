// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import "github.com/zeebo/errs"

var (
	// ConfigError is the class of errors returned for invalid formats and fields.
	ConfigError = errs.Class("posit config")
	// OverflowError is the class of errors returned when a quire runs out of bits.
	OverflowError = errs.Class("quire overflow")
	// DomainError is the class of errors returned by checked conversions
	// for values which have no representation in the target domain.
	DomainError = errs.Class("posit domain")

	errNoTerm   = DomainError.New("no term to negate")
	errNoFormat = ConfigError.New("posit has no format, initialize it with a Format first")
)
