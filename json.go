// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	mu "github.com/avdva/posit/internal/mathutil"
)

var (
	// JSONMode defines the way all posits are marshaled into json, see JSONMode* constants.
	// This variable is not thread-safe, so this should be changed on program start.
	JSONMode = JSONModeString
)

const (
	// JSONModeString produces exact decimal strings, like `"1.25"` or `"NaR"`.
	JSONModeString = iota
	// JSONModeFloat marshals posits as float64 numbers, like `1.25`. NaR becomes null.
	JSONModeFloat
	// JSONModeBits marshals the pattern, like `{"bits":"0x4800"}`.
	JSONModeBits
	// JSONModeCompact will choose the shortest form between JSONModeString and JSONModeBits.
	JSONModeCompact
)

var jsonParts = []string{`{"bits":"`, `"}`}

// MarshalJSON marshals p according to current JSONMode.
func (p Posit) MarshalJSON() ([]byte, error) {
	return p.toJSON(JSONMode), nil
}

func (p Posit) toJSON(mode int) []byte {
	switch mode {
	case JSONModeFloat:
		if p.IsNaR() {
			return []byte("null")
		}
		return []byte(strconv.FormatFloat(p.Float64(), 'g', -1, 64))
	case JSONModeBits:
		var builder strings.Builder
		builder.WriteString(jsonParts[0])
		builder.WriteString(p.bits.String())
		builder.WriteString(jsonParts[1])
		return []byte(builder.String())
	case JSONModeCompact:
		s, b := p.toJSON(JSONModeString), p.toJSON(JSONModeBits)
		if len(s) <= len(b) {
			return s
		}
		return b
	default:
		return []byte(strconv.Quote(p.String()))
	}
}

// UnmarshalJSON unmarshals a string, a number, null or a bits object into p.
// The format is taken from p, which must have been created by a Format,
// otherwise a ConfigError is returned.
func (p *Posit) UnmarshalJSON(data []byte) error {
	f, err := p.targetFormat()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return DomainError.New("empty json")
	}
	switch data[0] {
	case '{':
		d := struct {
			Bits string `json:"bits"`
		}{}
		if err := json.Unmarshal(data, &d); err != nil {
			return DomainError.Wrap(err)
		}
		bits, ok := new(big.Int).SetString(d.Bits, 0)
		if !ok || bits.Sign() < 0 || bits.BitLen() > f.cfg.NBits {
			return DomainError.New("bad posit pattern %q", d.Bits)
		}
		*p = f.make(mu.FromBig(bits))
	case 'n':
		if string(data) != "null" {
			return DomainError.New("bad json %q", data)
		}
		*p = f.NaR()
	default:
		s := string(data)
		if data[0] == '"' {
			if s, err = strconv.Unquote(s); err != nil {
				return DomainError.Wrap(fmt.Errorf("bad json string: %w", err))
			}
		}
		res, err := f.Parse(s)
		if err != nil {
			return err
		}
		*p = res
	}
	return nil
}
