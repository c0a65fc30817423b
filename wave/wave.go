// Package wave holds the sample generators that feed the DAC.
//
// Every generator is driven once per playback tick and reports whether it
// produced a sample on that tick. Sine and Sawtooth always do; Square only
// emits on the ticks where its level changes.
package wave

import (
	"fmt"
	"strings"
)

const (
	// Floor is the lowest DAC code used by Sawtooth and Square.
	Floor uint16 = 100
	// Ceiling is the highest DAC code used by Sawtooth and Square.
	Ceiling uint16 = 4095
	// Samples is the number of ticks in one waveform period.
	Samples = 45

	// MaxCode is the largest 12-bit DAC code.
	MaxCode uint16 = 1<<12 - 1
)

// Kind selects one of the three generators.
type Kind uint8

const (
	Sine Kind = iota
	Sawtooth
	Square
)

func (k Kind) String() string {
	switch k {
	case Sine:
		return "sine"
	case Sawtooth:
		return "sawtooth"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind accepts the names printed by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sine", "sin":
		return Sine, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "square", "sq":
		return Square, nil
	default:
		return 0, fmt.Errorf("wave: unknown kind %q", s)
	}
}

// Generator produces the next amplitude sample.
type Generator interface {
	Next() (sample uint16, ok bool)
}

// Bank owns one generator of each kind and dispatches on Kind.
type Bank struct {
	Sine     *SineGen
	Sawtooth *SawtoothGen
	Square   *SquareGen
}

// Next advances only the generator selected by k.
func (b *Bank) Next(k Kind) (uint16, bool) {
	switch k {
	case Sine:
		return b.Sine.Next()
	case Sawtooth:
		return b.Sawtooth.Next()
	case Square:
		return b.Square.Next()
	default:
		return 0, false
	}
}
