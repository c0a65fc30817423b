package player

import "wavegen/wave"

// NextKind is the mode transition table:
// Sawtooth -> Sine -> Square -> Sawtooth.
func NextKind(k wave.Kind) wave.Kind {
	switch k {
	case wave.Sawtooth:
		return wave.Sine
	case wave.Sine:
		return wave.Square
	case wave.Square:
		return wave.Sawtooth
	default:
		return wave.Sine
	}
}

// CycleMode switches to the next waveform. The selection is published in a
// single store, so Tick sees either the old or the new kind.
func (p *Player) CycleMode() wave.Kind {
	s := p.update(func(s *Settings) { s.Kind = NextKind(s.Kind) })
	return s.Kind
}

// SetMode selects k directly.
func (p *Player) SetMode(k wave.Kind) {
	if k > wave.Square {
		return
	}
	p.update(func(s *Settings) { s.Kind = k })
}
