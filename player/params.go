package player

import "wavegen/wave"

const (
	// TimerClockHz is the tick timer's input clock: 16 MHz SMCLK divided by 8.
	TimerClockHz = 2_000_000
)

// DefaultLadder holds timer divisors for roughly 100, 200, 300, 400 and
// 500 Hz with 45-sample waveforms on a 2 MHz timer clock.
var DefaultLadder = []uint16{440, 218, 145, 109, 86}

// DivisorFor returns the up-mode compare value that plays a samples-long
// waveform at hz on a timer clocked at clockHz. The timer counts divisor+1
// clocks per tick.
func DivisorFor(hz, samples int, clockHz uint32) uint16 {
	if hz <= 0 || samples <= 0 {
		return 0
	}
	counts := int(clockHz) / (hz * samples)
	if counts < 1 {
		counts = 1
	}
	if counts > 1<<16 {
		counts = 1 << 16
	}
	return uint16(counts - 1)
}

// WaveHz is the output frequency for divisor.
func WaveHz(divisor uint16, samples int, clockHz uint32) float64 {
	if samples <= 0 {
		return 0
	}
	return float64(clockHz) / float64(uint32(divisor)+1) / float64(samples)
}

// CycleRate moves to the next tick-rate preset and reloads the timer.
func (p *Player) CycleRate() uint16 {
	s := p.update(func(s *Settings) {
		s.Rate++
		if s.Rate >= len(p.ladder) {
			s.Rate = 0
		}
	})
	d := p.ladder[s.Rate]
	if p.timer != nil {
		p.timer.SetDivisor(d)
	}
	return d
}

// CycleDuty moves to the next duty step and restarts the square cycle so the
// new ratio applies from a cycle boundary.
func (p *Player) CycleDuty() int {
	return p.SetDuty(wave.NextDuty(p.cur.Load().Duty))
}

// SetDuty sets the duty in tenths (clamped to 0..10) and returns it.
func (p *Player) SetDuty(d int) int {
	if d < 0 {
		d = 0
	}
	if d > wave.DutySteps {
		d = wave.DutySteps
	}

	p.cs.Lock()
	p.bank.Square.SetThreshold(wave.DutyThreshold(d, p.period))
	s := p.update(func(s *Settings) { s.Duty = d })
	p.cs.Unlock()

	if p.opts.DutyFeedback && s.Kind == wave.Square {
		p.emit(p.bank.Square.Ceiling())
	}
	return d
}
