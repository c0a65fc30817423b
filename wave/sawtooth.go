package wave

import "fmt"

// SawtoothGen ramps from floor toward ceiling in period steps and snaps back.
type SawtoothGen struct {
	floor  uint16
	step   uint16
	period int

	count int
	acc   uint16
}

func NewSawtooth(floor, ceiling uint16, period int) (*SawtoothGen, error) {
	if period <= 0 {
		return nil, fmt.Errorf("wave: sawtooth period %d", period)
	}
	if ceiling > MaxCode || floor >= ceiling {
		return nil, fmt.Errorf("wave: sawtooth range [%d, %d]", floor, ceiling)
	}
	return &SawtoothGen{
		floor:  floor,
		step:   (ceiling - floor) / uint16(period),
		period: period,
		acc:    floor,
	}, nil
}

// Next always yields a sample. The counter reset and the step share a tick, so
// the first sample of every period is floor+step.
func (g *SawtoothGen) Next() (uint16, bool) {
	g.count++
	if g.count >= g.period {
		g.count = 0
		g.acc = g.floor
	}
	g.acc += g.step
	return g.acc, true
}

func (g *SawtoothGen) Step() uint16 { return g.step }
func (g *SawtoothGen) Period() int  { return g.period }
