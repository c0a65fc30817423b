package wave

import "fmt"

// SquarePolicy chooses how the square wave decides when to flip.
type SquarePolicy uint8

const (
	// HalfPeriod drops to floor when the counter reaches the threshold and
	// returns to ceiling when it reaches the period, where the counter resets.
	HalfPeriod SquarePolicy = iota
	// PingPong flips whenever the counter reaches the current phase length,
	// resets the counter, and swaps the phase to period minus itself.
	PingPong
)

func (p SquarePolicy) String() string {
	switch p {
	case HalfPeriod:
		return "half-period"
	case PingPong:
		return "ping-pong"
	default:
		return fmt.Sprintf("SquarePolicy(%d)", uint8(p))
	}
}

// ParseSquarePolicy accepts the names printed by SquarePolicy.String.
func ParseSquarePolicy(s string) (SquarePolicy, error) {
	switch s {
	case "half-period", "half":
		return HalfPeriod, nil
	case "ping-pong", "pingpong", "duty":
		return PingPong, nil
	default:
		return 0, fmt.Errorf("wave: unknown square policy %q", s)
	}
}

// SquareGen is a two-level generator that emits only on level changes.
type SquareGen struct {
	floor   uint16
	ceiling uint16
	period  int
	policy  SquarePolicy

	threshold int
	phase     int
	count     int
	high      bool
}

func NewSquare(floor, ceiling uint16, period int, policy SquarePolicy) (*SquareGen, error) {
	if period < 2 {
		return nil, fmt.Errorf("wave: square period %d", period)
	}
	if ceiling > MaxCode || floor >= ceiling {
		return nil, fmt.Errorf("wave: square range [%d, %d]", floor, ceiling)
	}
	if policy != HalfPeriod && policy != PingPong {
		return nil, fmt.Errorf("wave: square policy %d", policy)
	}
	g := &SquareGen{
		floor:   floor,
		ceiling: ceiling,
		period:  period,
		policy:  policy,
	}
	g.SetThreshold(DutyThreshold(DefaultDuty, period))
	return g, nil
}

// SetThreshold sets the number of high ticks per period and restarts the
// cycle, so the new duty applies from the next cycle boundary on.
func (g *SquareGen) SetThreshold(n int) {
	if n < 0 {
		n = 0
	}
	if n > g.period {
		n = g.period
	}
	if g.policy == PingPong {
		if n < 1 {
			n = 1
		}
		if n > g.period-1 {
			n = g.period - 1
		}
	}
	g.threshold = n
	g.phase = n
	g.count = 0
	g.high = true
}

func (g *SquareGen) Next() (uint16, bool) {
	g.count++
	if g.policy == PingPong {
		if g.count < g.phase {
			return 0, false
		}
		g.count = 0
		g.high = !g.high
		g.phase = g.period - g.phase
		return g.level(), true
	}

	if g.count >= g.period {
		g.count = 0
		g.high = g.threshold > 0
		return g.level(), true
	}
	if g.count == g.threshold {
		g.high = false
		return g.level(), true
	}
	return 0, false
}

func (g *SquareGen) level() uint16 {
	if g.high {
		return g.ceiling
	}
	return g.floor
}

// Threshold is the configured number of high ticks per period.
func (g *SquareGen) Threshold() int { return g.threshold }

// Phase is the length of the phase in progress. Under HalfPeriod it always
// equals the threshold.
func (g *SquareGen) Phase() int { return g.phase }

func (g *SquareGen) Period() int          { return g.period }
func (g *SquareGen) Policy() SquarePolicy { return g.policy }
func (g *SquareGen) High() bool           { return g.high }
func (g *SquareGen) Ceiling() uint16      { return g.ceiling }
