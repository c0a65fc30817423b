//go:build tinygo

package kernel

import "runtime/interrupt"

// Critical masks interrupts for the duration of a multi-field update so the
// timer handler never observes it half done. It does not nest.
type Critical struct {
	state interrupt.State
}

func (c *Critical) Lock() {
	c.state = interrupt.Disable()
}

func (c *Critical) Unlock() {
	interrupt.Restore(c.state)
}
