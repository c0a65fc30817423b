package hal

import (
	"fmt"
	"sync"
)

// pinButtons turns active-low input pins into button indices.
type pinButtons struct {
	mu   sync.Mutex
	pins []GPIOPin
	fn   func(int)
}

func newPinButtons(pins ...GPIOPin) *pinButtons {
	return &pinButtons{pins: pins}
}

func (b *pinButtons) Count() int { return len(b.pins) }

func (b *pinButtons) Watch(fn func(button int)) error {
	b.mu.Lock()
	b.fn = fn
	b.mu.Unlock()

	for i, p := range b.pins {
		i := i
		if err := p.Configure(GPIOModeInput, GPIOPullUp); err != nil {
			return fmt.Errorf("buttons: %w", err)
		}
		var irq func(GPIOPin)
		if fn != nil {
			irq = func(GPIOPin) { b.fire(i) }
		}
		if err := p.SetInterrupt(GPIOEdgeFalling, irq); err != nil {
			return fmt.Errorf("buttons: %w", err)
		}
	}
	return nil
}

func (b *pinButtons) fire(i int) {
	b.mu.Lock()
	fn := b.fn
	b.mu.Unlock()
	if fn != nil {
		fn(i)
	}
}

// press simulates a mechanical press with bounces extra contact chatters
// before the switch settles, then releases it.
func (b *pinButtons) press(i, bounces int) error {
	if i < 0 || i >= len(b.pins) {
		return fmt.Errorf("buttons: no button %d", i)
	}
	vp, ok := b.pins[i].(*virtualPin)
	if !ok {
		return fmt.Errorf("buttons: %s: %w", b.pins[i].Name(), ErrNotImplemented)
	}
	vp.drive(false)
	for n := 0; n < bounces; n++ {
		vp.drive(true)
		vp.drive(false)
	}
	vp.drive(true)
	return nil
}
