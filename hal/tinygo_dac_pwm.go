//go:build tinygo && baremetal && (rp2040 || rp2350) && pwmdac

package hal

import (
	"machine"

	"wavegen/dac"
)

// The pwmdac build replaces the MCP4921 with PWM duty on GP2. An RC
// low-pass on the pin recovers the waveform.

const (
	pwmDACPin     = machine.GP2
	pwmCarrierHz  = 62500
	pwmPeriodNano = 1e9 / pwmCarrierHz
)

type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetTop(top uint32)
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

var pwmSlices = [...]pwmSlice{
	machine.PWM0, machine.PWM1, machine.PWM2, machine.PWM3,
	machine.PWM4, machine.PWM5, machine.PWM6, machine.PWM7,
}

type pwmDAC struct {
	slice pwmSlice
	ch    uint8
	top   uint32
}

var boardPWM *pwmDAC

func newBoardDAC() (DAC, error) {
	if boardPWM == nil {
		a, err := openPWMDAC(pwmDACPin)
		if err != nil {
			return nil, err
		}
		boardPWM = a
	}
	return boardPWM, nil
}

func openPWMDAC(pin machine.Pin) (*pwmDAC, error) {
	n, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil, err
	}
	if int(n) >= len(pwmSlices) {
		return nil, ErrNotImplemented
	}
	s := pwmSlices[n]
	if err := s.Configure(machine.PWMConfig{Period: pwmPeriodNano}); err != nil {
		return nil, err
	}
	ch, err := s.Channel(pin)
	if err != nil {
		return nil, err
	}
	s.SetTop(uint32(dac.CodeMask))
	a := &pwmDAC{slice: s, ch: ch, top: s.Top()}
	s.Set(ch, 0)
	s.Enable(true)
	return a, nil
}

// Transmit scales the 12-bit level onto the slice's counter top.
func (a *pwmDAC) Transmit(level uint16) error {
	a.slice.Set(a.ch, uint32(level&dac.CodeMask)*a.top/uint32(dac.CodeMask))
	return nil
}
