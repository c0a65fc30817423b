//go:build tinygo && baremetal && (rp2040 || rp2350) && !pwmdac

package hal

import (
	"fmt"
	"machine"

	"wavegen/dac"
)

var spiDAC *dac.Device

// newBoardDAC configures SPI0 for the external DAC: mode 0, MSB first.
func newBoardDAC() (DAC, error) {
	if spiDAC != nil {
		return spiDAC, nil
	}
	err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 1_000_000,
		SCK:       machine.GP18,
		SDO:       machine.GP19,
		SDI:       machine.GP16,
		LSBFirst:  false,
		Mode:      0,
	})
	if err != nil {
		return nil, fmt.Errorf("dac: spi0: %w", err)
	}
	cs := machine.GP17
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	spiDAC = dac.New(machine.SPI0, cs)
	return spiDAC, nil
}
