//go:build !linux && !tinygo

package hal

import (
	"errors"
	"io"
	"time"
)

// LinuxConfig maps the board onto a Linux SBC.
type LinuxConfig struct {
	FlashPath string
	SPIPort   string
	SPIHz     int64
	Chip      string
	Buttons   []int
	LEDs      []int
	Debounce  time.Duration
	Out       io.Writer
}

// NewLinux is only available on Linux.
func NewLinux(LinuxConfig) (HAL, error) {
	return nil, errors.New("linux board requires GOOS=linux")
}
