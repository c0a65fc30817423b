//go:build !(tinygo && bootdebug)

package app

import "wavegen/hal"

func bootStep(hal.HAL, string) {}
