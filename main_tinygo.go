//go:build tinygo

package main

import (
	"wavegen/app"
	"wavegen/hal"
)

func main() {
	app.Run(hal.New())
}
