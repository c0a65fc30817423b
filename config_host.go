//go:build !tinygo

package main

import (
	"fmt"

	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"

	"wavegen/app"
	"wavegen/hal"
	"wavegen/input"
	"wavegen/wave"
)

var defaultConfig = map[string]interface{}{
	"board":         "sim",
	"headless":      false,
	"keys":          true,
	"audio":         true,
	"audio.rate":    48000,
	"ticks":         0,
	"bounces":       3,
	"mode.initial":  "sine",
	"sine.samples":  wave.Samples,
	"square.policy": "half-period",
	"debounce":      input.DefaultQuietWindow.String(),
	"duty.feedback": false,
	"flash.path":    "wavegen.flash",
	"spi.port":      "",
	"spi.hz":        1000000,
	"gpio.chip":     "gpiochip0",
	"gpio.btn1":     17,
	"gpio.btn2":     27,
	"gpio.btn3":     22,
	"gpio.led1":     23,
	"gpio.led2":     24,
	"gpio.debounce": "5ms",
}

// loadConfig layers flags over WAVEGEN_ environment variables over an
// optional JSON file over the defaults. Flags use dashes for nesting, so
// --audio-rate sets audio.rate.
func loadConfig() *config.Config {
	def := dict.New(dict.WithMap(defaultConfig))
	flags := []pflag.Flag{
		{Short: 'c', Name: "config-file"},
		{Short: 'b', Name: "board"},
	}
	cfg := config.New(
		pflag.New(pflag.WithFlags(flags)),
		env.New(env.WithEnvPrefix("WAVEGEN_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "wavegen.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust)
	return cfg
}

func appConfig(cfg *config.Config) (app.Config, error) {
	c := app.DefaultConfig()

	k, err := wave.ParseKind(cfg.MustGet("mode.initial").String())
	if err != nil {
		return c, fmt.Errorf("mode.initial: %w", err)
	}
	c.Initial = k

	pol, err := wave.ParseSquarePolicy(cfg.MustGet("square.policy").String())
	if err != nil {
		return c, fmt.Errorf("square.policy: %w", err)
	}
	c.SquarePolicy = pol

	n := cfg.MustGet("sine.samples").Int()
	if n < 2 || n > 4096 {
		return c, fmt.Errorf("sine.samples: %d out of range [2, 4096]", n)
	}
	c.SineSamples = int(n)

	if d := cfg.MustGet("debounce").Duration(); d > 0 {
		c.Debounce = d
	}
	c.DutyFeedback = cfg.MustGet("duty.feedback").Bool()
	return c, nil
}

func runConfig(cfg *config.Config) hal.RunConfig {
	return hal.RunConfig{
		Host: hal.HostConfig{
			FlashPath: cfg.MustGet("flash.path").String(),
			Bounces:   int(cfg.MustGet("bounces").Int()),
		},
		Audio:     cfg.MustGet("audio").Bool(),
		AudioRate: int(cfg.MustGet("audio.rate").Int()),
		Ticks:     uint64(cfg.MustGet("ticks").Uint()),
		Keys:      cfg.MustGet("keys").Bool(),
	}
}

func linuxConfig(cfg *config.Config) hal.LinuxConfig {
	return hal.LinuxConfig{
		FlashPath: cfg.MustGet("flash.path").String(),
		SPIPort:   cfg.MustGet("spi.port").String(),
		SPIHz:     int64(cfg.MustGet("spi.hz").Int()),
		Chip:      cfg.MustGet("gpio.chip").String(),
		Buttons: []int{
			int(cfg.MustGet("gpio.btn1").Int()),
			int(cfg.MustGet("gpio.btn2").Int()),
			int(cfg.MustGet("gpio.btn3").Int()),
		},
		LEDs: []int{
			int(cfg.MustGet("gpio.led1").Int()),
			int(cfg.MustGet("gpio.led2").Int()),
		},
		Debounce: cfg.MustGet("gpio.debounce").Duration(),
	}
}
