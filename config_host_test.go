//go:build !tinygo

package main

import (
	"testing"
	"time"

	"github.com/warthog618/config"
	"github.com/warthog618/config/dict"

	"wavegen/wave"
)

func testConfig(overrides map[string]interface{}) *config.Config {
	m := map[string]interface{}{}
	for k, v := range defaultConfig {
		m[k] = v
	}
	for k, v := range overrides {
		m[k] = v
	}
	return config.New(dict.New(dict.WithMap(m))).GetConfig("", config.WithMust)
}

func TestAppConfigDefaults(t *testing.T) {
	c, err := appConfig(testConfig(nil))
	if err != nil {
		t.Fatalf("appConfig: %v", err)
	}
	if c.Initial != wave.Sine || c.SquarePolicy != wave.HalfPeriod {
		t.Fatalf("appConfig() = %+v", c)
	}
	if c.SineSamples != wave.Samples || c.Debounce != 250*time.Millisecond {
		t.Fatalf("appConfig() = %+v", c)
	}
}

func TestAppConfigOverrides(t *testing.T) {
	c, err := appConfig(testConfig(map[string]interface{}{
		"mode.initial":  "sawtooth",
		"square.policy": "ping-pong",
		"sine.samples":  72,
		"debounce":      "100ms",
		"duty.feedback": true,
	}))
	if err != nil {
		t.Fatalf("appConfig: %v", err)
	}
	if c.Initial != wave.Sawtooth || c.SquarePolicy != wave.PingPong || c.SineSamples != 72 {
		t.Fatalf("appConfig() = %+v", c)
	}
	if c.Debounce != 100*time.Millisecond || !c.DutyFeedback {
		t.Fatalf("appConfig() = %+v", c)
	}
}

func TestAppConfigRejectsBadValues(t *testing.T) {
	for _, o := range []map[string]interface{}{
		{"mode.initial": "triangle"},
		{"square.policy": "random"},
		{"sine.samples": 1},
	} {
		if _, err := appConfig(testConfig(o)); err == nil {
			t.Fatalf("appConfig(%v) err = nil", o)
		}
	}
}

func TestLinuxConfigPins(t *testing.T) {
	lc := linuxConfig(testConfig(map[string]interface{}{"gpio.btn2": 5}))
	if len(lc.Buttons) != 3 || lc.Buttons[1] != 5 {
		t.Fatalf("Buttons = %v", lc.Buttons)
	}
	if lc.SPIHz != 1000000 || lc.Chip != "gpiochip0" {
		t.Fatalf("linuxConfig() = %+v", lc)
	}
}
