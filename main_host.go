//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"wavegen/app"
	"wavegen/hal"
	"wavegen/internal/buildinfo"
)

func main() {
	cfg := loadConfig()
	acfg, err := appConfig(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wavegen:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, buildinfo.Banner("wavegen"))
	firmware := func(ctx context.Context, h hal.HAL) error {
		return app.Main(ctx, h, acfg)
	}

	switch board := cfg.MustGet("board").String(); board {
	case "sim":
		rc := runConfig(cfg)
		if cfg.MustGet("headless").Bool() {
			err = hal.RunHeadless(ctx, rc, firmware)
		} else {
			err = hal.RunWindow(ctx, rc, firmware)
		}
	case "linux":
		err = runLinux(ctx, linuxConfig(cfg), firmware)
	default:
		err = fmt.Errorf("unknown board %q (want sim or linux)", board)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "wavegen:", err)
		os.Exit(1)
	}
}

func runLinux(ctx context.Context, cfg hal.LinuxConfig, firmware hal.App) error {
	h, err := hal.NewLinux(cfg)
	if err != nil {
		return err
	}
	if c, ok := h.(io.Closer); ok {
		defer c.Close()
	}
	return firmware(ctx, h)
}
