// Package app is the firmware: boot checks, wiring of the player to the
// board, button handling, and the status display.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"wavegen/hal"
	"wavegen/input"
	"wavegen/kernel"
	"wavegen/player"
	"wavegen/scope"
	"wavegen/wave"
)

// ErrCalibrationErased is returned when the oscillator calibration block has
// been wiped. The firmware refuses to run without it.
var ErrCalibrationErased = hal.ErrCalibrationErased

// Config holds the firmware options.
type Config struct {
	Initial wave.Kind
	// SineSamples selects the sine table length; 0 or wave.Samples uses the
	// built-in table.
	SineSamples  int
	SquarePolicy wave.SquarePolicy
	Debounce     time.Duration
	DutyFeedback bool
	Ladder       []uint16
	// ScopeInterval is the scope refresh period on boards with a
	// framebuffer.
	ScopeInterval time.Duration
}

// DefaultConfig returns the stock firmware settings.
func DefaultConfig() Config {
	return Config{
		Initial:       wave.Sine,
		SquarePolicy:  wave.HalfPeriod,
		Debounce:      input.DefaultQuietWindow,
		ScopeInterval: 50 * time.Millisecond,
	}
}

// System is a booted firmware instance.
type System struct {
	h     hal.HAL
	cfg   Config
	log   hal.Logger
	cal   hal.Calibration
	timer hal.Timer
	leds  []hal.LED
	ledOn []bool

	cs     kernel.Critical
	queue  input.Queue
	loop   *input.Loop
	player *player.Player
	scope  *scope.Scope

	lost atomic.Uint32

	mu     sync.Mutex
	status [2]string
}

// New boots the firmware on h. The calibration block is checked before any
// peripheral is touched; if it is erased New returns ErrCalibrationErased.
func New(h hal.HAL, cfg Config) (*System, error) {
	s := &System{h: h, cfg: cfg, log: h.Logger()}

	bootStep(h, "calibration")
	cal, err := hal.ReadCalibration(h.Flash())
	if err != nil {
		s.logf("boot: %v", err)
		if errors.Is(err, hal.ErrCalibrationErased) {
			return nil, ErrCalibrationErased
		}
		return nil, fmt.Errorf("boot: %w", err)
	}
	s.cal = cal
	s.logf("boot: calibration range=%#02x step=%#02x", cal.Range, cal.Step)

	bootStep(h, "dac")
	d, err := h.DAC()
	if err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}
	s.timer = h.Timer()
	if s.timer == nil {
		return nil, fmt.Errorf("boot: timer: %w", hal.ErrNotImplemented)
	}

	opts := player.Options{
		Initial:      cfg.Initial,
		SquarePolicy: cfg.SquarePolicy,
		Ladder:       cfg.Ladder,
		DutyFeedback: cfg.DutyFeedback,
	}
	if n := cfg.SineSamples; n > 0 && n != wave.Samples {
		opts.SineTable = wave.SineTable(n, wave.Floor, wave.Ceiling)
	}
	bootStep(h, "player")
	p, err := player.New(d, s.timer, &s.cs, opts)
	if err != nil {
		return nil, fmt.Errorf("boot: %w", err)
	}
	s.player = p

	s.leds = h.LEDs()
	s.ledOn = make([]bool, len(s.leds))
	for _, l := range s.leds {
		l.Low()
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = input.DefaultQuietWindow
	}
	s.loop = input.NewLoop(&s.queue, input.NewDebouncer(cfg.Debounce))
	s.loop.Handle(input.LineWave, s.onWave)
	s.loop.Handle(input.LineRate, s.onRate)
	s.loop.Handle(input.LineDuty, s.onDuty)

	if disp := h.Display(); disp != nil {
		if sc, err := scope.New(disp.Framebuffer(), h.Probe()); err == nil {
			s.scope = sc
		}
	}
	if s.cfg.ScopeInterval <= 0 {
		s.cfg.ScopeInterval = 50 * time.Millisecond
	}
	bootStep(h, "ready")
	return s, nil
}

// Player exposes the playback state.
func (s *System) Player() *player.Player { return s.player }

// Calibration is the trim read at boot.
func (s *System) Calibration() hal.Calibration { return s.cal }

// Lost counts button edges dropped because the event queue was full.
func (s *System) Lost() uint32 { return s.lost.Load() }

// Status returns the lines last sent to the text display.
func (s *System) Status() [2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Run starts playback and serves buttons until ctx is done.
func (s *System) Run(ctx context.Context) error {
	if b := s.h.Buttons(); b != nil {
		err := b.Watch(func(i int) {
			if !input.Post(&s.queue, input.Line(i)) {
				s.lost.Add(1)
			}
		})
		if err != nil {
			return fmt.Errorf("buttons: %w", err)
		}
	}

	if err := s.timer.Start(s.player.Divisor(), s.player.Tick); err != nil {
		return fmt.Errorf("timer: %w", err)
	}
	defer s.timer.Stop()

	set := s.player.Settings()
	s.logf("player: %v at %.1f Hz", set.Kind, s.waveHz())
	s.updateStatus()

	if s.scope != nil {
		go s.refreshScope(ctx)
	}
	return s.loop.Run(ctx)
}

func (s *System) onWave() {
	k := s.player.CycleMode()
	s.toggleLED(0)
	s.toggleLED(1)
	s.logf("mode: %v", k)
	s.updateStatus()
}

func (s *System) onRate() {
	d := s.player.CycleRate()
	s.toggleLED(1)
	s.logf("rate: %d divisor=%d (%.1f Hz)", s.player.Settings().Rate, d, s.waveHz())
	s.updateStatus()
}

func (s *System) onDuty() {
	d := s.player.CycleDuty()
	s.toggleLED(0)
	s.logf("duty: %d%% threshold=%d", d*10, s.player.Threshold())
	s.updateStatus()
}

func (s *System) toggleLED(i int) {
	if i >= len(s.leds) {
		return
	}
	s.ledOn[i] = !s.ledOn[i]
	if s.ledOn[i] {
		s.leds[i].High()
	} else {
		s.leds[i].Low()
	}
}

// waveHz is the output frequency of the active waveform.
func (s *System) waveHz() float64 {
	samples := s.player.Period()
	if s.player.Settings().Kind == wave.Sine {
		samples = s.player.SineLen()
	}
	return player.WaveHz(s.player.Divisor(), samples, s.timer.ClockHz())
}

func (s *System) statusLines() [2]string {
	set := s.player.Settings()
	return [2]string{
		fmt.Sprintf("%-8s %5.0fHz", set.Kind, s.waveHz()),
		fmt.Sprintf("duty %3d%% r%d", set.Duty*10, set.Rate),
	}
}

func (s *System) updateStatus() {
	lines := s.statusLines()
	s.mu.Lock()
	s.status = lines
	s.mu.Unlock()
	if t := s.h.Text(); t != nil {
		if err := t.WriteLines(lines[0], lines[1]); err != nil {
			s.logf("lcd: %v", err)
		}
	}
}

func (s *System) refreshScope(ctx context.Context) {
	tk := time.NewTicker(s.cfg.ScopeInterval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			st := s.Status()
			_ = s.scope.Render(st[0], st[1])
		}
	}
}

func (s *System) logf(format string, args ...any) {
	if s.log != nil {
		s.log.WriteLineString(fmt.Sprintf(format, args...))
	}
}

// Main boots and runs the firmware until ctx is done. On an erased
// calibration block it shows the halt screen, waits for ctx and returns
// ErrCalibrationErased.
func Main(ctx context.Context, h hal.HAL, cfg Config) error {
	s, err := New(h, cfg)
	if err != nil {
		showHalt(h, err)
		<-ctx.Done()
		return err
	}
	return s.Run(ctx)
}

// Run boots the firmware and never returns (MCU entrypoint). A failed boot
// halts with the reason on the display.
func Run(h hal.HAL) {
	s, err := New(h, DefaultConfig())
	if err == nil {
		err = s.Run(context.Background())
	}
	showHalt(h, err)
	select {}
}
