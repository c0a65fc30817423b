package wave

import "testing"

func TestSineRepeatsAfterTableLength(t *testing.T) {
	g, err := NewSine(Sine45[:])
	if err != nil {
		t.Fatalf("NewSine: %v", err)
	}

	first := make([]uint16, g.Len())
	for i := range first {
		if c := g.Cursor(); c < 0 || c >= g.Len() {
			t.Fatalf("Cursor() = %d at tick %d, want [0, %d)", c, i, g.Len())
		}
		v, ok := g.Next()
		if !ok {
			t.Fatalf("Next() ok = false at tick %d", i)
		}
		first[i] = v
	}
	if first[0] != 2000 {
		t.Fatalf("sample 0 = %d, want 2000", first[0])
	}
	for round := 0; round < 3; round++ {
		for i, want := range first {
			got, _ := g.Next()
			if got != want {
				t.Fatalf("round %d sample %d = %d, want %d", round, i, got, want)
			}
		}
	}
}

func TestSineWrapsToFirstSample(t *testing.T) {
	g, _ := NewSine(Sine45[:])
	for i := 0; i < 45; i++ {
		g.Next()
	}
	if got, _ := g.Next(); got != 2000 {
		t.Fatalf("sample after 45 ticks = %d, want 2000", got)
	}
}

func TestSineRejectsEmptyTable(t *testing.T) {
	if _, err := NewSine(nil); err == nil {
		t.Fatal("NewSine(nil) err = nil, want error")
	}
}

func TestSineTable(t *testing.T) {
	tbl := SineTable(72, 0, 4000)
	if len(tbl) != 72 {
		t.Fatalf("len = %d, want 72", len(tbl))
	}
	if tbl[0] != 2000 {
		t.Fatalf("tbl[0] = %d, want 2000", tbl[0])
	}
	if tbl[18] != 4000 {
		t.Fatalf("tbl[18] = %d, want 4000", tbl[18])
	}
	if tbl[54] != 0 {
		t.Fatalf("tbl[54] = %d, want 0", tbl[54])
	}
	for i, v := range tbl {
		if v > MaxCode {
			t.Fatalf("tbl[%d] = %d exceeds %d", i, v, MaxCode)
		}
	}
	if SineTable(0, 0, 10) != nil {
		t.Fatal("SineTable(0) != nil")
	}
}

func TestSawtoothRampAndReset(t *testing.T) {
	g, err := NewSawtooth(Floor, Ceiling, Samples)
	if err != nil {
		t.Fatalf("NewSawtooth: %v", err)
	}
	step := g.Step()
	if step != 88 {
		t.Fatalf("Step() = %d, want 88", step)
	}

	var prev uint16
	for tick := 1; tick <= 5*Samples; tick++ {
		v, ok := g.Next()
		if !ok {
			t.Fatalf("Next() ok = false at tick %d", tick)
		}
		if tick%Samples == 0 {
			if v != Floor+step {
				t.Fatalf("tick %d = %d, want reset to %d", tick, v, Floor+step)
			}
		} else if tick > 1 && v < prev {
			t.Fatalf("tick %d = %d decreased from %d", tick, v, prev)
		}
		if v > Ceiling+step {
			t.Fatalf("tick %d = %d exceeds ceiling by more than one step", tick, v)
		}
		prev = v
	}
}

func TestSawtoothDistinctStepsPerPeriod(t *testing.T) {
	g, _ := NewSawtooth(Floor, Ceiling, Samples)
	for i := 0; i < Samples; i++ {
		g.Next()
	}
	seen := map[uint16]bool{}
	for i := 0; i < Samples; i++ {
		v, _ := g.Next()
		seen[v] = true
	}
	if len(seen) != Samples {
		t.Fatalf("distinct values = %d, want %d", len(seen), Samples)
	}
}

func TestSawtoothRejectsBadRange(t *testing.T) {
	if _, err := NewSawtooth(200, 100, 10); err == nil {
		t.Fatal("floor above ceiling accepted")
	}
	if _, err := NewSawtooth(0, 100, 0); err == nil {
		t.Fatal("zero period accepted")
	}
}

type flip struct {
	tick  int
	level uint16
}

func collectFlips(g *SquareGen, ticks int) []flip {
	var out []flip
	for tick := 1; tick <= ticks; tick++ {
		if v, ok := g.Next(); ok {
			out = append(out, flip{tick, v})
		}
	}
	return out
}

func TestSquareHalfPeriodFlips(t *testing.T) {
	g, err := NewSquare(Floor, Ceiling, Samples, HalfPeriod)
	if err != nil {
		t.Fatalf("NewSquare: %v", err)
	}
	if g.Threshold() != 23 {
		t.Fatalf("Threshold() = %d, want 23", g.Threshold())
	}

	got := collectFlips(g, 2*Samples)
	want := []flip{{23, Floor}, {45, Ceiling}, {68, Floor}, {90, Ceiling}}
	if len(got) != len(want) {
		t.Fatalf("flips = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flip %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSquarePingPongPhasesSumToPeriod(t *testing.T) {
	g, _ := NewSquare(Floor, Ceiling, Samples, PingPong)
	g.SetThreshold(DutyThreshold(3, Samples))
	high := g.Threshold()
	if high != 14 {
		t.Fatalf("Threshold() = %d, want 14", high)
	}

	got := collectFlips(g, 3*Samples)
	if len(got) < 4 {
		t.Fatalf("flips = %v, want at least 4", got)
	}
	if got[0] != (flip{high, Floor}) {
		t.Fatalf("first flip = %v, want {%d %d}", got[0], high, Floor)
	}
	for i := 1; i < len(got); i++ {
		if got[i].level == got[i-1].level {
			t.Fatalf("flips %d and %d share level %d", i-1, i, got[i].level)
		}
		if got[i].level != Floor && got[i].level != Ceiling {
			t.Fatalf("flip %d level = %d", i, got[i].level)
		}
	}
	for i := 2; i < len(got); i += 2 {
		if span := got[i].tick - got[i-2].tick; span != Samples {
			t.Fatalf("cycle %d length = %d, want %d", i/2, span, Samples)
		}
	}
	if lowTicks := got[1].tick - got[0].tick; lowTicks != Samples-high {
		t.Fatalf("low phase = %d ticks, want %d", lowTicks, Samples-high)
	}
}

func TestSquarePingPongClampsThreshold(t *testing.T) {
	g, _ := NewSquare(Floor, Ceiling, 10, PingPong)
	g.SetThreshold(0)
	if g.Threshold() != 1 {
		t.Fatalf("Threshold() = %d, want 1", g.Threshold())
	}
	g.SetThreshold(10)
	if g.Threshold() != 9 {
		t.Fatalf("Threshold() = %d, want 9", g.Threshold())
	}
}

func TestSquareSetThresholdRestartsCycle(t *testing.T) {
	g, _ := NewSquare(Floor, Ceiling, Samples, HalfPeriod)
	for i := 0; i < 30; i++ {
		g.Next()
	}
	if g.High() {
		t.Fatal("expected low level mid-cycle")
	}

	g.SetThreshold(DutyThreshold(8, Samples))
	if !g.High() {
		t.Fatal("SetThreshold did not restart the cycle high")
	}
	got := collectFlips(g, Samples)
	want := []flip{{36, Floor}, {45, Ceiling}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("flips = %v, want %v", got, want)
	}
}

func TestSquareFullAndZeroDuty(t *testing.T) {
	g, _ := NewSquare(Floor, Ceiling, 10, HalfPeriod)

	g.SetThreshold(10)
	for _, f := range collectFlips(g, 30) {
		if f.level != Ceiling {
			t.Fatalf("100%% duty emitted %v", f)
		}
	}

	g.SetThreshold(0)
	for _, f := range collectFlips(g, 30) {
		if f.level != Floor {
			t.Fatalf("0%% duty emitted %v", f)
		}
	}
}

func TestDuty(t *testing.T) {
	d := DefaultDuty
	for i := 0; i < DutySteps+1; i++ {
		d = NextDuty(d)
	}
	if d != DefaultDuty {
		t.Fatalf("duty after full cycle = %d, want %d", d, DefaultDuty)
	}
	if NextDuty(DutySteps) != 0 {
		t.Fatalf("NextDuty(%d) = %d, want 0", DutySteps, NextDuty(DutySteps))
	}
	if got := DutyThreshold(5, 45); got != 23 {
		t.Fatalf("DutyThreshold(5, 45) = %d, want 23", got)
	}
	if got := DutyThreshold(10, 45); got != 45 {
		t.Fatalf("DutyThreshold(10, 45) = %d, want 45", got)
	}
}

func TestBankDispatch(t *testing.T) {
	sine, _ := NewSine(Sine45[:])
	saw, _ := NewSawtooth(Floor, Ceiling, Samples)
	sq, _ := NewSquare(Floor, Ceiling, Samples, HalfPeriod)
	b := Bank{Sine: sine, Sawtooth: saw, Square: sq}

	if v, _ := b.Next(Sine); v != 2000 {
		t.Fatalf("Next(Sine) = %d, want 2000", v)
	}
	if v, _ := b.Next(Sawtooth); v != Floor+saw.Step() {
		t.Fatalf("Next(Sawtooth) = %d, want %d", v, Floor+saw.Step())
	}
	if _, ok := b.Next(Square); ok {
		t.Fatal("Next(Square) emitted on tick 1")
	}
	if sine.Cursor() != 1 {
		t.Fatalf("sine cursor = %d, want 1", sine.Cursor())
	}
	if _, ok := b.Next(Kind(9)); ok {
		t.Fatal("Next(unknown) ok = true")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Sine, Sawtooth, Square} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("triangle"); err == nil {
		t.Fatal("ParseKind(triangle) err = nil")
	}
}
