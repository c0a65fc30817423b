package wave

import (
	"errors"
	"math"
)

// Sine45 is one period of a sine wave in 45 DAC codes, starting at mid level.
var Sine45 = [Samples]uint16{
	2000, 2278, 2551, 2813, 3059, 3285, 3486, 3658, 3797,
	3902, 3969, 3998, 3989, 3940, 3854, 3732, 3576, 3389,
	3175, 2938, 2684, 2415, 2139, 1860, 1584, 1315, 1061,
	824, 610, 423, 267, 145, 59, 10, 1, 30,
	97, 202, 341, 513, 714, 940, 1186, 1448, 1721,
}

var errEmptyTable = errors.New("wave: empty sine table")

// SineTable computes n samples of one sine period scaled into [lo, hi].
// Index 0 sits on the mid level and the wave rises first.
func SineTable(n int, lo, hi uint16) []uint16 {
	if n <= 0 {
		return nil
	}
	if hi > MaxCode {
		hi = MaxCode
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	mid := (float64(lo) + float64(hi)) / 2
	amp := (float64(hi) - float64(lo)) / 2
	out := make([]uint16, n)
	for i := range out {
		v := mid + amp*math.Sin(2*math.Pi*float64(i)/float64(n))
		out[i] = uint16(math.Round(v))
	}
	return out
}

// SineGen walks a read-only lookup table.
type SineGen struct {
	table  []uint16
	cursor int
}

// NewSine returns a generator over table. The table is not copied.
func NewSine(table []uint16) (*SineGen, error) {
	if len(table) == 0 {
		return nil, errEmptyTable
	}
	return &SineGen{table: table}, nil
}

func (g *SineGen) Next() (uint16, bool) {
	v := g.table[g.cursor]
	g.cursor++
	if g.cursor >= len(g.table) {
		g.cursor = 0
	}
	return v, true
}

// Cursor is the index of the sample the next call returns.
func (g *SineGen) Cursor() int { return g.cursor }

// Len is the table length, i.e. the period in ticks.
func (g *SineGen) Len() int { return len(g.table) }
