// Package textgrid models Praat TextGrids and reads and writes them in
// Praat's long and short text formats.
//
// A TextGrid is an ordered list of tiers sharing a time domain. Interval
// tiers hold labeled spans, point tiers hold labeled instants. Tiers enforce
// their ordering and bounds on every Add, including while a file is loaded,
// so a malformed file fails with the same typed error as a bad manual edit.
package textgrid

import (
	"fmt"
	"math"
)

// TextGrid is an ordered, named collection of tiers with shared bounds.
// Tier names need not be unique.
type TextGrid struct {
	Name    string
	minTime float64
	maxTime float64
	strict  bool
	tiers   []Tier
}

// New creates an empty strict TextGrid. Pass Unbounded as maxTime to let the
// tiers decide the extent.
func New(name string, minTime, maxTime float64) *TextGrid {
	return &TextGrid{
		Name:    name,
		minTime: minTime,
		maxTime: maxTime,
		strict:  true,
	}
}

func (g *TextGrid) Class() Class { return ClassTextGrid }

func (g *TextGrid) MinTime() float64 { return g.minTime }

func (g *TextGrid) MaxTime() float64 { return g.maxTime }

func (g *TextGrid) Strict() bool { return g.strict }

// SetStrict propagates overlap handling to every tier and element.
func (g *TextGrid) SetStrict(strict bool) {
	g.strict = strict
	for _, t := range g.tiers {
		t.setStrict(strict)
	}
}

// Bounds resolves an open upper bound to the furthest tier end.
func (g *TextGrid) Bounds() (float64, float64) {
	if !math.IsInf(g.maxTime, 1) {
		return g.minTime, g.maxTime
	}
	maxTime := g.minTime
	for _, t := range g.tiers {
		_, tmax := t.Bounds()
		if !math.IsInf(tmax, 1) && tmax > maxTime {
			maxTime = tmax
		}
	}
	return g.minTime, maxTime
}

func (g *TextGrid) Len() int { return len(g.tiers) }

func (g *TextGrid) Tier(i int) Tier {
	return g.tiers[i]
}

// Tiers returns the tiers in order. The slice is a copy.
func (g *TextGrid) Tiers() []Tier {
	out := make([]Tier, len(g.tiers))
	copy(out, g.tiers)
	return out
}

func (g *TextGrid) checkBounds(t Tier) error {
	if t.MinTime() < g.minTime {
		return &OutOfBoundsError{Bound: g.minTime, Value: t.MinTime()}
	}
	if !math.IsInf(t.MaxTime(), 1) && t.MaxTime() > g.maxTime {
		return &OutOfBoundsError{Bound: g.maxTime, Value: t.MaxTime(), Late: true}
	}
	return nil
}

// Append adds t after the existing tiers and imposes the grid's strictness on it.
func (g *TextGrid) Append(t Tier) error {
	if err := g.checkBounds(t); err != nil {
		return fmt.Errorf("tier %q: %w", t.Name(), err)
	}
	t.setStrict(g.strict)
	g.tiers = append(g.tiers, t)
	return nil
}

// Extend appends all tiers, or none if any is out of bounds.
func (g *TextGrid) Extend(tiers []Tier) error {
	for _, t := range tiers {
		if err := g.checkBounds(t); err != nil {
			return fmt.Errorf("tier %q: %w", t.Name(), err)
		}
	}
	for _, t := range tiers {
		t.setStrict(g.strict)
	}
	g.tiers = append(g.tiers, tiers...)
	return nil
}

// Pop removes and returns the tier at index i; a negative i counts from the end.
func (g *TextGrid) Pop(i int) (Tier, error) {
	if i < 0 {
		i += len(g.tiers)
	}
	if i < 0 || i >= len(g.tiers) {
		return nil, fmt.Errorf("tier index %d out of range (0-%d)", i, len(g.tiers)-1)
	}
	t := g.tiers[i]
	g.tiers = append(g.tiers[:i], g.tiers[i+1:]...)
	return t, nil
}

func (g *TextGrid) FirstTier(name string) (Tier, bool) {
	for _, t := range g.tiers {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

func (g *TextGrid) TiersNamed(name string) []Tier {
	var out []Tier
	for _, t := range g.tiers {
		if t.Name() == name {
			out = append(out, t)
		}
	}
	return out
}

func (g *TextGrid) TierNames() []string {
	names := make([]string, len(g.tiers))
	for i, t := range g.tiers {
		names[i] = t.Name()
	}
	return names
}

// IntervalTier returns the first interval tier with the given name.
func (g *TextGrid) IntervalTier(name string) (*IntervalTier, bool) {
	for _, t := range g.tiers {
		if it, ok := t.(*IntervalTier); ok && it.name == name {
			return it, true
		}
	}
	return nil, false
}

// PointTier returns the first point tier with the given name.
func (g *TextGrid) PointTier(name string) (*PointTier, bool) {
	for _, t := range g.tiers {
		if pt, ok := t.(*PointTier); ok && pt.name == name {
			return pt, true
		}
	}
	return nil, false
}

func (g *TextGrid) String() string {
	return fmt.Sprintf("<TextGrid %q, %d tiers>", g.Name, len(g.tiers))
}
