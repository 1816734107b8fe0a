package textgrid

import (
	"fmt"
	"math"
	"sort"
)

// PointTier keeps points sorted by time. No two points share a time.
type PointTier struct {
	name    string
	minTime float64
	maxTime float64
	points  []*Point
}

func NewPointTier(name string, minTime, maxTime float64) *PointTier {
	return &PointTier{
		name:    name,
		minTime: minTime,
		maxTime: maxTime,
	}
}

func (t *PointTier) Class() Class { return ClassTextTier }

func (t *PointTier) Name() string { return t.name }

func (t *PointTier) MinTime() float64 { return t.minTime }

func (t *PointTier) MaxTime() float64 { return t.maxTime }

func (t *PointTier) Len() int { return len(t.points) }

// points never overlap, so strictness has nothing to govern
func (t *PointTier) setStrict(bool) {}

func (t *PointTier) Bounds() (float64, float64) {
	if !math.IsInf(t.maxTime, 1) || len(t.points) == 0 {
		return t.minTime, t.maxTime
	}
	return t.minTime, t.points[len(t.points)-1].time
}

// At returns the i-th point. The point is shared with the tier; move it
// with the tier's Shift.
func (t *PointTier) At(i int) *Point {
	return t.points[i]
}

// Points returns the points in order. The slice is a copy but the points
// are shared.
func (t *PointTier) Points() []*Point {
	out := make([]*Point, len(t.points))
	copy(out, t.points)
	return out
}

// Shift moves the tier bounds and every point by offset.
func (t *PointTier) Shift(offset float64) error {
	if !finite(offset) {
		return &TimeError{Value: offset}
	}
	t.minTime += offset
	t.maxTime += offset
	for _, p := range t.points {
		p.Shift(offset)
	}
	return nil
}

func (t *PointTier) Marks() []TimeMark {
	out := make([]TimeMark, len(t.points))
	for i, p := range t.points {
		out[i] = p
	}
	return out
}

func (t *PointTier) Add(time float64, mark string) error {
	return t.AddPoint(NewPoint(time, mark))
}

func (t *PointTier) AddPoint(p *Point) error {
	if !finite(p.time) {
		return &TimeError{Value: p.time}
	}
	if p.time < t.minTime {
		return &OutOfBoundsError{Bound: t.minTime, Value: p.time}
	}
	if p.time > t.maxTime {
		return &OutOfBoundsError{Bound: t.maxTime, Value: p.time, Late: true}
	}

	i := t.search(p.time)
	if i < len(t.points) && t.points[i].time == p.time {
		return &DuplicateError{Existing: t.points[i]}
	}

	t.points = append(t.points, nil)
	copy(t.points[i+1:], t.points[i:])
	t.points[i] = p
	return nil
}

func (t *PointTier) search(time float64) int {
	return sort.Search(len(t.points), func(i int) bool {
		return t.points[i].time >= time
	})
}

func (t *PointTier) Remove(time float64, mark string) error {
	return t.RemovePoint(NewPoint(time, mark))
}

// RemovePoint removes the point at p's time.
func (t *PointTier) RemovePoint(p *Point) error {
	for i, cur := range t.points {
		if cur.Equal(p) {
			t.points = append(t.points[:i], t.points[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Element: p}
}

// PointAt returns the point at exactly time.
func (t *PointTier) PointAt(time float64) (*Point, bool) {
	i := t.search(time)
	if i < len(t.points) && t.points[i].time == time {
		return t.points[i], true
	}
	return nil, false
}

func (t *PointTier) String() string {
	return fmt.Sprintf("<PointTier %q, %d points>", t.name, len(t.points))
}
