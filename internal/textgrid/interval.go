package textgrid

import (
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"
)

// Unbounded marks an open-ended upper bound. Nothing is ever too late for it.
var Unbounded = math.Inf(1)

var logger = zap.NewNop().Sugar()

// SetLogger installs the sink for non-fatal overlap warnings. A nil logger
// silences them.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	logger = l
}

// TimeMark is the ordering and membership contract shared by Interval and Point.
type TimeMark interface {
	Bounds() (float64, float64)
	Mark() string
	// CompareTime is 0 when t lies strictly inside the mark, negative when
	// the mark lies before t and positive when it lies after.
	CompareTime(t float64) int
	String() string
}

// Interval is a labeled span of time with positive duration.
type Interval struct {
	minTime float64
	maxTime float64
	mark    string
	strict  bool
}

func NewInterval(minTime, maxTime float64, mark string) (*Interval, error) {
	for _, v := range []float64{minTime, maxTime} {
		if !finite(v) {
			return nil, &TimeError{Value: v}
		}
	}
	if !(minTime < maxTime) {
		return nil, &DurationError{MinTime: minTime, MaxTime: maxTime}
	}
	return &Interval{
		minTime: minTime,
		maxTime: maxTime,
		mark:    mark,
		strict:  true,
	}, nil
}

func (i *Interval) MinTime() float64 { return i.minTime }

func (i *Interval) MaxTime() float64 { return i.maxTime }

func (i *Interval) Mark() string { return i.mark }

func (i *Interval) Bounds() (float64, float64) {
	return i.minTime, i.maxTime
}

func (i *Interval) Duration() float64 {
	return i.maxTime - i.minTime
}

// Shift translates both bounds by offset. Intervals held by a tier move with
// IntervalTier.Shift.
func (i *Interval) Shift(offset float64) {
	i.minTime += offset
	i.maxTime += offset
}

// Overlaps reports whether the open interiors of i and o intersect. Symmetric.
func (i *Interval) Overlaps(o *Interval) bool {
	return o.minTime < i.maxTime && i.minTime < o.maxTime
}

// Compare orders two intervals by start time. Overlapping intervals fail
// with *OverlapError when i is strict; otherwise the overlap is logged and
// start times decide.
func (i *Interval) Compare(o *Interval) (int, error) {
	if i.Overlaps(o) {
		if i.strict {
			return 0, &OverlapError{A: i, B: o}
		}
		logger.Warnw("Overlapping intervals",
			"mark", i.mark,
			"min", i.minTime,
			"max", i.maxTime,
			"other_mark", o.mark,
			"other_min", o.minTime,
			"other_max", o.maxTime,
		)
	}
	return cmpFloat(i.minTime, o.minTime), nil
}

func (i *Interval) CompareTime(t float64) int {
	switch {
	case i.maxTime <= t:
		return -1
	case i.minTime >= t:
		return 1
	default:
		return 0
	}
}

func (i *Interval) ComparePoint(p *Point) int {
	return i.CompareTime(p.time)
}

// Equal reports whether both intervals span exactly the same bounds.
func (i *Interval) Equal(o *Interval) bool {
	return i.minTime == o.minTime && i.maxTime == o.maxTime
}

// EqualPoint reports whether p lies strictly inside i. Use ContainsPoint for
// inclusive membership.
func (i *Interval) EqualPoint(p *Point) bool {
	return i.minTime < p.time && p.time < i.maxTime
}

func (i *Interval) Contains(t float64) bool {
	return i.minTime <= t && t <= i.maxTime
}

func (i *Interval) ContainsPoint(p *Point) bool {
	return i.Contains(p.time)
}

func (i *Interval) ContainsInterval(o *Interval) bool {
	return i.minTime <= o.minTime && o.maxTime <= i.maxTime
}

func (i *Interval) String() string {
	return fmt.Sprintf("Interval(%s, %s, %q)",
		formatTime(i.minTime), formatTime(i.maxTime), i.mark)
}

func (i *Interval) clone() *Interval {
	c := *i
	return &c
}

// Point is a labeled instant.
type Point struct {
	time float64
	mark string
}

func NewPoint(time float64, mark string) *Point {
	return &Point{time: time, mark: mark}
}

func (p *Point) Time() float64 { return p.time }

func (p *Point) Mark() string { return p.mark }

func (p *Point) Bounds() (float64, float64) {
	return p.time, p.time
}

func (p *Point) Shift(offset float64) {
	p.time += offset
}

func (p *Point) Compare(o *Point) int {
	return cmpFloat(p.time, o.time)
}

func (p *Point) CompareTime(t float64) int {
	return cmpFloat(p.time, t)
}

// CompareInterval is 0 iff p lies strictly inside iv.
func (p *Point) CompareInterval(iv *Interval) int {
	return -iv.CompareTime(p.time)
}

func (p *Point) Equal(o *Point) bool {
	return p.time == o.time
}

// Within reports whether p lies strictly inside iv.
func (p *Point) Within(iv *Interval) bool {
	return iv.EqualPoint(p)
}

func (p *Point) String() string {
	return fmt.Sprintf("Point(%s, %q)", formatTime(p.time), p.mark)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func formatTime(t float64) string {
	if math.IsInf(t, 1) {
		return "inf"
	}
	return strconv.FormatFloat(t, 'f', -1, 64)
}
