package textgrid

import (
	"fmt"
	"math"
	"sort"
)

// Class is the Praat object class declared in a file header.
type Class string

const (
	ClassTextGrid     Class = "TextGrid"
	ClassIntervalTier Class = "IntervalTier"
	ClassTextTier     Class = "TextTier"
)

// Object is anything Praat can store in a text file.
type Object interface {
	Class() Class
}

// Tier is implemented only by *IntervalTier and *PointTier.
type Tier interface {
	Object
	Name() string
	MinTime() float64
	// MaxTime is Unbounded for open-ended tiers
	MaxTime() float64
	// Bounds resolves an open upper bound to the end of the last element
	Bounds() (float64, float64)
	Len() int
	Marks() []TimeMark
	setStrict(strict bool)
}

// IntervalTier keeps intervals sorted by start time within its bounds. It is
// mutated like a set, through Add and Remove only.
type IntervalTier struct {
	name      string
	minTime   float64
	maxTime   float64
	strict    bool
	intervals []*Interval
}

// NewIntervalTier creates an empty strict tier. Pass Unbounded as maxTime for
// an open-ended tier.
func NewIntervalTier(name string, minTime, maxTime float64) *IntervalTier {
	return &IntervalTier{
		name:    name,
		minTime: minTime,
		maxTime: maxTime,
		strict:  true,
	}
}

func (t *IntervalTier) Class() Class { return ClassIntervalTier }

func (t *IntervalTier) Name() string { return t.name }

func (t *IntervalTier) MinTime() float64 { return t.minTime }

func (t *IntervalTier) MaxTime() float64 { return t.maxTime }

func (t *IntervalTier) Len() int { return len(t.intervals) }

func (t *IntervalTier) Strict() bool { return t.strict }

// SetStrict switches overlap handling for the tier and every interval in it.
func (t *IntervalTier) SetStrict(strict bool) {
	t.setStrict(strict)
}

func (t *IntervalTier) setStrict(strict bool) {
	t.strict = strict
	for _, iv := range t.intervals {
		iv.strict = strict
	}
}

func (t *IntervalTier) Bounds() (float64, float64) {
	if !math.IsInf(t.maxTime, 1) || len(t.intervals) == 0 {
		return t.minTime, t.maxTime
	}
	return t.minTime, t.intervals[len(t.intervals)-1].maxTime
}

// At returns the i-th interval in start-time order. The interval is shared
// with the tier; move it with the tier's Shift, not its own.
func (t *IntervalTier) At(i int) *Interval {
	return t.intervals[i]
}

// Intervals returns the intervals in order. The slice is a copy but the
// intervals are shared, as with At.
func (t *IntervalTier) Intervals() []*Interval {
	out := make([]*Interval, len(t.intervals))
	copy(out, t.intervals)
	return out
}

// Shift moves the tier bounds and every interval by offset. An open upper
// bound stays open.
func (t *IntervalTier) Shift(offset float64) error {
	if !finite(offset) {
		return &TimeError{Value: offset}
	}
	t.minTime += offset
	t.maxTime += offset
	for _, iv := range t.intervals {
		iv.Shift(offset)
	}
	return nil
}

func (t *IntervalTier) Marks() []TimeMark {
	out := make([]TimeMark, len(t.intervals))
	for i, iv := range t.intervals {
		out[i] = iv
	}
	return out
}

func (t *IntervalTier) Add(minTime, maxTime float64, mark string) error {
	iv, err := NewInterval(minTime, maxTime, mark)
	if err != nil {
		return err
	}
	return t.AddInterval(iv)
}

// AddInterval inserts iv at its sorted position. The tier takes ownership of iv.
func (t *IntervalTier) AddInterval(iv *Interval) error {
	if iv.minTime < t.minTime {
		return &OutOfBoundsError{Bound: t.minTime, Value: iv.minTime}
	}
	if iv.maxTime > t.maxTime {
		return &OutOfBoundsError{Bound: t.maxTime, Value: iv.maxTime, Late: true}
	}
	iv.strict = t.strict

	i, err := t.search(iv)
	if err != nil {
		return err
	}
	if i < len(t.intervals) && t.intervals[i].Equal(iv) {
		return &DuplicateError{Existing: t.intervals[i]}
	}

	t.intervals = append(t.intervals, nil)
	copy(t.intervals[i+1:], t.intervals[i:])
	t.intervals[i] = iv
	return nil
}

// search is a left bisection: the first index whose interval does not sort
// before iv.
func (t *IntervalTier) search(iv *Interval) (int, error) {
	lo, hi := 0, len(t.intervals)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c, err := t.intervals[mid].Compare(iv)
		if err != nil {
			return 0, err
		}
		if c < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

func (t *IntervalTier) Remove(minTime, maxTime float64, mark string) error {
	iv, err := NewInterval(minTime, maxTime, mark)
	if err != nil {
		return err
	}
	return t.RemoveInterval(iv)
}

// RemoveInterval removes the first interval with the same bounds as iv.
func (t *IntervalTier) RemoveInterval(iv *Interval) error {
	for i, cur := range t.intervals {
		if cur.Equal(iv) {
			t.intervals = append(t.intervals[:i], t.intervals[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Element: iv}
}

// IndexContaining returns the index of the interval whose closed span holds
// time. Gaps and times outside the tier report false.
func (t *IntervalTier) IndexContaining(time float64) (int, bool) {
	i := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].maxTime >= time
	})
	if i < len(t.intervals) && t.intervals[i].Contains(time) {
		return i, true
	}
	return -1, false
}

func (t *IntervalTier) IntervalContaining(time float64) (*Interval, bool) {
	i, ok := t.IndexContaining(time)
	if !ok {
		return nil, false
	}
	return t.intervals[i], true
}

// FillGaps returns the intervals with every gap between the tier bounds
// covered by an interval marked null. The tier is not modified.
func (t *IntervalTier) FillGaps(null string) []*Interval {
	return t.fillGaps(null, t.minTime, t.maxTime)
}

func (t *IntervalTier) fillGaps(null string, minTime, maxTime float64) []*Interval {
	out := make([]*Interval, 0, 2*len(t.intervals)+1)
	prev := minTime
	for _, iv := range t.intervals {
		if prev < iv.minTime {
			out = append(out, &Interval{minTime: prev, maxTime: iv.minTime, mark: null, strict: t.strict})
		}
		out = append(out, iv.clone())
		prev = iv.maxTime
	}
	if !math.IsInf(maxTime, 1) && prev < maxTime {
		out = append(out, &Interval{minTime: prev, maxTime: maxTime, mark: null, strict: t.strict})
	}
	return out
}

func (t *IntervalTier) String() string {
	return fmt.Sprintf("<IntervalTier %q, %d intervals>", t.name, len(t.intervals))
}
