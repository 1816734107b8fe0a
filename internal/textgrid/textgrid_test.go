package textgrid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextGridAppendChecksBounds(t *testing.T) {
	g := New("g", 0, 1)

	var oob *OutOfBoundsError
	err := g.Append(NewIntervalTier("long", 0, 2))
	require.True(t, errors.As(err, &oob))
	assert.True(t, oob.Late)
	assert.Contains(t, err.Error(), `tier "long"`)

	err = g.Append(NewPointTier("early", -1, 1))
	require.True(t, errors.As(err, &oob))
	assert.False(t, oob.Late)

	require.NoError(t, g.Append(NewIntervalTier("open", 0, Unbounded)))
	assert.Equal(t, 1, g.Len())
}

func TestTextGridUnboundedAcceptsAnyTier(t *testing.T) {
	g := New("g", 0, Unbounded)
	words := NewIntervalTier("words", 0, 12)
	require.NoError(t, words.Add(0, 12, "all"))
	require.NoError(t, g.Append(words))
	require.NoError(t, g.Append(NewPointTier("events", 0, 3)))

	minTime, maxTime := g.Bounds()
	assert.Equal(t, 0.0, minTime)
	assert.Equal(t, 12.0, maxTime)
}

func TestTextGridExtendIsAllOrNothing(t *testing.T) {
	g := New("g", 0, 1)
	err := g.Extend([]Tier{
		NewIntervalTier("ok", 0, 1),
		NewIntervalTier("bad", 0, 5),
	})
	require.Error(t, err)
	assert.Equal(t, 0, g.Len())

	require.NoError(t, g.Extend([]Tier{NewIntervalTier("a", 0, 1), NewPointTier("b", 0, 1)}))
	assert.Equal(t, []string{"a", "b"}, g.TierNames())
}

func TestTextGridLookups(t *testing.T) {
	g := New("g", 0, 1)
	require.NoError(t, g.Extend([]Tier{
		NewIntervalTier("words", 0, 1),
		NewPointTier("events", 0, 1),
		NewIntervalTier("words", 0, 1),
	}))

	first, ok := g.FirstTier("words")
	require.True(t, ok)
	assert.Same(t, g.Tier(0), first)
	assert.Len(t, g.TiersNamed("words"), 2)

	_, ok = g.FirstTier("missing")
	assert.False(t, ok)

	_, ok = g.IntervalTier("events")
	assert.False(t, ok)
	pt, ok := g.PointTier("events")
	require.True(t, ok)
	assert.Equal(t, "events", pt.Name())
}

func TestTextGridPop(t *testing.T) {
	g := New("g", 0, 1)
	require.NoError(t, g.Extend([]Tier{NewIntervalTier("a", 0, 1), NewIntervalTier("b", 0, 1)}))

	last, err := g.Pop(-1)
	require.NoError(t, err)
	assert.Equal(t, "b", last.Name())
	assert.Equal(t, []string{"a"}, g.TierNames())

	_, err = g.Pop(3)
	assert.Error(t, err)
}

func TestTextGridStrictPropagates(t *testing.T) {
	g := New("g", 0, 2)
	g.SetStrict(false)

	tier := NewIntervalTier("words", 0, 2)
	require.True(t, tier.Strict())
	require.NoError(t, g.Append(tier))
	assert.False(t, tier.Strict())

	observeWarnings(t)
	require.NoError(t, tier.Add(0, 1, "a"))
	require.NoError(t, tier.Add(0.5, 1.5, "b"))

	g.SetStrict(true)
	assert.True(t, tier.Strict())
	assert.True(t, tier.At(0).strict)
}
