package textgrid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointTierDuplicateTime(t *testing.T) {
	tier := NewPointTier("events", 0, 2)
	require.NoError(t, tier.Add(1.0, "x"))

	err := tier.Add(1.0, "y")
	var derr *DuplicateError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "x", derr.Existing.Mark())
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.Equal(t, 1, tier.Len())
}

func TestPointTierOrderAndBounds(t *testing.T) {
	tier := NewPointTier("events", 0, 5)
	require.NoError(t, tier.Add(2, "b"))
	require.NoError(t, tier.Add(1, "a"))
	require.NoError(t, tier.Add(5, "c"))

	assert.Equal(t, []string{"a", "b", "c"}, marksOf(tier))

	var oob *OutOfBoundsError
	require.True(t, errors.As(tier.Add(6, "late"), &oob))
	assert.True(t, oob.Late)
	require.True(t, errors.As(tier.Add(-1, "early"), &oob))
	assert.False(t, oob.Late)
}

func TestPointTierLookupAndRemove(t *testing.T) {
	tier := NewPointTier("events", 0, Unbounded)
	require.NoError(t, tier.Add(1, "a"))
	require.NoError(t, tier.Add(3, "b"))

	p, ok := tier.PointAt(3)
	require.True(t, ok)
	assert.Equal(t, "b", p.Mark())

	_, ok = tier.PointAt(2)
	assert.False(t, ok)

	_, maxTime := tier.Bounds()
	assert.Equal(t, 3.0, maxTime)

	require.NoError(t, tier.Remove(1, ""))
	assert.True(t, errors.Is(tier.Remove(1, ""), ErrNotFound))
	assert.Equal(t, 1, tier.Len())
}

func TestPointTierRejectsNonFiniteTime(t *testing.T) {
	tier := NewPointTier("events", 0, Unbounded)
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		err := tier.Add(v, "x")
		var terr *TimeError
		require.True(t, errors.As(err, &terr), "time %v", v)
		assert.True(t, errors.Is(err, ErrInvariant))
	}
	assert.Equal(t, 0, tier.Len())
}

func TestPointTierShift(t *testing.T) {
	tier := NewPointTier("events", 0, 2)
	require.NoError(t, tier.Add(0.5, "a"))
	require.NoError(t, tier.Add(1, "b"))

	require.NoError(t, tier.Shift(-0.5))
	assert.Equal(t, -0.5, tier.MinTime())
	assert.Equal(t, 1.5, tier.MaxTime())
	assert.Equal(t, 0.0, tier.At(0).Time())
	assert.Equal(t, 0.5, tier.At(1).Time())
}
