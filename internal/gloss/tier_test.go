package gloss

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/tgfmt/internal/textgrid"
)

type fakeGlosser struct {
	seen [][]Item
	drop bool
}

func (f *fakeGlosser) Gloss(ctx context.Context, items []Item) ([]Result, error) {
	f.seen = append(f.seen, items)
	results, err := upper(ctx, items)
	if f.drop {
		results = results[1:]
	}
	return results, err
}

func TestGlossTier(t *testing.T) {
	tier := textgrid.NewIntervalTier("words", 0, 2)
	require.NoError(t, tier.Add(0.1, 0.4, "cat"))
	require.NoError(t, tier.Add(0.4, 0.9, ""))
	require.NoError(t, tier.Add(0.9, 1.5, "sat"))

	g := &fakeGlosser{}
	out, err := GlossTier(context.Background(), g, tier, "words-en")
	require.NoError(t, err)

	require.Len(t, g.seen, 1)
	assert.Equal(t, []Item{{Index: 0, Text: "cat"}, {Index: 2, Text: "sat"}}, g.seen[0])

	assert.Equal(t, "words-en", out.Name())
	assert.Equal(t, 0.0, out.MinTime())
	assert.Equal(t, 2.0, out.MaxTime())
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "CAT", out.At(0).Mark())
	assert.Equal(t, 0.9, out.At(1).MinTime())
	assert.Equal(t, "SAT", out.At(1).Mark())
}

func TestGlossTierMissingResult(t *testing.T) {
	tier := textgrid.NewIntervalTier("words", 0, 1)
	require.NoError(t, tier.Add(0, 0.5, "a"))
	require.NoError(t, tier.Add(0.5, 1, "b"))

	_, err := GlossTier(context.Background(), &fakeGlosser{drop: true}, tier, "x")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "no gloss for label 0"))
}

func TestGlossTierUnlabeled(t *testing.T) {
	tier := textgrid.NewIntervalTier("words", 0, 1)
	require.NoError(t, tier.Add(0, 1, ""))

	g := &fakeGlosser{}
	out, err := GlossTier(context.Background(), g, tier, "x")
	require.NoError(t, err)
	assert.Empty(t, g.seen)
	assert.Equal(t, 0, out.Len())
}

func TestGlossPointTier(t *testing.T) {
	tier := textgrid.NewPointTier("events", 0, 3)
	require.NoError(t, tier.Add(0.5, "click"))
	require.NoError(t, tier.Add(2.25, "beep"))

	out, err := GlossPointTier(context.Background(), &fakeGlosser{}, tier, "events-en")
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, 2.25, out.At(1).Time())
	assert.Equal(t, "BEEP", out.At(1).Mark())
}
