package textgrid

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLongForm(t *testing.T) {
	g := New("g", 0, 1)
	words := NewIntervalTier("w", 0, 1)
	require.NoError(t, words.Add(0.2, 0.5, "cat"))
	require.NoError(t, g.Append(words))

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, g))

	want := `File type = "ooTextFile"
Object class = "TextGrid"

xmin = 0
xmax = 1
tiers? <exists>
size = 1
item []:
    item [1]:
        class = "IntervalTier"
        name = "w"
        xmin = 0
        xmax = 1
        intervals: size = 3
        intervals [1]:
            xmin = 0
            xmax = 0.2
            text = ""
        intervals [2]:
            xmin = 0.2
            xmax = 0.5
            text = "cat"
        intervals [3]:
            xmin = 0.5
            xmax = 1
            text = ""
`
	assert.Equal(t, want, buf.String())
}

func TestWriteStretchesTiersToGridEnd(t *testing.T) {
	g := New("g", 0, 3)
	words := NewIntervalTier("words", 0, 2)
	require.NoError(t, words.Add(0, 2, "all"))
	events := NewPointTier("events", 0, 1)
	require.NoError(t, events.Add(0.5, "x"))
	require.NoError(t, g.Extend([]Tier{words, events}))

	w := NewWriter()
	w.Null = "sil"
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, g))

	back, err := Decode(&buf, DefaultReadOptions())
	require.NoError(t, err)

	for _, tier := range back.Tiers() {
		assert.Equal(t, 3.0, tier.MaxTime(), tier.Name())
	}
	backWords, _ := back.IntervalTier("words")
	assert.Equal(t, []string{"all", "sil"}, marksOf(backWords))
}

func TestWriteOpenEndedGrid(t *testing.T) {
	g := New("g", 0, Unbounded)
	words := NewIntervalTier("words", 0, Unbounded)
	require.NoError(t, words.Add(0.5, 2, "x"))
	require.NoError(t, g.Append(words))

	var buf bytes.Buffer
	require.NoError(t, NewWriter().Write(&buf, g))
	assert.NotContains(t, buf.String(), "inf")

	back, err := Decode(&buf, DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, 2.0, back.MaxTime())
}

func TestWriteRoundTrip(t *testing.T) {
	g := New("g", 0, 2.5)
	words := NewIntervalTier("words", 0, 2.5)
	require.NoError(t, words.Add(0, 1.25, `say "hi"`))
	require.NoError(t, words.Add(1.25, 2.5, "multi\nline"))
	events := NewPointTier(`the "events"`, 0, 2.5)
	require.NoError(t, events.Add(0.33333, "a"))
	require.NoError(t, events.Add(2, ""))
	require.NoError(t, g.Extend([]Tier{words, events}))

	path := filepath.Join(t.TempDir(), "nested", "out.TextGrid")
	require.NoError(t, g.WriteFile(path))

	back, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, g.TierNames(), back.TierNames())

	for i, tier := range g.Tiers() {
		got := back.Tier(i)
		require.Equal(t, tier.Len(), got.Len())
		want := tier.Marks()
		for j, m := range got.Marks() {
			wmin, wmax := want[j].Bounds()
			gmin, gmax := m.Bounds()
			assert.Equal(t, wmin, gmin)
			assert.Equal(t, wmax, gmax)
			assert.Equal(t, want[j].Mark(), m.Mark())
		}
	}
}

func TestWriteFreestandingTiers(t *testing.T) {
	dir := t.TempDir()

	tier := NewIntervalTier("phones", 0, 2)
	require.NoError(t, tier.Add(0.5, 1, "a"))
	ipath := filepath.Join(dir, "phones.IntervalTier")
	require.NoError(t, NewWriter().WriteFile(ipath, tier))

	raw, err := os.ReadFile(ipath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "File type = \"ooTextFile\"\nObject class = \"IntervalTier\"\n"))

	back, err := ReadIntervalTier(ipath, DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a", ""}, marksOf(back))

	points := NewPointTier("tones", 0, 2)
	require.NoError(t, points.Add(1.5, "H*"))
	ppath := filepath.Join(dir, "tones.TextTier")
	require.NoError(t, NewWriter().WriteFile(ppath, points))

	pback, err := ReadPointTier(ppath, DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"H*"}, marksOf(pback))
	assert.Equal(t, 2.0, pback.MaxTime())
}
