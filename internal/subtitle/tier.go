package subtitle

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mgpai22/tgfmt/internal/textgrid"
)

// Converter maps between interval tiers and cue tracks.
type Converter struct {
	// MaxCharsPerLine wraps longer marks onto two lines; zero disables wrapping
	MaxCharsPerLine int
	// KeepEmpty exports intervals with blank marks as empty cues
	KeepEmpty bool
}

func NewConverter() *Converter {
	return &Converter{
		MaxCharsPerLine: 42, // standard subtitle line length
	}
}

// FromTier turns each labeled interval into one cue with the same bounds.
func (c *Converter) FromTier(tier *textgrid.IntervalTier, format Format) *Subtitle {
	sub := &Subtitle{Format: format}
	for _, iv := range tier.Intervals() {
		text := strings.TrimSpace(iv.Mark())
		if text == "" && !c.KeepEmpty {
			continue
		}
		sub.Entries = append(sub.Entries, Entry{
			Index:     len(sub.Entries) + 1,
			StartTime: toDuration(iv.MinTime()),
			EndTime:   toDuration(iv.MaxTime()),
			Text:      c.formatText(text),
		})
	}
	return sub
}

// ToTier builds an open-ended interval tier from cues. Cues that do not move
// forward in time are skipped; overlapping cues fail unless strict is false.
func (c *Converter) ToTier(sub *Subtitle, name string, strict bool) (*textgrid.IntervalTier, error) {
	tier := textgrid.NewIntervalTier(name, 0, textgrid.Unbounded)
	tier.SetStrict(strict)

	for _, e := range sub.Entries {
		start, end := toSeconds(e.StartTime), toSeconds(e.EndTime)
		if start >= end {
			continue
		}
		if err := tier.Add(start, end, e.Text); err != nil {
			return nil, fmt.Errorf("cue %d: %w", e.Index, err)
		}
	}
	return tier, nil
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

func toSeconds(d time.Duration) float64 {
	return textgrid.Round(d.Seconds(), 3)
}

// formatText splits text into two lines at the word break closest to the middle
func (c *Converter) formatText(text string) string {
	runeCount := utf8.RuneCountInString(text)
	if c.MaxCharsPerLine <= 0 || runeCount <= c.MaxCharsPerLine || strings.Contains(text, "\n") {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := currentLen - middle
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	return strings.Join(words[:bestSplit], " ") + "\n" + strings.Join(words[bestSplit:], " ")
}
