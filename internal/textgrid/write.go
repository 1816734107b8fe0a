package textgrid

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

const indentUnit = "    "

// Writer serializes Praat objects in long text form.
type Writer struct {
	// Null labels the intervals that fill gaps in interval tiers
	Null string
}

func NewWriter() *Writer {
	return &Writer{}
}

// Write encodes a *TextGrid, *IntervalTier or *PointTier to out.
func (w *Writer) Write(out io.Writer, obj Object) error {
	var sb strings.Builder
	switch o := obj.(type) {
	case *TextGrid:
		w.writeTextGrid(&sb, o)
	case *IntervalTier:
		w.writeIntervalTier(&sb, o)
	case *PointTier:
		writePointTier(&sb, o)
	default:
		return fmt.Errorf("unsupported object: %T", obj)
	}
	_, err := io.WriteString(out, sb.String())
	return err
}

// WriteFile writes obj to path, creating the parent directory if needed.
func (w *Writer) WriteFile(path string, obj Object) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := w.Write(file, obj); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// WriteFile writes the grid in long form with unlabeled gaps.
func (g *TextGrid) WriteFile(path string) error {
	return NewWriter().WriteFile(path, g)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

func writeHeader(sb *strings.Builder, class Class) {
	sb.WriteString("File type = \"ooTextFile\"\n")
	fmt.Fprintf(sb, "Object class = \"%s\"\n\n", class)
}

func writeField(sb *strings.Builder, depth int, key string, value float64) {
	fmt.Fprintf(sb, "%s%s = %s\n", strings.Repeat(indentUnit, depth), key, formatTime(value))
}

func writeText(sb *strings.Builder, depth int, key, text string) {
	fmt.Fprintf(sb, "%s%s = \"%s\"\n", strings.Repeat(indentUnit, depth), key, escapeText(text))
}

// every tier is stretched to the grid's end so Praat accepts the file
func (w *Writer) writeTextGrid(sb *strings.Builder, g *TextGrid) {
	minTime, maxTime := g.Bounds()
	maxTime = finiteMax(minTime, maxTime)

	writeHeader(sb, ClassTextGrid)
	writeField(sb, 0, "xmin", minTime)
	writeField(sb, 0, "xmax", maxTime)
	sb.WriteString("tiers? <exists>\n")
	fmt.Fprintf(sb, "size = %d\n", len(g.tiers))
	sb.WriteString("item []:\n")

	for i, t := range g.tiers {
		fmt.Fprintf(sb, "%sitem [%d]:\n", indentUnit, i+1)
		writeText(sb, 2, "class", string(t.Class()))
		writeText(sb, 2, "name", t.Name())
		writeField(sb, 2, "xmin", t.MinTime())
		writeField(sb, 2, "xmax", maxTime)

		switch tier := t.(type) {
		case *IntervalTier:
			writeIntervals(sb, 2, tier.fillGaps(w.Null, tier.minTime, maxTime))
		case *PointTier:
			writePoints(sb, 2, tier.points)
		}
	}
}

func (w *Writer) writeIntervalTier(sb *strings.Builder, t *IntervalTier) {
	minTime, maxTime := t.Bounds()
	maxTime = finiteMax(minTime, maxTime)

	writeHeader(sb, ClassIntervalTier)
	writeField(sb, 0, "xmin", minTime)
	writeField(sb, 0, "xmax", maxTime)
	writeIntervals(sb, 0, t.fillGaps(w.Null, minTime, maxTime))
}

func writePointTier(sb *strings.Builder, t *PointTier) {
	minTime, maxTime := t.Bounds()
	maxTime = finiteMax(minTime, maxTime)

	writeHeader(sb, ClassTextTier)
	writeField(sb, 0, "xmin", minTime)
	writeField(sb, 0, "xmax", maxTime)
	writePoints(sb, 0, t.points)
}

func writeIntervals(sb *strings.Builder, depth int, intervals []*Interval) {
	indent := strings.Repeat(indentUnit, depth)
	fmt.Fprintf(sb, "%sintervals: size = %d\n", indent, len(intervals))
	for j, iv := range intervals {
		fmt.Fprintf(sb, "%sintervals [%d]:\n", indent, j+1)
		writeField(sb, depth+1, "xmin", iv.minTime)
		writeField(sb, depth+1, "xmax", iv.maxTime)
		writeText(sb, depth+1, "text", iv.mark)
	}
}

func writePoints(sb *strings.Builder, depth int, points []*Point) {
	indent := strings.Repeat(indentUnit, depth)
	fmt.Fprintf(sb, "%spoints: size = %d\n", indent, len(points))
	for k, p := range points {
		fmt.Fprintf(sb, "%spoints [%d]:\n", indent, k+1)
		writeField(sb, depth+1, "time", p.time)
		writeText(sb, depth+1, "mark", p.mark)
	}
}

func escapeText(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// an empty open-ended object has no end yet
func finiteMax(minTime, maxTime float64) float64 {
	if math.IsInf(maxTime, 1) {
		return minTime
	}
	return maxTime
}
