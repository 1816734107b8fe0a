package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// hours are optional in WebVTT; SRT separates milliseconds with a comma
var cueTimingRegex = regexp.MustCompile(
	`^\s*(?:(\d+):)?(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(?:(\d+):)?(\d{2}):(\d{2})[,.](\d{3})`,
)

// Read parses an SRT or VTT file, picking the format from its extension.
func Read(path string) (*Subtitle, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatASS {
		return nil, fmt.Errorf("reading %s files is not supported", format)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", strings.ToUpper(string(format)), err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file, format)
}

// Decode parses SRT or VTT cues. Both share the block layout: an optional
// identifier line, a timing line and one or more text lines, with blocks
// separated by blank lines. Cues without text are skipped.
func Decode(r io.Reader, format Format) (*Subtitle, error) {
	sub := &Subtitle{Format: format}
	scanner := bufio.NewScanner(r)

	var current *Entry
	var textLines []string
	skipping := false
	lineNum := 0

	flush := func() {
		if current != nil && len(textLines) > 0 {
			current.Text = strings.Join(textLines, "\n")
			sub.Entries = append(sub.Entries, *current)
		}
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			skipping = false
			continue
		}
		if skipping {
			continue
		}

		if current == nil && format == FormatVTT && isVTTMetadata(trimmed) {
			skipping = true
			continue
		}

		if m := cueTimingRegex.FindStringSubmatch(line); m != nil {
			flush()
			start, err := parseTimestamp(m[1], m[2], m[3], m[4])
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
			}
			end, err := parseTimestamp(m[5], m[6], m[7], m[8])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
			}
			current = &Entry{
				Index:     len(sub.Entries) + 1,
				StartTime: start,
				EndTime:   end,
			}
			continue
		}

		// identifier lines come before the timing line and are not kept
		if current != nil {
			textLines = append(textLines, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", strings.ToUpper(string(format)), err)
	}
	return sub, nil
}

func isVTTMetadata(line string) bool {
	for _, prefix := range []string{"WEBVTT", "NOTE", "STYLE", "REGION"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func parseTimestamp(hours, minutes, seconds, millis string) (time.Duration, error) {
	h := 0
	if hours != "" {
		var err error
		if h, err = strconv.Atoi(hours); err != nil {
			return 0, err
		}
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}
	if m > 59 || s > 59 {
		return 0, fmt.Errorf("out of range: %s:%s", minutes, seconds)
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
