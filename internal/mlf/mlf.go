// Package mlf reads HTK Master Label Files produced by forced alignment
// (HVite -o SM) and turns every utterance into a TextGrid with a phone tier
// and a word tier.
package mlf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mgpai22/tgfmt/internal/textgrid"
)

var utteranceRegex = regexp.MustCompile(`^"(.*)"`)

// Options controls time conversion and the shape of the produced grids.
type Options struct {
	// SampleRate divides the sample counts in the file to give seconds
	SampleRate float64
	Precision  int
	ShortPause string
	PhoneTier  string
	WordTier   string
}

func DefaultOptions() Options {
	return Options{
		SampleRate: 10e6,
		Precision:  5,
		ShortPause: "sp",
		PhoneTier:  "phones",
		WordTier:   "words",
	}
}

// DegenerateIntervalError reports a word-initial record whose start and end
// coincide after conversion.
type DegenerateIntervalError struct {
	Line int
	Time float64
}

func (e *DegenerateIntervalError) Error() string {
	return fmt.Sprintf("line %d: null duration interval at %v", e.Line, e.Time)
}

func (e *DegenerateIntervalError) Unwrap() error {
	return textgrid.ErrInvariant
}

type state int

const (
	stateAwaitingUtterance state = iota
	stateInUtterance
)

func (s state) String() string {
	switch s {
	case stateAwaitingUtterance:
		return "AWAITING_UTTERANCE"
	case stateInUtterance:
		return "IN_UTTERANCE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// MLF holds one TextGrid per utterance, in file order.
type MLF struct {
	grids []*textgrid.TextGrid
}

func (m *MLF) Len() int { return len(m.grids) }

func (m *MLF) Grid(i int) *textgrid.TextGrid { return m.grids[i] }

// Grids returns the parsed grids. The slice is a copy.
func (m *MLF) Grids() []*textgrid.TextGrid {
	out := make([]*textgrid.TextGrid, len(m.grids))
	copy(out, m.grids)
	return out
}

func (m *MLF) String() string {
	return fmt.Sprintf("<MLF, %d TextGrids>", len(m.grids))
}

func Read(filename string, opts Options) (*MLF, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open MLF file: %w", err)
	}
	defer func() { _ = file.Close() }()

	m, err := Decode(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// Decode parses an MLF stream. The stream ends at the first line after an
// utterance that does not name a new one.
func Decode(r io.Reader, opts Options) (*MLF, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %v", opts.SampleRate)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read MLF: %w", err)
		}
		return nil, &textgrid.FormatError{Line: 1, Msg: "missing MLF header"}
	}
	lineNum++
	if utteranceRegex.MatchString(strings.TrimSpace(scanner.Text())) {
		return nil, &textgrid.FormatError{Line: 1, Msg: "missing MLF header"}
	}

	m := &MLF{}
	st := stateAwaitingUtterance
	var u *utterance

scan:
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), " \t\r")

		switch st {
		case stateAwaitingUtterance:
			match := utteranceRegex.FindStringSubmatch(line)
			if match == nil {
				break scan
			}
			u = newUtterance(match[1], opts)
			st = stateInUtterance

		case stateInUtterance:
			done, err := u.consume(line, lineNum, opts)
			if err != nil {
				return nil, err
			}
			if done {
				grid, err := u.seal()
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				m.grids = append(m.grids, grid)
				st = stateAwaitingUtterance
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read MLF: %w", err)
	}
	if st == stateInUtterance {
		return nil, &textgrid.FormatError{
			Line: lineNum,
			Msg:  fmt.Sprintf("unexpected end of input in utterance %q", u.grid.Name),
		}
	}
	return m, nil
}

// utterance accumulates the tiers of one block and the word still waiting
// for its end.
type utterance struct {
	grid   *textgrid.TextGrid
	phones *textgrid.IntervalTier
	words  *textgrid.IntervalTier

	word    string
	hasWord bool
	start   float64
	end     float64
}

func newUtterance(name string, opts Options) *utterance {
	return &utterance{
		grid:   textgrid.New(name, 0, textgrid.Unbounded),
		phones: textgrid.NewIntervalTier(opts.PhoneTier, 0, textgrid.Unbounded),
		words:  textgrid.NewIntervalTier(opts.WordTier, 0, textgrid.Unbounded),
	}
}

// consume classifies one record by its field count and reports whether it
// closed the utterance.
func (u *utterance) consume(line string, lineNum int, opts Options) (bool, error) {
	if strings.TrimSpace(line) == "." {
		if err := u.flush(); err != nil {
			return false, fmt.Errorf("line %d: %w", lineNum, err)
		}
		return true, nil
	}

	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 4 {
		return false, &textgrid.FormatError{
			Line: lineNum,
			Msg:  fmt.Sprintf("expected 3 or 4 fields, got %d", len(fields)),
		}
	}

	start, err := parseTime(fields[0], lineNum, opts)
	if err != nil {
		return false, err
	}
	end, err := parseTime(fields[1], lineNum, opts)
	if err != nil {
		return false, err
	}
	phone := fields[2]

	if len(fields) == 4 {
		if start == end {
			return false, &DegenerateIntervalError{Line: lineNum, Time: start}
		}
		if err := u.phones.Add(start, end, phone); err != nil {
			return false, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := u.flush(); err != nil {
			return false, fmt.Errorf("line %d: %w", lineNum, err)
		}
		u.begin(fields[3], start, end)
		return false, nil
	}

	switch {
	case phone == opts.ShortPause && start != end:
		if err := u.flush(); err != nil {
			return false, fmt.Errorf("line %d: %w", lineNum, err)
		}
		u.begin(phone, start, end)
	case start != end:
		if err := u.phones.Add(start, end, phone); err != nil {
			return false, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	u.end = end
	return false, nil
}

func (u *utterance) begin(word string, start, end float64) {
	u.word = word
	u.hasWord = true
	u.start = start
	u.end = end
}

// flush writes the pending word, if there is one.
func (u *utterance) flush() error {
	if !u.hasWord {
		return nil
	}
	u.hasWord = false
	return u.words.Add(u.start, u.end, u.word)
}

func (u *utterance) seal() (*textgrid.TextGrid, error) {
	if err := u.grid.Extend([]textgrid.Tier{u.phones, u.words}); err != nil {
		return nil, err
	}
	return u.grid, nil
}

func parseTime(field string, lineNum int, opts Options) (float64, error) {
	samples, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, &textgrid.FormatError{Line: lineNum, Msg: "invalid sample count", Err: err}
	}
	return textgrid.Round(samples/opts.SampleRate, opts.Precision), nil
}

// OutputPath places the grid for an utterance name like "*/utt01.lab" at
// dir/utt01.TextGrid.
func OutputPath(name, dir string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	return filepath.Join(dir, stem+".TextGrid")
}

// Write stores every grid under dir and returns how many were written.
func (m *MLF) Write(dir string, w *textgrid.Writer) (int, error) {
	if w == nil {
		w = textgrid.NewWriter()
	}
	for i, g := range m.grids {
		if err := w.WriteFile(OutputPath(g.Name, dir), g); err != nil {
			return i, err
		}
	}
	return len(m.grids), nil
}
