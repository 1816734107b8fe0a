package textgrid

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Form selects the grammar used for the body of a Praat text file.
type Form int

const (
	// FormAuto follows the header, falling back to short form when a long
	// header is followed by bare values
	FormAuto Form = iota
	FormLong
	FormShort
)

func (f Form) String() string {
	switch f {
	case FormLong:
		return "long"
	case FormShort:
		return "short"
	default:
		return "auto"
	}
}

// ParseForm maps "auto", "long" and "short" to a Form.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormAuto, nil
	case "long":
		return FormLong, nil
	case "short":
		return FormShort, nil
	default:
		return FormAuto, fmt.Errorf("unknown text form %q (expected auto, long or short)", s)
	}
}

// DefaultPrecision is the number of decimal places times are rounded to on read.
const DefaultPrecision = 5

type ReadOptions struct {
	// Precision is the number of decimal places kept; negative disables rounding
	Precision int
	Form      Form
	// Strict makes overlapping intervals a load error instead of a warning
	Strict bool
}

func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Precision: DefaultPrecision,
		Form:      FormAuto,
		Strict:    true,
	}
}

// Read loads a TextGrid file with the default options.
func Read(path string) (*TextGrid, error) {
	return ReadWithOptions(path, DefaultReadOptions())
}

// ReadWithOptions loads a TextGrid file. The grid is named after the file stem.
func ReadWithOptions(path string, opts ReadOptions) (*TextGrid, error) {
	obj, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	g, ok := obj.(*TextGrid)
	if !ok {
		return nil, &FormatError{Msg: fmt.Sprintf("expected a TextGrid, found %s", obj.Class())}
	}
	return g, nil
}

// Decode reads a TextGrid from r.
func Decode(r io.Reader, opts ReadOptions) (*TextGrid, error) {
	obj, err := decodeObject(r, opts)
	if err != nil {
		return nil, err
	}
	g, ok := obj.(*TextGrid)
	if !ok {
		return nil, &FormatError{Msg: fmt.Sprintf("expected a TextGrid, found %s", obj.Class())}
	}
	return g, nil
}

// ReadIntervalTier loads a freestanding IntervalTier file named after its stem.
func ReadIntervalTier(path string, opts ReadOptions) (*IntervalTier, error) {
	obj, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*IntervalTier)
	if !ok {
		return nil, &FormatError{Msg: fmt.Sprintf("expected an IntervalTier, found %s", obj.Class())}
	}
	return t, nil
}

// ReadPointTier loads a freestanding TextTier file named after its stem.
func ReadPointTier(path string, opts ReadOptions) (*PointTier, error) {
	obj, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*PointTier)
	if !ok {
		return nil, &FormatError{Msg: fmt.Sprintf("expected a TextTier, found %s", obj.Class())}
	}
	return t, nil
}

func DecodeIntervalTier(r io.Reader, opts ReadOptions) (*IntervalTier, error) {
	obj, err := decodeObject(r, opts)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*IntervalTier)
	if !ok {
		return nil, &FormatError{Msg: fmt.Sprintf("expected an IntervalTier, found %s", obj.Class())}
	}
	return t, nil
}

func DecodePointTier(r io.Reader, opts ReadOptions) (*PointTier, error) {
	obj, err := decodeObject(r, opts)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*PointTier)
	if !ok {
		return nil, &FormatError{Msg: fmt.Sprintf("expected a TextTier, found %s", obj.Class())}
	}
	return t, nil
}

// Open loads whatever Praat object path holds: a *TextGrid, *IntervalTier or
// *PointTier, named after the file stem.
func Open(path string, opts ReadOptions) (Object, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	obj, err := decodeObject(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch o := obj.(type) {
	case *TextGrid:
		o.Name = stem
	case *IntervalTier:
		o.name = stem
	case *PointTier:
		o.name = stem
	}
	return obj, nil
}

func decodeObject(r io.Reader, opts ReadOptions) (Object, error) {
	s, err := newScanner(r, opts.Precision)
	if err != nil {
		return nil, err
	}
	class, err := s.header(opts.Form)
	if err != nil {
		return nil, err
	}
	logger.Debugw("Reading Praat object", "class", string(class), "short", s.short)

	switch class {
	case ClassTextGrid:
		return s.readTextGrid(opts.Strict)
	case ClassIntervalTier:
		minTime, maxTime, err := s.bounds()
		if err != nil {
			return nil, err
		}
		t := NewIntervalTier("", minTime, maxTime)
		t.strict = opts.Strict
		if err := s.readIntervals(t); err != nil {
			return nil, err
		}
		return t, nil
	case ClassTextTier:
		minTime, maxTime, err := s.bounds()
		if err != nil {
			return nil, err
		}
		t := NewPointTier("", minTime, maxTime)
		if err := s.readPoints(t); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, &FormatError{Line: 2, Msg: fmt.Sprintf("unsupported object class %q", class)}
	}
}

func (s *scanner) bounds() (float64, float64, error) {
	minTime, err := s.number()
	if err != nil {
		return 0, 0, err
	}
	maxTime, err := s.number()
	if err != nil {
		return 0, 0, err
	}
	return minTime, maxTime, nil
}

func (s *scanner) readTextGrid(strict bool) (*TextGrid, error) {
	minTime, maxTime, err := s.bounds()
	if err != nil {
		return nil, err
	}
	g := New("", minTime, maxTime)
	g.strict = strict

	exists, err := s.next()
	if err != nil {
		return nil, err
	}
	if strings.Contains(exists, "<absent>") {
		return g, nil
	}

	n, err := s.count()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		// item []:
		if err := s.section(); err != nil {
			return nil, err
		}
	}

	for i := 0; i < n; i++ {
		if err := s.section(); err != nil {
			return nil, err
		}
		class, err := s.quoted("class")
		if err != nil {
			return nil, err
		}
		name, err := s.quoted("name")
		if err != nil {
			return nil, err
		}
		tmin, tmax, err := s.bounds()
		if err != nil {
			return nil, err
		}

		var tier Tier
		switch Class(class) {
		case ClassIntervalTier:
			it := NewIntervalTier(name, tmin, tmax)
			it.strict = strict
			if err := s.readIntervals(it); err != nil {
				return nil, err
			}
			tier = it
		case ClassTextTier:
			pt := NewPointTier(name, tmin, tmax)
			if err := s.readPoints(pt); err != nil {
				return nil, err
			}
			tier = pt
		default:
			return nil, s.errorf("unknown tier class %q", class)
		}

		if err := g.Append(tier); err != nil {
			return nil, fmt.Errorf("line %d: %w", s.line, err)
		}
	}
	return g, nil
}

// readIntervals drops zero-length intervals, which Praat files may carry but
// the model cannot represent.
func (s *scanner) readIntervals(t *IntervalTier) error {
	n, err := s.count()
	if err != nil {
		return err
	}
	for j := 0; j < n; j++ {
		if err := s.section(); err != nil {
			return err
		}
		minTime, maxTime, err := s.bounds()
		if err != nil {
			return err
		}
		mark, err := s.quoted("text")
		if err != nil {
			return err
		}
		if minTime >= maxTime {
			logger.Debugw("Dropping empty interval",
				"tier", t.name,
				"line", s.line,
				"min", minTime,
				"max", maxTime,
			)
			continue
		}
		if err := t.Add(minTime, maxTime, mark); err != nil {
			return fmt.Errorf("line %d: tier %q: %w", s.line, t.name, err)
		}
	}
	return nil
}

func (s *scanner) readPoints(t *PointTier) error {
	n, err := s.count()
	if err != nil {
		return err
	}
	for j := 0; j < n; j++ {
		if err := s.section(); err != nil {
			return err
		}
		time, err := s.number()
		if err != nil {
			return err
		}
		mark, err := s.quoted("mark", "text")
		if err != nil {
			return err
		}
		if err := t.Add(time, mark); err != nil {
			return fmt.Errorf("line %d: tier %q: %w", s.line, t.name, err)
		}
	}
	return nil
}
