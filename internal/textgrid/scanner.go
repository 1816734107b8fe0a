package textgrid

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

var fileTypeRegex = regexp.MustCompile(`^File type = "([\w ]+)"`)

// scanner reads Praat text files line by line. In long form every value line
// is "key = value" and section headers ("item [1]:") sit between records; in
// short form each line is the bare value.
type scanner struct {
	r         *bufio.Reader
	line      int
	short     bool
	precision int

	pending    string
	hasPending bool
}

func newScanner(r io.Reader, precision int) (*scanner, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(head) == 0 {
		return nil, &FormatError{Msg: "empty input"}
	}
	enc, err := DetectEncoding(head)
	if err != nil {
		return nil, err
	}
	logger.Debugw("Detected encoding", "encoding", string(enc))

	return &scanner{
		r:         bufio.NewReader(enc.NewReader(br)),
		precision: precision,
	}, nil
}

func (s *scanner) errorf(format string, args ...any) error {
	return &FormatError{Line: s.line, Msg: fmt.Sprintf(format, args...)}
}

// readLine returns the next raw line without its terminator.
func (s *scanner) readLine() (string, error) {
	if s.hasPending {
		s.hasPending = false
		return s.pending, nil
	}
	text, err := s.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", fmt.Errorf("failed to read line %d: %w", s.line+1, err)
		}
		if text == "" {
			return "", io.EOF
		}
	}
	s.line++
	return strings.TrimRight(text, "\r\n"), nil
}

func (s *scanner) unread(line string) {
	s.pending = line
	s.hasPending = true
}

// next returns the next non-blank line.
func (s *scanner) next() (string, error) {
	for {
		line, err := s.readLine()
		if err == io.EOF {
			return "", s.errorf("unexpected end of input")
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
	}
}

// header parses the "File type" and "Object class" lines and reports the
// declared class. The form is taken from the file type unless forced.
func (s *scanner) header(form Form) (Class, error) {
	line, err := s.next()
	if err != nil {
		return "", err
	}
	line = strings.TrimPrefix(line, "\ufeff")
	m := fileTypeRegex.FindStringSubmatch(line)
	if m == nil || !strings.HasPrefix(m[1], "ooTextFile") {
		return "", s.errorf("not a Praat text file: %q", line)
	}

	switch form {
	case FormLong:
		s.short = false
	case FormShort:
		s.short = true
	default:
		s.short = strings.Contains(m[1], "short")
	}

	class, err := s.classLine()
	if err != nil {
		return "", err
	}

	if form == FormAuto && !s.short {
		// Praat writes short files under the same header as long ones.
		first, err := s.next()
		if err != nil {
			return "", err
		}
		if !strings.Contains(first, " = ") {
			s.short = true
		}
		s.unread(first)
	}
	return Class(class), nil
}

// classLine accepts both `Object class = "X"` and a bare `"X"`.
func (s *scanner) classLine() (string, error) {
	line, err := s.next()
	if err != nil {
		return "", err
	}
	body := strings.TrimSpace(line)
	if _, v, ok := strings.Cut(body, " = "); ok {
		body = strings.TrimSpace(v)
	}
	if len(body) < 2 || body[0] != '"' || body[len(body)-1] != '"' {
		return "", s.errorf("expected object class, got %q", line)
	}
	return body[1 : len(body)-1], nil
}

func (s *scanner) value() (string, error) {
	line, err := s.next()
	if err != nil {
		return "", err
	}
	if s.short {
		return strings.TrimSpace(line), nil
	}
	_, v, ok := strings.Cut(line, " = ")
	if !ok {
		return "", s.errorf("expected \"key = value\", got %q", line)
	}
	return strings.TrimSpace(v), nil
}

func (s *scanner) number() (float64, error) {
	v, err := s.value()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &FormatError{Line: s.line, Msg: "invalid number", Err: err}
	}
	if !finite(f) {
		return 0, s.errorf("invalid number %q", v)
	}
	return Round(f, s.precision), nil
}

func (s *scanner) count() (int, error) {
	v, err := s.value()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &FormatError{Line: s.line, Msg: "invalid count", Err: err}
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, s.errorf("invalid count %q", v)
	}
	return int(f), nil
}

// section consumes a long form section header such as "item [2]:".
// Short form has none.
func (s *scanner) section() error {
	if s.short {
		return nil
	}
	line, err := s.next()
	if err != nil {
		return err
	}
	if strings.Contains(line, " = ") || !strings.HasSuffix(strings.TrimSpace(line), ":") {
		return s.errorf("expected section header, got %q", line)
	}
	return nil
}

// quoted reads a double-quoted field that may span several lines. Lines are
// accumulated until the number of quote characters is even; a doubled quote
// inside the text stands for one literal quote. In long form the key must be
// one of keys.
func (s *scanner) quoted(keys ...string) (string, error) {
	line, err := s.next()
	if err != nil {
		return "", err
	}
	start := s.line

	body := line
	if !s.short {
		key, v, ok := strings.Cut(line, " = ")
		if !ok || !slices.Contains(keys, strings.TrimSpace(key)) {
			return "", s.errorf("expected %s field, got %q", keys[0], line)
		}
		body = v
	}
	body = strings.TrimLeft(body, " \t")
	if !strings.HasPrefix(body, `"`) {
		return "", s.errorf("expected quoted text, got %q", line)
	}

	var buf strings.Builder
	buf.WriteString(body)
	quotes := strings.Count(body, `"`)
	for quotes%2 != 0 {
		next, err := s.readLine()
		if err == io.EOF {
			return "", &FormatError{Line: start, Msg: "unterminated quoted text"}
		}
		if err != nil {
			return "", err
		}
		buf.WriteByte('\n')
		buf.WriteString(next)
		quotes += strings.Count(next, `"`)
	}

	text := strings.TrimRight(buf.String(), " \t")
	if !utf8.ValidString(text) {
		return "", &FormatError{Line: start, Msg: "invalid UTF-8 in quoted text"}
	}
	if len(text) < 2 || !strings.HasSuffix(text, `"`) {
		return "", s.errorf("trailing characters after quoted text")
	}
	return strings.ReplaceAll(text[1:len(text)-1], `""`, `"`), nil
}

// Round rounds v to digits decimal places. A negative digits leaves v as is.
func Round(v float64, digits int) float64 {
	if digits < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
