package textgrid

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding is the character encoding of a Praat text file.
type Encoding string

const (
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingUTF16BE Encoding = "utf-16be"
	EncodingUTF8BOM Encoding = "utf-8-sig"
	EncodingASCII   Encoding = "ascii"
	// UTF-8 without a byte order mark; ASCII files that only leave the ASCII
	// range after the first line are decoded the same way
	EncodingUTF8 Encoding = "utf-8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding probes the start of a file in a fixed order: UTF-16 (by
// byte order mark or NUL byte layout), UTF-8 with byte order mark, ASCII and
// finally plain UTF-8. Only the first line decides.
func DetectEncoding(head []byte) (Encoding, error) {
	switch {
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}):
		return EncodingUTF16LE, nil
	case bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		return EncodingUTF16BE, nil
	case len(head) >= 2 && head[0] != 0 && head[1] == 0:
		return EncodingUTF16LE, nil
	case len(head) >= 2 && head[0] == 0 && head[1] != 0:
		return EncodingUTF16BE, nil
	}

	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}

	if bytes.HasPrefix(line, utf8BOM) {
		if validUTF8Prefix(line[len(utf8BOM):]) {
			return EncodingUTF8BOM, nil
		}
		return "", &FormatError{Line: 1, Msg: "invalid UTF-8 after byte order mark"}
	}
	if isASCII(line) {
		return EncodingASCII, nil
	}
	if validUTF8Prefix(line) {
		return EncodingUTF8, nil
	}
	return "", &FormatError{Line: 1, Msg: "unrecognised text encoding"}
}

// NewReader returns r decoded to UTF-8 with any byte order mark removed.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	switch e {
	case EncodingUTF16LE:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	case EncodingUTF16BE:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	case EncodingUTF8BOM:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	default:
		return r
	}
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// validUTF8Prefix tolerates a rune cut off by the end of the probe window.
func validUTF8Prefix(b []byte) bool {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return !utf8.FullRune(b)
		}
		b = b[size:]
	}
	return true
}
