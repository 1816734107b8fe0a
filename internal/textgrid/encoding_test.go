package textgrid

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func encodeUTF16(t *testing.T, endian unicode.Endianness, bom unicode.BOMPolicy, s string) []byte {
	t.Helper()
	out, err := unicode.UTF16(endian, bom).NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestDetectEncoding(t *testing.T) {
	header := "File type = \"ooTextFile\"\n"

	tests := []struct {
		name string
		head []byte
		want Encoding
	}{
		{"ascii", []byte(header), EncodingASCII},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, header...), EncodingUTF8BOM},
		{"utf8", []byte("File type = \"ooTextFile\" ñ\n"), EncodingUTF8},
		{"utf8 cut mid rune", []byte("File ñ")[:6], EncodingUTF8},
		{"utf16le bom", encodeUTF16(t, unicode.LittleEndian, unicode.UseBOM, header), EncodingUTF16LE},
		{"utf16be bom", encodeUTF16(t, unicode.BigEndian, unicode.UseBOM, header), EncodingUTF16BE},
		{"utf16le bare", encodeUTF16(t, unicode.LittleEndian, unicode.IgnoreBOM, header), EncodingUTF16LE},
		{"utf16be bare", encodeUTF16(t, unicode.BigEndian, unicode.IgnoreBOM, header), EncodingUTF16BE},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectEncoding(tc.head)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectEncodingRejectsBinary(t *testing.T) {
	_, err := DetectEncoding([]byte{'F', 0xC3, 0x28, '\n'})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestEncodingNewReader(t *testing.T) {
	raw := encodeUTF16(t, unicode.LittleEndian, unicode.UseBOM, "héllo\n")

	enc, err := DetectEncoding(raw)
	require.NoError(t, err)

	decoded, err := io.ReadAll(enc.NewReader(strings.NewReader(string(raw))))
	require.NoError(t, err)
	assert.Equal(t, "héllo\n", string(decoded))

	bom := append([]byte{0xEF, 0xBB, 0xBF}, "abc"...)
	decoded, err = io.ReadAll(EncodingUTF8BOM.NewReader(strings.NewReader(string(bom))))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(decoded))
}
