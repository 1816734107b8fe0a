package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadSRT(t *testing.T) {
	content := "\ufeff" + `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	tmpDir := t.TempDir()
	srtPath := filepath.Join(tmpDir, "test.srt")
	if err := os.WriteFile(srtPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	sub, err := Read(srtPath)
	if err != nil {
		t.Fatalf("failed to read SRT file: %v", err)
	}

	if sub.Format != FormatSRT {
		t.Errorf("expected format SRT, got %s", sub.Format)
	}
	if len(sub.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(sub.Entries))
	}

	if sub.Entries[0].StartTime != 1*time.Second {
		t.Errorf("entry 0: expected start 1s, got %v", sub.Entries[0].StartTime)
	}
	if sub.Entries[0].EndTime != 4*time.Second {
		t.Errorf("entry 0: expected end 4s, got %v", sub.Entries[0].EndTime)
	}
	if sub.Entries[0].Text != "Hello, world!" {
		t.Errorf("entry 0: expected 'Hello, world!', got %q", sub.Entries[0].Text)
	}

	expectedText := "This is a test.\nWith multiple lines."
	if sub.Entries[1].Text != expectedText {
		t.Errorf("entry 1: expected %q, got %q", expectedText, sub.Entries[1].Text)
	}
	if sub.Entries[1].EndTime != 8200*time.Millisecond {
		t.Errorf("entry 1: expected end 8.2s, got %v", sub.Entries[1].EndTime)
	}
}

func TestReadVTT(t *testing.T) {
	content := `WEBVTT

NOTE this block is ignored
00:00:00.000 --> 00:00:00.500

STYLE
::cue { color: yellow }

1
00:00:01.000 --> 00:00:04.000
Hello, world!

2
00:00:05.500 --> 00:00:08.200
This is a test.
With multiple lines.

00:10.000 --> 00:12.500
No cue identifier, no hours.
`
	tmpDir := t.TempDir()
	vttPath := filepath.Join(tmpDir, "test.vtt")
	if err := os.WriteFile(vttPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	sub, err := Read(vttPath)
	if err != nil {
		t.Fatalf("failed to read VTT file: %v", err)
	}

	if sub.Format != FormatVTT {
		t.Errorf("expected format VTT, got %s", sub.Format)
	}
	if len(sub.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(sub.Entries))
	}

	if sub.Entries[0].StartTime != 1*time.Second {
		t.Errorf("entry 0: expected start 1s, got %v", sub.Entries[0].StartTime)
	}
	if sub.Entries[2].StartTime != 10*time.Second {
		t.Errorf("entry 2: expected start 10s, got %v", sub.Entries[2].StartTime)
	}
	if sub.Entries[2].Index != 3 {
		t.Errorf("entry 2: expected index 3, got %d", sub.Entries[2].Index)
	}
}

func TestDecodeSkipsEmptyCues(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:02,000 --> 00:00:03,000\nkept\n"

	sub, err := Decode(strings.NewReader(content), FormatSRT)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sub.Entries) != 1 || sub.Entries[0].Text != "kept" {
		t.Fatalf("expected only the cue with text, got %+v", sub.Entries)
	}
}

func TestDecodeInvalidTimestamp(t *testing.T) {
	content := "1\n00:75:01,000 --> 00:00:02,000\ntext\n"

	_, err := Decode(strings.NewReader(content), FormatSRT)
	if err == nil {
		t.Fatal("expected error for out of range minutes")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in error, got: %v", err)
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	txtPath := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(txtPath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Read(txtPath)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected 'unsupported' in error, got: %v", err)
	}

	if _, err := Read(filepath.Join(tmpDir, "test.ass")); err == nil {
		t.Error("expected error reading ASS")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"srt", FormatSRT},
		{".VTT", FormatVTT},
		{"ssa", FormatASS},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.input, got, tt.want)
		}
	}
	if _, err := ParseFormat("txt"); err == nil {
		t.Error("expected error for txt")
	}
}
