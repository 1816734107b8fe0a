package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mgpai22/tgfmt/internal/textgrid"
)

const shortGrid = `File type = "ooTextFile"
Object class = "TextGrid"

0
2.5
<exists>
1
"IntervalTier"
"words"
0
2.5
2
0
1
"hello"
1.5
2
"world"
`

// resetFlags puts every flag back to its default so commands can run
// more than once in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			def := strings.Trim(f.DefValue, "[]")
			var vals []string
			if def != "" {
				vals = strings.Split(def, ",")
			}
			_ = sv.Replace(vals)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestInfo(t *testing.T) {
	path := writeFile(t, t.TempDir(), "short.TextGrid", shortGrid)

	out, err := execute(t, "info", path)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{
		"TextGrid: short",
		"Domain: 0s - 2.5s",
		`IntervalTier "words": 2 intervals (2 labeled), 0s - 2.5s`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestInfoForcedLongFormFails(t *testing.T) {
	path := writeFile(t, t.TempDir(), "short.TextGrid", shortGrid)

	if _, err := execute(t, "info", path, "--form", "long"); err == nil {
		t.Error("expected error reading short form as long")
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "short.TextGrid", shortGrid)
	outPath := filepath.Join(dir, "out", "long.TextGrid")

	if _, err := execute(t, "convert", path, "-o", outPath, "--null", "<sil>"); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	for _, want := range []string{
		`Object class = "TextGrid"`,
		"        intervals [1]:",
		`text = "hello"`,
		`text = "<sil>"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected output to contain %q", want)
		}
	}

	g, err := textgrid.Read(outPath)
	if err != nil {
		t.Fatalf("failed to read converted file: %v", err)
	}
	// gaps at 1-1.5 and 2-2.5 are filled on write
	tier, ok := g.IntervalTier("words")
	if !ok || tier.Len() != 4 {
		t.Fatalf("expected words tier with 4 intervals, got %v", g)
	}
	if tier.At(1).Mark() != "<sil>" {
		t.Errorf("expected filled gap, got %s", tier.At(1))
	}
}

func TestConvertDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "short.TextGrid", shortGrid)

	if _, err := execute(t, "convert", path); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "short.long.TextGrid")); err != nil {
		t.Errorf("expected default output file: %v", err)
	}
}

func TestMLF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "aligned.mlf", `#!MLF!#
"*/utt1.lab"
0 5000000 h hello
5000000 10000000 ow
10000000 15000000 pau
.
"*/utt2.rec"
0 2000000 y yes
.
`)
	outDir := filepath.Join(dir, "grids")

	out, err := execute(t, "mlf", path, "--out-dir", outDir, "--short-pause", "pau")
	if err != nil {
		t.Fatalf("mlf failed: %v", err)
	}
	if !strings.Contains(out, "Wrote 2 TextGrids") {
		t.Errorf("unexpected output: %s", out)
	}

	g, err := textgrid.Read(filepath.Join(outDir, "utt1.TextGrid"))
	if err != nil {
		t.Fatalf("failed to read utt1: %v", err)
	}
	words, ok := g.IntervalTier("words")
	if !ok {
		t.Fatalf("missing words tier in %v", g.TierNames())
	}
	// hello, then the pause word up to the end
	if words.Len() != 2 || words.At(0).Mark() != "hello" || words.At(1).Mark() != "pau" {
		t.Errorf("unexpected words tier: %s", words)
	}
	if _, err := os.Stat(filepath.Join(outDir, "utt2.TextGrid")); err != nil {
		t.Errorf("expected utt2.TextGrid: %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "short.TextGrid", shortGrid)
	vttPath := filepath.Join(dir, "words.vtt")

	out, err := execute(t, "export", path, "--tier", "words", "-o", vttPath)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Cues: 2") {
		t.Errorf("unexpected output: %s", out)
	}

	data, err := os.ReadFile(vttPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT") {
		t.Errorf("expected WebVTT output, got:\n%s", data)
	}

	gridPath := filepath.Join(dir, "imported.TextGrid")
	if _, err := execute(t, "import", vttPath, "--tier", "text", "--duration", "2.5", "-o", gridPath); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	g, err := textgrid.Read(gridPath)
	if err != nil {
		t.Fatalf("failed to read import: %v", err)
	}
	if _, maxTime := g.Bounds(); maxTime != 2.5 {
		t.Errorf("expected grid end 2.5, got %v", maxTime)
	}
	tier, ok := g.IntervalTier("text")
	if !ok {
		t.Fatalf("missing text tier")
	}
	iv, ok := tier.IntervalContaining(1.75)
	if !ok || iv.Mark() != "world" {
		t.Errorf("expected world at 1.75s, got %v", iv)
	}
}

func TestExportUnknownTier(t *testing.T) {
	path := writeFile(t, t.TempDir(), "short.TextGrid", shortGrid)

	_, err := execute(t, "export", path, "--tier", "phones")
	if err == nil || !strings.Contains(err.Error(), `no interval tier named "phones"`) {
		t.Errorf("expected unknown tier error, got %v", err)
	}
}

func TestImportDurationTooShort(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cues.srt", "1\n00:00:01,000 --> 00:00:04,000\nhi\n")

	if _, err := execute(t, "import", path, "--duration", "2"); err == nil {
		t.Error("expected error when cues run past --duration")
	}
}

func TestBlankWithDuration(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "blank.TextGrid")

	_, err := execute(t, "blank", filepath.Join(dir, "missing.wav"),
		"--duration", "3.2",
		"--interval-tier", "words,phones",
		"--point-tier", "events",
		"-o", outPath,
	)
	if err != nil {
		t.Fatalf("blank failed: %v", err)
	}

	g, err := textgrid.Read(outPath)
	if err != nil {
		t.Fatalf("failed to read blank grid: %v", err)
	}
	got := strings.Join(g.TierNames(), ",")
	if got != "words,phones,events" {
		t.Errorf("expected tiers words,phones,events, got %s", got)
	}
	if _, maxTime := g.Bounds(); maxTime != 3.2 {
		t.Errorf("expected end 3.2, got %v", maxTime)
	}
}

func TestBlankRejectsNonMedia(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "x")

	_, err := execute(t, "blank", path)
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("expected unsupported file type error, got %v", err)
	}
}

func TestGlossRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := writeFile(t, t.TempDir(), "short.TextGrid", shortGrid)

	_, err := execute(t, "gloss", path, "-t", "french")
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("expected missing API key error, got %v", err)
	}
}

func TestGlossRejectsSameLanguage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "short.TextGrid", shortGrid)

	_, err := execute(t, "gloss", path, "-t", "English", "-l", "english", "-k", "fake-key")
	if err == nil || !strings.Contains(err.Error(), "cannot be the same") {
		t.Errorf("expected same language error, got %v", err)
	}
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "short.TextGrid", shortGrid)
	cfgPath := writeFile(t, dir, "tgfmt.toml", "[textgrid]\nnull = \"#\"\n")
	outPath := filepath.Join(dir, "out.TextGrid")

	if _, err := execute(t, "convert", path, "--config", cfgPath, "-o", outPath); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), `text = "#"`) {
		t.Errorf("expected configured null label in output:\n%s", data)
	}
}

func TestLicense(t *testing.T) {
	out, err := execute(t, "license")
	if err != nil {
		t.Fatalf("license failed: %v", err)
	}
	if !strings.Contains(out, "MIT License") {
		t.Errorf("expected license text, got %q", out)
	}
}
