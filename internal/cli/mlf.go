package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tgfmt/internal/mlf"
)

var mlfCmd = &cobra.Command{
	Use:   "mlf [file.mlf]",
	Short: "Split an HTK master label file into TextGrids",
	Long: `Convert every utterance of an HTK master label file into a TextGrid with
a phone tier and a word tier. Each TextGrid is named after its utterance.

Examples:
  tgfmt mlf aligned.mlf --out-dir grids
  tgfmt mlf aligned.mlf --short-pause sil --word-tier orth`,
	Args: cobra.ExactArgs(1),
	RunE: runMLF,
}

func init() {
	rootCmd.AddCommand(mlfCmd)

	mlfCmd.Flags().StringP("out-dir", "d", "", "Directory for the TextGrids (default: next to the MLF)")
	mlfCmd.Flags().Float64("sample-rate", 10e6, "Time units per second in the label file")
	mlfCmd.Flags().Int("precision", 5, "Decimal places kept for times")
	mlfCmd.Flags().String("short-pause", "sp", "Label of the inter-word short pause")
	mlfCmd.Flags().String("phone-tier", "phones", "Name of the phone tier")
	mlfCmd.Flags().String("word-tier", "words", "Name of the word tier")
	mlfCmd.Flags().String("null", "", "Label for intervals that fill gaps")

	bindConfig(mlfCmd, map[string]string{
		"mlf.sample_rate": "sample-rate",
		"mlf.precision":   "precision",
		"mlf.short_pause": "short-pause",
		"mlf.phone_tier":  "phone-tier",
		"mlf.word_tier":   "word-tier",
		"textgrid.null":   "null",
	})
}

func runMLF(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = filepath.Dir(inputPath)
	}

	opts := cfg.MLF.Options()

	logger.Infow("Reading label file",
		"input", inputPath,
		"out_dir", outDir,
		"sample_rate", opts.SampleRate,
		"short_pause", opts.ShortPause,
	)

	m, err := mlf.Read(inputPath, opts)
	if err != nil {
		return fmt.Errorf("failed to read label file: %w", err)
	}

	logger.Infow("Parsed label file", "utterances", m.Len())

	n, err := m.Write(outDir, cfg.TextGrid.Writer())
	if err != nil {
		return fmt.Errorf("failed to write TextGrids: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d TextGrids to %s\n", n, absPath(outDir))
	return nil
}
