package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tgfmt/internal/subtitle"
	"github.com/mgpai22/tgfmt/internal/textgrid"
)

var importCmd = &cobra.Command{
	Use:   "import [file.srt|file.vtt]",
	Short: "Build a TextGrid from a subtitle file",
	Long: `Turn the cues of an SRT or WebVTT file into one interval tier. Gaps
between cues become unlabeled intervals when the TextGrid is written.

Examples:
  tgfmt import lecture.srt
  tgfmt import lecture.vtt --tier utterances --duration 3600
  tgfmt import messy.srt --strict=false`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("tier", "t", "text", "Name of the interval tier")
	importCmd.Flags().Float64("duration", 0, "Grid end in seconds (default: end of the last cue)")
	importCmd.Flags().Bool("strict", true, "Fail on overlapping cues instead of warning")
	importCmd.Flags().String("null", "", "Label for intervals that fill gaps")

	bindConfig(importCmd, map[string]string{
		"textgrid.strict": "strict",
		"textgrid.null":   "null",
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	tierName, _ := cmd.Flags().GetString("tier")
	duration, _ := cmd.Flags().GetFloat64("duration")
	if duration < 0 {
		return fmt.Errorf("duration must not be negative, got %g", duration)
	}

	outPath := outputPath(cmd, inputPath, ".TextGrid")
	strict := cfg.TextGrid.Strict

	sub, err := subtitle.Read(inputPath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(sub.Entries) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	logger.Infow("Parsed subtitle file",
		"entries", len(sub.Entries),
		"format", string(sub.Format),
	)

	tier, err := subtitle.NewConverter().ToTier(sub, tierName, strict)
	if err != nil {
		return fmt.Errorf("failed to build tier: %w", err)
	}

	maxTime := textgrid.Unbounded
	if duration > 0 {
		if _, end := tier.Bounds(); end > duration {
			return fmt.Errorf("last cue ends at %gs, after --duration %gs", end, duration)
		}
		maxTime = duration
	}
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	g := textgrid.New(name, 0, maxTime)
	g.SetStrict(strict)
	if err := g.Append(tier); err != nil {
		return fmt.Errorf("cues do not fit the grid: %w", err)
	}

	if err := cfg.TextGrid.Writer().WriteFile(outPath, g); err != nil {
		return fmt.Errorf("failed to write TextGrid: %w", err)
	}

	_, end := g.Bounds()
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %s\n", sub.Format, absPath(outPath))
	fmt.Fprintf(cmd.OutOrStdout(), "  Intervals: %d\n", tier.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "  Duration: %s\n", formatSeconds(end))
	return nil
}
