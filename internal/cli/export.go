package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tgfmt/internal/subtitle"
	"github.com/mgpai22/tgfmt/internal/textgrid"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.TextGrid]",
	Short: "Write an interval tier as subtitles",
	Long: `Export one interval tier of a TextGrid as SRT, VTT or ASS. Every labeled
interval becomes one cue with the same start and end.

The format comes from --format, or from the --output extension when
--format is not given.

Examples:
  tgfmt export session1.TextGrid --tier words
  tgfmt export session1.TextGrid -o session1.vtt
  tgfmt export session1.TextGrid --format ass --max-chars 0`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("tier", "t", "", "Interval tier to export (default: first interval tier)")
	exportCmd.Flags().StringP("format", "f", "", "Subtitle format (srt, vtt, ass)")
	exportCmd.Flags().Bool("keep-empty", false, "Export unlabeled intervals as empty cues")
	exportCmd.Flags().Int("max-chars", 42, "Wrap marks longer than this onto two lines (0 disables)")
	exportCmd.Flags().Bool("strict", true, "Fail on overlapping intervals instead of warning")

	bindConfig(exportCmd, map[string]string{
		"textgrid.strict": "strict",
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	tierName, _ := cmd.Flags().GetString("tier")
	formatStr, _ := cmd.Flags().GetString("format")
	keepEmpty, _ := cmd.Flags().GetBool("keep-empty")
	maxChars, _ := cmd.Flags().GetInt("max-chars")
	output, _ := cmd.Flags().GetString("output")

	if maxChars < 0 {
		return fmt.Errorf("max-chars must not be negative, got %d", maxChars)
	}

	var format subtitle.Format
	var err error
	switch {
	case formatStr != "":
		format, err = subtitle.ParseFormat(formatStr)
	case output != "":
		format, err = subtitle.FormatFromPath(output)
	default:
		format = subtitle.FormatSRT
	}
	if err != nil {
		return err
	}

	outPath := outputPath(cmd, inputPath, subtitle.ExtensionForFormat(format))

	g, err := loadGrid(inputPath)
	if err != nil {
		return err
	}

	tier, err := findIntervalTier(g, tierName)
	if err != nil {
		return err
	}

	logger.Infow("Exporting tier",
		"input", inputPath,
		"tier", tier.Name(),
		"format", string(format),
		"output", outPath,
	)

	conv := &subtitle.Converter{MaxCharsPerLine: maxChars, KeepEmpty: keepEmpty}
	sub := conv.FromTier(tier, format)
	if len(sub.Entries) == 0 {
		logger.Warnw("Tier has no labeled intervals", "tier", tier.Name())
	}

	if err := subtitle.WriteFile(sub, outPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported tier %q: %s\n", tier.Name(), absPath(outPath))
	fmt.Fprintf(cmd.OutOrStdout(), "  Cues: %d\n", len(sub.Entries))
	return nil
}

// findIntervalTier returns the first interval tier named name, or the first
// interval tier at all when name is empty.
func findIntervalTier(g *textgrid.TextGrid, name string) (*textgrid.IntervalTier, error) {
	if name != "" {
		tier, ok := g.IntervalTier(name)
		if !ok {
			return nil, fmt.Errorf("no interval tier named %q (tiers: %v)", name, g.TierNames())
		}
		return tier, nil
	}
	for _, t := range g.Tiers() {
		if tier, ok := t.(*textgrid.IntervalTier); ok {
			return tier, nil
		}
	}
	return nil, fmt.Errorf("%s has no interval tier", g.Name)
}
