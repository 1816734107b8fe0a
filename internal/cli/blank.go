package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tgfmt/internal/media"
	"github.com/mgpai22/tgfmt/internal/textgrid"
)

var blankCmd = &cobra.Command{
	Use:   "blank [recording]",
	Short: "Create an empty TextGrid spanning a recording",
	Long: `Create a TextGrid with empty tiers whose time domain matches an audio or
video file. The duration is read with ffprobe unless --duration is given.

Examples:
  tgfmt blank interview.wav --interval-tier words --interval-tier phones
  tgfmt blank clip.mp4 --interval-tier text --point-tier events
  tgfmt blank anything.raw --duration 12.5 --interval-tier words`,
	Args: cobra.ExactArgs(1),
	RunE: runBlank,
}

func init() {
	rootCmd.AddCommand(blankCmd)

	blankCmd.Flags().
		StringSlice("interval-tier", []string{"words"}, "Interval tier names, in order")
	blankCmd.Flags().
		StringSlice("point-tier", nil, "Point tier names, added after the interval tiers")
	blankCmd.Flags().
		Float64("duration", 0, "Duration in seconds (skips ffprobe)")
	blankCmd.Flags().Int("precision", textgrid.DefaultPrecision, "Decimal places kept for the duration")
	blankCmd.Flags().String("null", "", "Label of the empty intervals")

	bindConfig(blankCmd, map[string]string{
		"textgrid.precision": "precision",
		"textgrid.null":      "null",
	})
}

func runBlank(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]

	intervalTiers, _ := cmd.Flags().GetStringSlice("interval-tier")
	pointTiers, _ := cmd.Flags().GetStringSlice("point-tier")
	seconds, _ := cmd.Flags().GetFloat64("duration")

	if len(intervalTiers)+len(pointTiers) == 0 {
		return fmt.Errorf("at least one --interval-tier or --point-tier is required")
	}

	if seconds <= 0 {
		if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", mediaPath)
		}
		if !media.IsMediaFile(mediaPath) {
			return fmt.Errorf("unsupported file type: %s (expected audio or video file, or pass --duration)", filepath.Ext(mediaPath))
		}

		d, err := media.Duration(mediaPath)
		if err != nil {
			return fmt.Errorf("failed to get duration: %w", err)
		}
		seconds = d.Seconds()
		logger.Infow("Probed recording", "input", mediaPath, "duration", d.String())
	}

	maxTime := textgrid.Round(seconds, cfg.TextGrid.Precision)
	if maxTime <= 0 {
		return fmt.Errorf("duration %gs rounds to zero", seconds)
	}

	name := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	g := textgrid.New(name, 0, maxTime)

	var tiers []textgrid.Tier
	for _, n := range intervalTiers {
		tiers = append(tiers, textgrid.NewIntervalTier(n, 0, maxTime))
	}
	for _, n := range pointTiers {
		tiers = append(tiers, textgrid.NewPointTier(n, 0, maxTime))
	}
	if err := g.Extend(tiers); err != nil {
		return err
	}

	outPath := outputPath(cmd, mediaPath, ".TextGrid")
	if err := cfg.TextGrid.Writer().WriteFile(outPath, g); err != nil {
		return fmt.Errorf("failed to write TextGrid: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created TextGrid: %s\n", absPath(outPath))
	fmt.Fprintf(cmd.OutOrStdout(), "  Duration: %s\n", formatSeconds(maxTime))
	fmt.Fprintf(cmd.OutOrStdout(), "  Tiers: %s\n", strings.Join(g.TierNames(), ", "))
	return nil
}
