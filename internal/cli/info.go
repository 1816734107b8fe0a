package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tgfmt/internal/textgrid"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Describe a TextGrid or tier file",
	Long: `Print the class, time domain and tiers of a Praat text object.

Long and short text forms are both accepted, in UTF-8 or UTF-16.

Examples:
  tgfmt info session1.TextGrid
  tgfmt info words.IntervalTier --form short`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().String("form", "auto", "Text form to expect (auto, long, short)")
	infoCmd.Flags().Bool("strict", true, "Fail on overlapping intervals instead of warning")

	bindConfig(infoCmd, map[string]string{
		"textgrid.form":   "form",
		"textgrid.strict": "strict",
	})
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	opts, err := readOptions()
	if err != nil {
		return err
	}

	obj, err := textgrid.Open(path, opts)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	switch o := obj.(type) {
	case *textgrid.TextGrid:
		minTime, maxTime := o.Bounds()
		fmt.Fprintf(out, "%s: %s\n", o.Class(), o.Name)
		fmt.Fprintf(out, "  Domain: %s - %s\n", formatSeconds(minTime), formatSeconds(maxTime))
		fmt.Fprintf(out, "  Tiers: %d\n", o.Len())
		for i, t := range o.Tiers() {
			fmt.Fprintf(out, "  [%d] ", i+1)
			describeTier(out, t)
		}
	case textgrid.Tier:
		describeTier(out, o)
	}

	return nil
}

func describeTier(out io.Writer, t textgrid.Tier) {
	minTime, maxTime := t.Bounds()
	unit := "intervals"
	if t.Class() == textgrid.ClassTextTier {
		unit = "points"
	}

	labeled := 0
	for _, m := range t.Marks() {
		if m.Mark() != "" {
			labeled++
		}
	}

	fmt.Fprintf(out, "%s %q: %d %s (%d labeled), %s - %s\n",
		t.Class(),
		t.Name(),
		t.Len(),
		unit,
		labeled,
		formatSeconds(minTime),
		formatSeconds(maxTime),
	)
}

func formatSeconds(v float64) string {
	if math.IsInf(v, 1) {
		return "open"
	}
	return fmt.Sprintf("%gs", v)
}
