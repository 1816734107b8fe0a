package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tgfmt/internal/textgrid"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Rewrite a TextGrid in normalized long form",
	Long: `Read a TextGrid or tier file in any text form and encoding and write it
back as UTF-8 long form, with every tier stretched to the grid's end and
unlabeled gaps filled.

Examples:
  tgfmt convert short.TextGrid -o long.TextGrid
  tgfmt convert utf16.TextGrid --precision 3 --null "<sil>"`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().Int("precision", textgrid.DefaultPrecision, "Decimal places kept for times (negative keeps all)")
	convertCmd.Flags().String("null", "", "Label for intervals that fill gaps")
	convertCmd.Flags().String("form", "auto", "Text form to expect (auto, long, short)")
	convertCmd.Flags().Bool("strict", true, "Fail on overlapping intervals instead of warning")

	bindConfig(convertCmd, map[string]string{
		"textgrid.precision": "precision",
		"textgrid.null":      "null",
		"textgrid.form":      "form",
		"textgrid.strict":    "strict",
	})
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outPath := outputPath(cmd, inputPath, ".long.TextGrid")

	opts, err := readOptions()
	if err != nil {
		return err
	}

	logger.Infow("Converting",
		"input", inputPath,
		"output", outPath,
		"form", opts.Form.String(),
		"precision", opts.Precision,
	)

	obj, err := textgrid.Open(inputPath, opts)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	if err := cfg.TextGrid.Writer().WriteFile(outPath, obj); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s: %s\n", obj.Class(), absPath(outPath))
	return nil
}
