package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tgfmt/internal/gloss"
	"github.com/mgpai22/tgfmt/internal/textgrid"
)

var glossCmd = &cobra.Command{
	Use:   "gloss [file.TextGrid]",
	Short: "Translate a tier's labels into a new parallel tier",
	Long: `Gloss every labeled interval (or point) of a tier with an LLM and add the
glosses to the TextGrid as a new tier with the same boundaries. The source
tier is left untouched.

Labels are sent in batches; --concurrency batches run at once.

Examples:
  tgfmt gloss session1.TextGrid --tier words -t english
  tgfmt gloss session1.TextGrid --tier words -t de --provider anthropic
  tgfmt gloss session1.TextGrid --tier words -t ja --provider openai --name words-ja -o glossed.TextGrid`,
	Args: cobra.ExactArgs(1),
	RunE: runGloss,
}

func init() {
	rootCmd.AddCommand(glossCmd)

	glossCmd.Flags().String("tier", "", "Tier to gloss (default: first interval tier)")
	glossCmd.Flags().
		StringP("target-language", "t", "", "Language of the glosses (required)")
	glossCmd.Flags().
		StringP("source-language", "l", "", "Language of the labels (optional)")
	glossCmd.Flags().String("name", "", "Name of the new tier (default: <tier>-<target-language>)")
	glossCmd.Flags().String("prompt", "", "Extra instructions for the model")
	glossCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	glossCmd.Flags().
		String("provider", "gemini", "Gloss provider (gemini, openai, anthropic)")
	glossCmd.Flags().
		String("model", "", "Model to use (provider-specific, uses sensible defaults)")
	glossCmd.Flags().
		Int("concurrency", gloss.DefaultConcurrency, "Number of parallel requests")
	glossCmd.Flags().
		Int("batch-size", gloss.DefaultBatchSize, "Number of labels per API request")
	glossCmd.Flags().String("null", "", "Label for intervals that fill gaps")

	_ = glossCmd.MarkFlagRequired("target-language")

	bindConfig(glossCmd, map[string]string{
		"gloss.provider":        "provider",
		"gloss.model":           "model",
		"gloss.source_language": "source-language",
		"gloss.concurrency":     "concurrency",
		"gloss.batch_size":      "batch-size",
		"textgrid.null":         "null",
	})
}

func runGloss(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	tierName, _ := cmd.Flags().GetString("tier")
	targetLang, _ := cmd.Flags().GetString("target-language")
	newName, _ := cmd.Flags().GetString("name")
	prompt, _ := cmd.Flags().GetString("prompt")
	apiKey, _ := cmd.Flags().GetString("api-key")

	if strings.TrimSpace(targetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	sourceLang := cfg.Gloss.SourceLanguage
	if sourceLang != "" && strings.EqualFold(strings.TrimSpace(sourceLang), strings.TrimSpace(targetLang)) {
		return fmt.Errorf(
			"source language %q and target language %q cannot be the same",
			sourceLang,
			targetLang,
		)
	}

	provider, err := gloss.ParseProvider(cfg.Gloss.Provider)
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = os.Getenv(provider.APIKeyEnv())
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			provider.APIKeyEnv(),
		)
	}

	g, err := loadGrid(inputPath)
	if err != nil {
		return err
	}

	source, err := findGlossTier(g, tierName)
	if err != nil {
		return err
	}
	if newName == "" {
		newName = source.Name() + "-" + strings.ToLower(strings.ReplaceAll(strings.TrimSpace(targetLang), " ", "-"))
	}

	outPath := outputPath(cmd, inputPath, "."+strings.ToLower(targetLang)+".TextGrid")

	glosser, err := gloss.Factory(cmd.Context(), provider, apiKey, gloss.Options{
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Model:          cfg.Gloss.Model,
		Prompt:         prompt,
		BatchSize:      cfg.Gloss.BatchSize,
		Concurrency:    cfg.Gloss.Concurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to create glosser: %w", err)
	}

	logger.Infow("Glossing tier",
		"input", inputPath,
		"tier", source.Name(),
		"labels", source.Len(),
		"provider", string(provider),
		"target_language", targetLang,
		"concurrency", cfg.Gloss.Concurrency,
	)

	var glossed textgrid.Tier
	switch t := source.(type) {
	case *textgrid.IntervalTier:
		glossed, err = gloss.GlossTier(cmd.Context(), glosser, t, newName)
	case *textgrid.PointTier:
		glossed, err = gloss.GlossPointTier(cmd.Context(), glosser, t, newName)
	}
	if err != nil {
		return fmt.Errorf("gloss failed: %w", err)
	}

	if err := g.Append(glossed); err != nil {
		return fmt.Errorf("failed to add tier: %w", err)
	}

	if err := cfg.TextGrid.Writer().WriteFile(outPath, g); err != nil {
		return fmt.Errorf("failed to write TextGrid: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Glossed tier %q as %q: %s\n", source.Name(), newName, absPath(outPath))
	fmt.Fprintf(cmd.OutOrStdout(), "  Labels: %d\n", glossed.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "  Target language: %s\n", targetLang)
	return nil
}

func findGlossTier(g *textgrid.TextGrid, name string) (textgrid.Tier, error) {
	if name == "" {
		t, err := findIntervalTier(g, "")
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	t, ok := g.FirstTier(name)
	if !ok {
		return nil, fmt.Errorf("no tier named %q (tiers: %v)", name, g.TierNames())
	}
	return t, nil
}
