package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/tgfmt/internal/config"
	"github.com/mgpai22/tgfmt/internal/logging"
	"github.com/mgpai22/tgfmt/internal/textgrid"
)

var (
	verbose bool
	cfgFile string
	logger  = logging.Nop()
	cfg     *config.Config
)

// configFlags maps a command name to the config keys its flags override.
var configFlags = map[string]map[string]string{}

var rootCmd = &cobra.Command{
	Use:   "tgfmt",
	Short: "Read, convert and write Praat TextGrids and HTK label files",
	Long: `tgfmt works with time-aligned speech annotations.

It reads Praat TextGrids in long or short text form and any common encoding,
splits HTK master label files into one TextGrid per utterance, and moves
interval tiers to and from subtitle formats.

Settings come from tgfmt.toml, TGFMT_* environment variables and flags, in
increasing order of precedence.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command; an interrupt cancels in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "Config file (default ./tgfmt.toml)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Log JSON lines instead of text")
}

// bindConfig registers the flags of cmd that override config keys.
func bindConfig(cmd *cobra.Command, bindings map[string]string) {
	configFlags[cmd.Name()] = bindings
}

func setup(cmd *cobra.Command, args []string) error {
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}

	bindings := map[string]string{"log.json": "json-log"}
	for key, flag := range configFlags[cmd.Name()] {
		bindings[key] = flag
	}
	if err := config.BindFlags(v, cmd.Flags(), bindings); err != nil {
		return err
	}

	cfg, err = config.Load(v)
	if err != nil {
		return err
	}

	if cfg.Log.JSON {
		logger = logging.NewJSONLogger(verbose)
	} else {
		logger = logging.NewLogger(verbose)
	}
	textgrid.SetLogger(logger.SugaredLogger)
	return nil
}

// outputPath returns --output, or input with its extension replaced by suffix.
func outputPath(cmd *cobra.Command, input, suffix string) string {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return out
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

func readOptions() (textgrid.ReadOptions, error) {
	opts, err := cfg.TextGrid.ReadOptions()
	if err != nil {
		return opts, fmt.Errorf("invalid read options: %w", err)
	}
	return opts, nil
}

// loadGrid reads a TextGrid, wrapping a freestanding tier file in a grid
// of its own.
func loadGrid(path string) (*textgrid.TextGrid, error) {
	opts, err := readOptions()
	if err != nil {
		return nil, err
	}

	obj, err := textgrid.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read TextGrid: %w", err)
	}

	switch o := obj.(type) {
	case *textgrid.TextGrid:
		return o, nil
	case textgrid.Tier:
		g := textgrid.New(o.Name(), o.MinTime(), o.MaxTime())
		g.SetStrict(opts.Strict)
		if err := g.Append(o); err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported object %s", obj.Class())
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
