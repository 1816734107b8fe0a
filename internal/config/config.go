// Package config layers tgfmt settings: defaults, then tgfmt.toml, then
// TGFMT_* environment variables, then command-line flags.
package config

import (
	"fmt"

	"github.com/mgpai22/tgfmt/internal/mlf"
	"github.com/mgpai22/tgfmt/internal/textgrid"
)

// FileName is looked up in the working directory when no path is given.
const FileName = "tgfmt.toml"

type Config struct {
	TextGrid TextGridConfig `mapstructure:"textgrid"`
	MLF      MLFConfig      `mapstructure:"mlf"`
	Gloss    GlossConfig    `mapstructure:"gloss"`
	Log      LogConfig      `mapstructure:"log"`
}

type TextGridConfig struct {
	Precision int    `mapstructure:"precision"`
	Null      string `mapstructure:"null"`
	Strict    bool   `mapstructure:"strict"`
	Form      string `mapstructure:"form"`
}

type MLFConfig struct {
	SampleRate float64 `mapstructure:"sample_rate"`
	Precision  int     `mapstructure:"precision"`
	ShortPause string  `mapstructure:"short_pause"`
	PhoneTier  string  `mapstructure:"phone_tier"`
	WordTier   string  `mapstructure:"word_tier"`
}

type GlossConfig struct {
	Provider       string `mapstructure:"provider"`
	Model          string `mapstructure:"model"`
	SourceLanguage string `mapstructure:"source_language"`
	Concurrency    int    `mapstructure:"concurrency"`
	BatchSize      int    `mapstructure:"batch_size"`
}

type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// ReadOptions converts the textgrid section for the reader.
func (c TextGridConfig) ReadOptions() (textgrid.ReadOptions, error) {
	form, err := textgrid.ParseForm(c.Form)
	if err != nil {
		return textgrid.ReadOptions{}, err
	}
	return textgrid.ReadOptions{
		Precision: c.Precision,
		Form:      form,
		Strict:    c.Strict,
	}, nil
}

func (c TextGridConfig) Writer() *textgrid.Writer {
	return &textgrid.Writer{Null: c.Null}
}

func (c MLFConfig) Options() mlf.Options {
	return mlf.Options{
		SampleRate: c.SampleRate,
		Precision:  c.Precision,
		ShortPause: c.ShortPause,
		PhoneTier:  c.PhoneTier,
		WordTier:   c.WordTier,
	}
}

// Validate rejects settings no command could run with.
func (c *Config) Validate() error {
	if _, err := textgrid.ParseForm(c.TextGrid.Form); err != nil {
		return fmt.Errorf("textgrid.form: %w", err)
	}
	if c.MLF.SampleRate <= 0 {
		return fmt.Errorf("mlf.sample_rate must be positive, got %g", c.MLF.SampleRate)
	}
	if c.MLF.PhoneTier == "" || c.MLF.WordTier == "" {
		return fmt.Errorf("mlf.phone_tier and mlf.word_tier cannot be empty")
	}
	if c.Gloss.Concurrency < 1 {
		return fmt.Errorf("gloss.concurrency must be >= 1, got %d", c.Gloss.Concurrency)
	}
	if c.Gloss.BatchSize < 1 {
		return fmt.Errorf("gloss.batch_size must be >= 1, got %d", c.Gloss.BatchSize)
	}
	return nil
}
