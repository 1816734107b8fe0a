package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("textgrid.precision", 5)
	v.SetDefault("textgrid.null", "")
	v.SetDefault("textgrid.strict", true)
	v.SetDefault("textgrid.form", "auto")

	v.SetDefault("mlf.sample_rate", 10e6) // HTK 100ns units
	v.SetDefault("mlf.precision", 5)
	v.SetDefault("mlf.short_pause", "sp")
	v.SetDefault("mlf.phone_tier", "phones")
	v.SetDefault("mlf.word_tier", "words")

	v.SetDefault("gloss.provider", "gemini")
	v.SetDefault("gloss.model", "")
	v.SetDefault("gloss.source_language", "")
	v.SetDefault("gloss.concurrency", 3)
	v.SetDefault("gloss.batch_size", 50)

	v.SetDefault("log.json", false)
}

// New builds a viper instance with defaults, the environment and the config
// file at path. An empty path reads tgfmt.toml from the working directory
// when one exists; an explicit path must exist.
func New(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix("TGFMT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if path == "" {
		if _, err := os.Stat(FileName); err != nil {
			return v, nil
		}
		path = FileName
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return v, nil
}

// BindFlags binds each key to the named flag of fs. Flags that are not
// defined on fs are skipped.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load unmarshals and validates v.
func Load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}
