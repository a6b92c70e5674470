package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmeg/inventory/util"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultRoot      = "data/webfiles-samples"
	DefaultOutput    = "file-manifest.csv"
	DefaultAlgorithm = "md5"
	EnvPrefix        = "INVENTORY"
)

// Config holds the settings of a build run. Values are layered by viper:
// defaults, then the config file, then INVENTORY_* environment variables,
// then flags set on the command line.
type Config struct {
	Root      string   `mapstructure:"root"`
	Output    string   `mapstructure:"output"`
	Algorithm string   `mapstructure:"algorithm"`
	Exclude   []string `mapstructure:"-"`
	Verbose   bool     `mapstructure:"verbose"`
	JSONLog   bool     `mapstructure:"json-log"`
}

// Load reads configuration from configPath, or from ./inventory.yaml when
// configPath is empty and that file exists. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("inventory")
		v.SetConfigType("yaml")
	}

	v.SetDefault("root", DefaultRoot)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("algorithm", DefaultAlgorithm)
	v.SetDefault("exclude", []string{})
	v.SetDefault("verbose", false)
	v.SetDefault("json-log", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, name := range []string{"root", "output", "algorithm", "verbose", "json-log"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	ex, err := excludePatterns(v, flags)
	if err != nil {
		return nil, err
	}
	cfg.Exclude = ex

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// excludePatterns resolves the exclude list without viper's comma
// splitting, since brace patterns like *.{tmp,bak} contain commas. The
// environment variable holds a list joined by os.PathListSeparator.
func excludePatterns(v *viper.Viper, flags *pflag.FlagSet) ([]string, error) {
	if flags != nil && flags.Changed("exclude") {
		return flags.GetStringArray("exclude")
	}
	if val, ok := os.LookupEnv(EnvPrefix + "_EXCLUDE"); ok {
		return nonEmpty(filepath.SplitList(val)), nil
	}
	if s, ok := v.Get("exclude").(string); ok {
		return nonEmpty([]string{s}), nil
	}
	return nonEmpty(v.GetStringSlice("exclude")), nil
}

func nonEmpty(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate normalizes the algorithm name and rejects empty paths.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root cannot be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output cannot be empty")
	}
	name, err := util.ValidateAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}
	c.Algorithm = name
	return nil
}
