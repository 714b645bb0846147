// Package config loads torat settings from defaults, an optional YAML file,
// TORAT_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default values.
const (
	DefaultOutput   = "out.txt"
	DefaultInput    = "target.txt"
	DefaultState    = "ME"
	DefaultDatabase = "data.csv"
	DefaultSQLite   = "routing.db"
	DefaultAddr     = ":8080"
	DefaultLogLevel = "warn"

	// FileName is looked up in the working directory when no config file
	// is given explicitly.
	FileName = "torat.yaml"

	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "TORAT_"
)

// Config holds every setting shared by the torat commands.
type Config struct {
	Output   string `koanf:"output"`
	Input    string `koanf:"input"`
	State    string `koanf:"state"`
	Database string `koanf:"database"`
	SQLite   string `koanf:"sqlite"`
	Addr     string `koanf:"addr"`
	LogLevel string `koanf:"log_level"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"output":    DefaultOutput,
		"input":     DefaultInput,
		"state":     DefaultState,
		"database":  DefaultDatabase,
		"sqlite":    DefaultSQLite,
		"addr":      DefaultAddr,
		"log_level": DefaultLogLevel,
	}
}

// Load builds a Config. Precedence (highest to lowest):
// flags > env vars > config file > defaults.
//
// cfgFile may be empty, in which case TORAT_CONFIG and then ./torat.yaml
// are tried. flags may be nil; only flags that were explicitly set are used.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	return LoadWithDefaults(cfgFile, flags, nil)
}

// LoadWithDefaults is Load with some built-in defaults replaced, for
// commands whose defaults differ from the CLI's.
func LoadWithDefaults(cfgFile string, flags *pflag.FlagSet, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	for key, val := range overrides {
		defaults[key] = val
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// TORAT_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	return &cfg, nil
}

// findConfigFile picks the config file to read.
// Priority: explicit path > TORAT_CONFIG > ./torat.yaml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	return ""
}
