// Package config resolves settings from defaults, an optional
// bandymetrics.yml, BANDYMETRICS_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	DB      string    `mapstructure:"db"`
	Log     LogConfig `mapstructure:"log"`
	Focus   string    `mapstructure:"focus"`
	Barrier float64   `mapstructure:"barrier"`
	Strict  bool      `mapstructure:"strict"`
}

// DefaultDBPath is ~/.bandymetrics/matches.db, or a relative path when the
// home directory cannot be found.
func DefaultDBPath() string {
	home, err := homedir.Dir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".bandymetrics", "matches.db")
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db", DefaultDBPath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("focus", "")
	v.SetDefault("barrier", 0.55)
	v.SetDefault("strict", false)
}

// Read loads the configuration into v and decodes it. An explicit cfgFile
// must exist; otherwise bandymetrics.yml is looked up in the home directory
// and the working directory and is optional.
func Read(v *viper.Viper, cfgFile string) (Config, error) {
	var cfg Config

	SetDefaults(v)
	v.SetEnvPrefix("bandymetrics")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName("bandymetrics")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	// team ids are stored lowercased
	cfg.Focus = strings.ToLower(strings.TrimSpace(cfg.Focus))
	if cfg.Barrier <= 0.5 || cfg.Barrier > 1 {
		return cfg, fmt.Errorf("decode config: barrier %.2f outside (0.5, 1]", cfg.Barrier)
	}
	return cfg, nil
}
