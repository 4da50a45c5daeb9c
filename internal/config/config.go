// Package config loads grimpctl's settings from .grimp.yaml, with a
// .env overlay for secrets and opt-outs layered on top via godotenv,
// and the YAML side merged with defaults via spf13/viper.
package config

import (
	"runtime"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds grimpctl's resolved runtime settings.
type Config struct {
	CacheDir         string `mapstructure:"cache_dir"`
	Workers          int    `mapstructure:"workers"`
	DisableTelemetry bool   `mapstructure:"disable_telemetry"`
	DefaultFormat    string `mapstructure:"default_format"`
	IncludeExternal  bool   `mapstructure:"include_external_packages"`
}

// Default returns the zero-config baseline used when no config file
// is present.
func Default() Config {
	return Config{
		CacheDir:      ".grimp_cache",
		Workers:       runtime.NumCPU(),
		DefaultFormat: "text",
	}
}

// Load reads .env (if present, via godotenv, for telemetry opt-out
// and secrets) then .grimp.yaml (if present, via viper) layered over
// Default, returning the merged Config.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GRIMP")
	v.AutomaticEnv()
	v.SetDefault("cache_dir", cfg.CacheDir)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("disable_telemetry", cfg.DisableTelemetry)
	v.SetDefault("default_format", cfg.DefaultFormat)
	v.SetDefault("include_external_packages", cfg.IncludeExternal)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".grimp")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, errors.Wrapf(err, "read config %s", configPath)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}
