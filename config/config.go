// Package config loads statement settings from a file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/aerissecure/statement"
	"github.com/aerissecure/statement/grid"
	"github.com/aerissecure/statement/workbook"
)

// EnvPrefix prefixes every environment override, e.g. STATEMENT_SERVER_ADDR.
const EnvPrefix = "STATEMENT"

// Config is the settings shared by the CLI and the server.
type Config struct {
	Company   string `mapstructure:"company"`
	OriginRow int    `mapstructure:"origin_row"`
	Gap       int    `mapstructure:"gap"`    // 0 selects the default, negative means no gap
	Engine    string `mapstructure:"engine"` // xlsx or excelize
	LogLevel  string `mapstructure:"log_level"`
	Server    Server `mapstructure:"server"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// Load reads path, or statement.yaml in the working directory when path is
// empty, and applies STATEMENT_* environment overrides. A missing default
// file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("company", "")
	v.SetDefault("origin_row", statement.DefaultOrigin.Row)
	v.SetDefault("gap", statement.DefaultGap)
	v.SetDefault("engine", string(workbook.XLSX))
	v.SetDefault("log_level", zerolog.LevelInfoValue)
	v.SetDefault("server.addr", ":8080")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("statement")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := workbook.ParseEngine(c.Engine); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Options returns the allocation options the config describes.
func (c *Config) Options() statement.Options {
	return statement.Options{
		Origin: grid.Cell{Row: c.OriginRow},
		Gap:    c.Gap,
	}
}

// WorkbookEngine returns the configured engine. Load has validated it.
func (c *Config) WorkbookEngine() workbook.Engine {
	return workbook.Engine(c.Engine)
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
