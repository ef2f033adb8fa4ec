// Package config holds the runtime configuration of the renderer, loaded
// through viper from defaults, an optional YAML file, the environment and
// command line flags.
package config

import (
	"fmt"
	"time"

	"github.com/chrisuehlinger/tinyrender/render"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable viper consults.
const EnvPrefix = "TINYRENDER"

// Config is the top level configuration.
type Config struct {
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Script   ScriptConfig   `mapstructure:"script" yaml:"script"`
	Network  NetworkConfig  `mapstructure:"network" yaml:"network"`
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
}

// ViewportConfig is the size of the initial containing block and the canvas.
type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// RenderConfig selects the rasterizer and the output encoding.
type RenderConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	// Format is empty when it should be taken from the output file name.
	Format              string `mapstructure:"format" yaml:"format"`
	UserAgentStylesheet bool   `mapstructure:"user_agent_stylesheet" yaml:"user_agent_stylesheet"`
}

type ScriptConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// NetworkConfig configures the resource loader.
type NetworkConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	CacheSize int           `mapstructure:"cache_size" yaml:"cache_size"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal color of each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// NewDefaultConfig returns the configuration produced by SetDefaults alone.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// -- Viewport --
	v.SetDefault("viewport.width", 800)
	v.SetDefault("viewport.height", 600)

	// -- Render --
	v.SetDefault("render.backend", string(render.BackendRaster))
	v.SetDefault("render.format", "")
	v.SetDefault("render.user_agent_stylesheet", true)

	// -- Script --
	v.SetDefault("script.enabled", false)

	// -- Network --
	v.SetDefault("network.timeout", "30s")
	v.SetDefault("network.user_agent", "tinyrender/0.1")
	v.SetDefault("network.cache_size", 64)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "tinyrender")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MaxViewportSize bounds each viewport dimension so a canvas stays within a
// few gigabytes.
const MaxViewportSize = 16384

// Validate checks values viper cannot check by type alone.
func (c *Config) Validate() error {
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport must not be negative, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Viewport.Width > MaxViewportSize || c.Viewport.Height > MaxViewportSize {
		return fmt.Errorf("viewport must be at most %dx%d, got %dx%d",
			MaxViewportSize, MaxViewportSize, c.Viewport.Width, c.Viewport.Height)
	}
	if _, err := render.ParseBackend(c.Render.Backend); err != nil {
		return fmt.Errorf("render.backend: %w", err)
	}
	if c.Render.Format != "" {
		if _, err := render.ParseFormat(c.Render.Format); err != nil {
			return fmt.Errorf("render.format: %w", err)
		}
	}
	if c.Network.Timeout < 0 {
		return fmt.Errorf("network.timeout must not be negative")
	}
	if c.Network.CacheSize < 0 {
		return fmt.Errorf("network.cache_size must not be negative")
	}
	return nil
}
