// Package config loads image-pipeline settings with viper: built-in
// defaults, then an optional YAML file, then IMAGE_PIPELINE_* environment
// variables (IMAGE_PIPELINE_LOG_LEVEL, IMAGE_PIPELINE_SERVER_MAX_IMAGES,
// ...). IMAGE_MCP_LOG_LEVEL is still honored for the log level.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "IMAGE_PIPELINE"

// Config is the validated application configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Render RenderConfig `mapstructure:"render"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Name is reported as serverInfo.name during initialize.
	Name string `mapstructure:"name"`
	// MaxImages bounds the server's image store; the oldest image is
	// evicted when it is full.
	MaxImages int `mapstructure:"max_images"`
}

// RenderConfig sizes the text and charts drawn for server clients.
type RenderConfig struct {
	// LabelFontSize is the point size of grid and labeling text.
	LabelFontSize float64 `mapstructure:"label_font_size"`
	// ChartWidth and ChartHeight are the PNG chart size in pixels.
	ChartWidth  int `mapstructure:"chart_width"`
	ChartHeight int `mapstructure:"chart_height"`
}

// New returns a viper instance with defaults and environment binding set
// up. Flags may be bound to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.name", "image-pipeline")
	v.SetDefault("server.max_images", 64)
	v.SetDefault("render.label_font_size", 12.0)
	v.SetDefault("render.chart_width", 480)
	v.SetDefault("render.chart_height", 270)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "IMAGE_MCP_LOG_LEVEL")
	return v
}

// Load reads file (when non-empty) into v and returns the validated
// configuration.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}
	if c.Server.MaxImages < 1 {
		return fmt.Errorf("server.max_images %d: must be at least 1", c.Server.MaxImages)
	}
	if c.Render.LabelFontSize <= 0 {
		return fmt.Errorf("render.label_font_size %g: must be positive", c.Render.LabelFontSize)
	}
	if c.Render.ChartWidth < 100 || c.Render.ChartHeight < 100 {
		return fmt.Errorf("render chart size %dx%d: both sides must be at least 100",
			c.Render.ChartWidth, c.Render.ChartHeight)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level %q: want debug, info, warn or error", s)
}

// NewLogger builds the slog logger described by c, writing to w. The
// server keeps stdout for the protocol, so callers pass stderr.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
