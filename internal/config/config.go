// Package config loads host settings for the glowfield command from
// glowfield.yaml, GLOWFIELD_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "GLOWFIELD"

// Config holds the entire host configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Window   WindowConfig   `mapstructure:"window" yaml:"window"`
	Field    FieldConfig    `mapstructure:"field" yaml:"field"`
	Simulate SimulateConfig `mapstructure:"simulate" yaml:"simulate"`
}

// LoggerConfig controls log level, encoding and optional file rotation.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// WindowConfig describes the host window and its scripted-run tooling.
type WindowConfig struct {
	Title         string `mapstructure:"title" yaml:"title"`
	Width         int    `mapstructure:"width" yaml:"width"`
	Height        int    `mapstructure:"height" yaml:"height"`
	Resizable     bool   `mapstructure:"resizable" yaml:"resizable"`
	ScreenshotDir string `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	// Script is a JSON test script to play back. Empty means interactive.
	Script string `mapstructure:"script" yaml:"script"`
}

// FieldConfig tunes the particle background.
type FieldConfig struct {
	// Particles fixes the particle count. Zero applies the capacity policy.
	Particles     int  `mapstructure:"particles" yaml:"particles"`
	LowPower      bool `mapstructure:"low_power" yaml:"low_power"`
	DetectDevice  bool `mapstructure:"detect_device" yaml:"detect_device"`
	ReducedMotion bool `mapstructure:"reduced_motion" yaml:"reduced_motion"`
	// PointerInterval is the minimum time between applied pointer samples.
	PointerInterval time.Duration `mapstructure:"pointer_interval" yaml:"pointer_interval"`
	FadeIn          time.Duration `mapstructure:"fade_in" yaml:"fade_in"`
	Seed            uint64        `mapstructure:"seed" yaml:"seed"`
	Debug           bool          `mapstructure:"debug" yaml:"debug"`
}

// SimulateConfig controls the headless simulate command.
type SimulateConfig struct {
	Frames int `mapstructure:"frames" yaml:"frames"`
	// FPS paces frames in real time. Zero runs as fast as possible.
	FPS      int     `mapstructure:"fps" yaml:"fps"`
	PointerX float64 `mapstructure:"pointer_x" yaml:"pointer_x"`
	PointerY float64 `mapstructure:"pointer_y" yaml:"pointer_y"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "glowfield")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)

	v.SetDefault("window.title", "glowfield")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.resizable", true)
	v.SetDefault("window.screenshot_dir", "screenshots")
	v.SetDefault("window.script", "")

	v.SetDefault("field.particles", 0)
	v.SetDefault("field.low_power", false)
	v.SetDefault("field.detect_device", true)
	v.SetDefault("field.reduced_motion", false)
	v.SetDefault("field.pointer_interval", "50ms")
	v.SetDefault("field.fade_in", "1s")
	v.SetDefault("field.seed", 0)
	v.SetDefault("field.debug", false)

	v.SetDefault("simulate.frames", 600)
	v.SetDefault("simulate.fps", 0)
	v.SetDefault("simulate.pointer_x", 0.5)
	v.SetDefault("simulate.pointer_y", 0.5)
}

// NewDefaultConfig returns a configuration populated with defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load prepares v to read path (or ./glowfield.yaml when path is empty) and
// GLOWFIELD_* variables, then decodes and validates the result. A missing
// default config file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("glowfield")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper decodes and validates the settings held by v.
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

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Field.Particles < 0 {
		return fmt.Errorf("field.particles must not be negative")
	}
	if c.Simulate.Frames < 0 {
		return fmt.Errorf("simulate.frames must not be negative")
	}
	if c.Simulate.FPS < 0 {
		return fmt.Errorf("simulate.fps must not be negative")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}
