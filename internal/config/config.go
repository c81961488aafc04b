// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tochemey/mailbox/internal/validation"
	"github.com/tochemey/mailbox/log"
	"github.com/tochemey/mailbox/mailbox"
	"github.com/tochemey/mailbox/message"
)

// EnvPrefix is the prefix of the environment variables read by Load,
// e.g. MAILBOX_MAILBOX_SIZE_LIMIT for mailbox.size_limit
const EnvPrefix = "MAILBOX"

// Sizer names accepted by mailbox.sizer
const (
	ContentSizer = "content"
	EncodedSizer = "encoded"
)

var (
	// ErrInvalidSizer is returned when mailbox.sizer names no known sizer
	ErrInvalidSizer = errors.New("invalid sizer")
	// ErrInvalidLogLevel is returned when logging.level is not a known level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config represents the complete mailbox service configuration
type Config struct {
	Mailbox MailboxConfig `mapstructure:"mailbox"`
	Logging LoggingConfig `mapstructure:"logging"`
	Dump    DumpConfig    `mapstructure:"dump"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// MailboxConfig controls the engine
type MailboxConfig struct {
	// Name labels the engine logs and metrics
	Name string `mapstructure:"name"`
	// SizeLimit is "max" or the per queue limit in bytes
	SizeLimit string `mapstructure:"size_limit"`
	// Unbounded builds queues that never evict
	Unbounded bool `mapstructure:"unbounded"`
	// InboxSize is the number of requests buffered by the engine
	InboxSize int `mapstructure:"inbox_size"`
	// Sizer is how messages are measured: "content" or "encoded"
	Sizer string `mapstructure:"sizer"`
	// Verbose turns the engine verbose logging on
	Verbose bool `mapstructure:"verbose"`
}

// LoggingConfig controls the logger
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
}

// DumpConfig controls the periodic debug dump
type DumpConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Dir      string        `mapstructure:"dir"`
	Interval time.Duration `mapstructure:"interval"`
}

// MetricsConfig controls the otel instruments
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Mailbox: MailboxConfig{
			Name:      mailbox.DefaultName,
			SizeLimit: mailbox.FormatSizeLimit(mailbox.Unlimited),
			InboxSize: mailbox.DefaultInboxSize,
			Sizer:     ContentSizer,
		},
		Logging: LoggingConfig{
			Level: log.InfoLevel.String(),
		},
		Dump: DumpConfig{
			Dir:      "mlm-debug",
			Interval: time.Minute,
		},
	}
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("mailbox.name", defaults.Mailbox.Name)
	v.SetDefault("mailbox.size_limit", defaults.Mailbox.SizeLimit)
	v.SetDefault("mailbox.unbounded", defaults.Mailbox.Unbounded)
	v.SetDefault("mailbox.inbox_size", defaults.Mailbox.InboxSize)
	v.SetDefault("mailbox.sizer", defaults.Mailbox.Sizer)
	v.SetDefault("mailbox.verbose", defaults.Mailbox.Verbose)

	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetDefault("dump.enabled", defaults.Dump.Enabled)
	v.SetDefault("dump.dir", defaults.Dump.Dir)
	v.SetDefault("dump.interval", defaults.Dump.Interval)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
}

// Bind prepares v: defaults, environment variables and the optional
// config file. A missing config file is not an error.
func Bind(v *viper.Viper, configFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		return nil
	}
	v.SetConfigFile(configFile)
	return v.ReadInConfig()
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	_, sizeLimitErr := mailbox.ParseSizeLimit(c.Mailbox.SizeLimit)
	_, levelErr := log.ParseLevel(c.Logging.Level)

	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("mailbox.name", c.Mailbox.Name, nil)).
		AddAssertion(sizeLimitErr == nil, sizeLimitErr).
		AddAssertion(c.Mailbox.Sizer == ContentSizer || c.Mailbox.Sizer == EncodedSizer,
			fmt.Errorf("sizer=(%s) %w", c.Mailbox.Sizer, ErrInvalidSizer)).
		AddAssertion(levelErr == nil, fmt.Errorf("level=(%s) %w", c.Logging.Level, ErrInvalidLogLevel))

	if c.Dump.Enabled {
		chain.
			AddValidator(validation.NewEmptyStringValidator("dump.dir", c.Dump.Dir, nil)).
			AddValidator(validation.NewPositiveDurationValidator("dump.interval", c.Dump.Interval, nil))
	}

	return chain.Validate()
}

// Logger builds the zap logger described by the configuration
func (c *Config) Logger(writers ...io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("level=(%s) %w", c.Logging.Level, ErrInvalidLogLevel)
	}
	return log.NewZap(level, writers...), nil
}

// Options converts the configuration into engine options
func (c *Config) Options(logger log.Logger) ([]mailbox.Option, error) {
	sizeLimit, err := mailbox.ParseSizeLimit(c.Mailbox.SizeLimit)
	if err != nil {
		return nil, err
	}

	sizer := message.ContentSizer
	switch c.Mailbox.Sizer {
	case ContentSizer:
	case EncodedSizer:
		sizer = message.EncodedSizer
	default:
		return nil, fmt.Errorf("sizer=(%s) %w", c.Mailbox.Sizer, ErrInvalidSizer)
	}

	opts := []mailbox.Option{
		mailbox.WithLogger(logger),
		mailbox.WithName(c.Mailbox.Name),
		mailbox.WithSizeLimit(sizeLimit),
		mailbox.WithSizer(sizer),
		mailbox.WithInboxSize(c.Mailbox.InboxSize),
	}

	if c.Mailbox.Unbounded {
		opts = append(opts, mailbox.WithUnboundedMailboxes())
	}
	if c.Mailbox.Verbose {
		opts = append(opts, mailbox.WithVerbose())
	}
	if c.Dump.Enabled {
		opts = append(opts, mailbox.WithDebugDump(c.Dump.Dir, c.Dump.Interval))
	}
	if c.Metrics.Enabled {
		opts = append(opts, mailbox.WithMetrics())
	}
	return opts, nil
}
