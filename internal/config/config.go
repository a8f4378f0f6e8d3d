package config

import (
	"errors"
	"time"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	MaxHistory        int           `mapstructure:"max_history" yaml:"max_history"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	ClientBuffer      int           `mapstructure:"client_buffer" yaml:"client_buffer"`
	StaticDir         string        `mapstructure:"static_dir" yaml:"static_dir"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":3000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		MaxHistory:        50,
		MaxMessageBytes:   64 << 10,
		ClientBuffer:      64,
		StaticDir:         "public",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.MaxHistory != 0 {
		c.MaxHistory = other.MaxHistory
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.ClientBuffer != 0 {
		c.ClientBuffer = other.ClientBuffer
	}
	if other.StaticDir != "" {
		c.StaticDir = other.StaticDir
	}
}

// Validate reports settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.MaxHistory <= 0 {
		errs = append(errs, errors.New("max_history must be positive"))
	}
	if c.ClientBuffer <= 0 {
		errs = append(errs, errors.New("client_buffer must be positive"))
	}
	if c.MaxMessageBytes <= 0 {
		errs = append(errs, errors.New("max_message_bytes must be positive"))
	}
	return errors.Join(errs...)
}
