package dev_error_config

import (
	"log/slog"
	"time"

	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/metrics"
)

var (
	DefaultSettleDelay      = 200 * time.Millisecond
	DefaultAttachTimeout    = 5 * time.Second
	DefaultClientScriptPath = "/@vite/client"
)

type Config struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// SettleDelay is waited before the diagnostic push when the channel cannot report attachments.
	SettleDelay time.Duration
	// AttachTimeout bounds the wait for a client attachment when the channel can report one.
	AttachTimeout    time.Duration
	ClientScriptPath string
}

type Option func(*Config)

func New(options ...Option) *Config {
	config := &Config{
		Logger:           slog.Default(),
		SettleDelay:      DefaultSettleDelay,
		AttachTimeout:    DefaultAttachTimeout,
		ClientScriptPath: DefaultClientScriptPath,
	}
	for _, option := range options {
		option(config)
	}

	return config
}

func WithLogger(logger *slog.Logger) Option {
	return func(config *Config) {
		if logger != nil {
			config.Logger = logger
		}
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(config *Config) {
		config.Metrics = metrics
	}
}

func WithSettleDelay(delay time.Duration) Option {
	return func(config *Config) {
		config.SettleDelay = delay
	}
}

func WithAttachTimeout(timeout time.Duration) Option {
	return func(config *Config) {
		config.AttachTimeout = timeout
	}
}

func WithClientScriptPath(path string) Option {
	return func(config *Config) {
		if path != "" {
			config.ClientScriptPath = path
		}
	}
}
