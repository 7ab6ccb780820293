package response_writer_config

import (
	"context"
	"log/slog"

	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/metrics"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/connection"
)

var (
	DefaultTextContentType = "text/plain; charset=utf-8"
)

// BodyErrorHandler takes over a connection whose body failed mid-drain. It must end the connection.
type BodyErrorHandler func(ctx context.Context, connection connection.Connection, err error) error

type Config struct {
	Logger           *slog.Logger
	Metrics          *metrics.Metrics
	BodyErrorHandler BodyErrorHandler
	TextContentType  string
}

type Option func(*Config)

func New(options ...Option) *Config {
	config := &Config{
		Logger:          slog.Default(),
		TextContentType: DefaultTextContentType,
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

func WithBodyErrorHandler(handler BodyErrorHandler) Option {
	return func(config *Config) {
		config.BodyErrorHandler = handler
	}
}

func WithTextContentType(contentType string) Option {
	return func(config *Config) {
		config.TextContentType = contentType
	}
}
