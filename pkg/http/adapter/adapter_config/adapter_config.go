package adapter_config

import (
	"log/slog"
	"time"

	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/dev_error/dev_error_config"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/metrics"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/response_writer/response_writer_config"
)

var (
	DefaultOrigin = "http://localhost"
)

type Config struct {
	Logger           *slog.Logger
	Metrics          *metrics.Metrics
	Origin           string
	SettleDelay      time.Duration
	AttachTimeout    time.Duration
	ClientScriptPath string
	TextContentType  string
}

type Option func(*Config)

func New(options ...Option) *Config {
	config := &Config{
		Logger:           slog.Default(),
		Origin:           DefaultOrigin,
		SettleDelay:      dev_error_config.DefaultSettleDelay,
		AttachTimeout:    dev_error_config.DefaultAttachTimeout,
		ClientScriptPath: dev_error_config.DefaultClientScriptPath,
		TextContentType:  response_writer_config.DefaultTextContentType,
	}
	for _, option := range options {
		option(config)
	}

	return config
}

// DevErrorOptions projects the config onto the dev-error responder.
func (config *Config) DevErrorOptions() []dev_error_config.Option {
	return []dev_error_config.Option{
		dev_error_config.WithLogger(config.Logger),
		dev_error_config.WithMetrics(config.Metrics),
		dev_error_config.WithSettleDelay(config.SettleDelay),
		dev_error_config.WithAttachTimeout(config.AttachTimeout),
		dev_error_config.WithClientScriptPath(config.ClientScriptPath),
	}
}

// ResponseWriterOptions projects the config onto the response writer.
func (config *Config) ResponseWriterOptions() []response_writer_config.Option {
	return []response_writer_config.Option{
		response_writer_config.WithLogger(config.Logger),
		response_writer_config.WithMetrics(config.Metrics),
		response_writer_config.WithTextContentType(config.TextContentType),
	}
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

func WithOrigin(origin string) Option {
	return func(config *Config) {
		if origin != "" {
			config.Origin = origin
		}
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

func WithTextContentType(contentType string) Option {
	return func(config *Config) {
		config.TextContentType = contentType
	}
}
