package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	"github.com/Motmedel/response_adapter_go/pkg/env"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/adapter_config"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/dev_error/dev_error_config"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/metrics"
	motmedelHttpLog "github.com/Motmedel/response_adapter_go/pkg/http/log"
	"github.com/Motmedel/response_adapter_go/pkg/live_reload"
	motmedelLog "github.com/Motmedel/response_adapter_go/pkg/log"
)

const (
	liveReloadPath  = "/__live_reload"
	metricsPath     = "/metrics"
	shutdownTimeout = 5 * time.Second
)

type serverOptions struct {
	address          string
	origin           string
	settleDelay      time.Duration
	attachTimeout    time.Duration
	clientScriptPath string
	logLevel         string
}

func run(ctx context.Context, options *serverOptions) error {
	level, err := motmedelLog.ParseLevel(options.logLevel)
	if err != nil {
		return fmt.Errorf("parse level: %w", err)
	}

	logger := motmedelLog.New(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
		&motmedelLog.ErrorContextExtractor{},
		&motmedelHttpLog.HttpContextExtractor{},
	)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	adapterMetrics, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("metrics new: %w", err)
	}

	hub := &live_reload.Hub{Logger: logger}

	responseAdapter, err := adapter.New(
		hub,
		adapter_config.WithLogger(logger),
		adapter_config.WithMetrics(adapterMetrics),
		adapter_config.WithOrigin(options.origin),
		adapter_config.WithSettleDelay(options.settleDelay),
		adapter_config.WithAttachTimeout(options.attachTimeout),
		adapter_config.WithClientScriptPath(options.clientScriptPath),
	)
	if err != nil {
		return fmt.Errorf("adapter new: %w", err)
	}

	serveMux := http.NewServeMux()
	serveMux.Handle(liveReloadPath, hub)
	serveMux.Handle(options.clientScriptPath, live_reload.ClientScriptHandler(liveReloadPath))
	serveMux.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	serveMux.Handle("/", responseAdapter.Handler(renderDemo))

	server := &http.Server{
		Addr:              options.address,
		Handler:           serveMux,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.InfoContext(groupCtx, "The dev server is listening.", slog.String("address", options.address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return motmedelErrors.NewWithTrace(fmt.Errorf("http server listen and serve: %w", err), options.address)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("http server shutdown: %w", err))
		}
		logger.InfoContext(shutdownCtx, "The dev server stopped.")
		return nil
	})

	return group.Wait()
}

func newRootCommand() *cobra.Command {
	options := &serverOptions{}

	command := &cobra.Command{
		Use:           "dev_server",
		Short:         "Serve demo pages through the response adapter.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, args []string) error {
			return run(command.Context(), options)
		},
	}

	settleDelay, err := env.GetDurationEnvWithDefault("ADAPTER_SETTLE_DELAY", dev_error_config.DefaultSettleDelay)
	if err != nil {
		motmedelLog.LogWarning(context.Background(), "The settle delay environment variable is invalid.", err, nil)
	}
	attachTimeout, err := env.GetDurationEnvWithDefault("ADAPTER_ATTACH_TIMEOUT", dev_error_config.DefaultAttachTimeout)
	if err != nil {
		motmedelLog.LogWarning(context.Background(), "The attach timeout environment variable is invalid.", err, nil)
	}

	flags := command.Flags()
	flags.StringVar(&options.address, "address", env.GetEnvWithDefault("ADAPTER_ADDRESS", ":4321"), "Address to listen on.")
	flags.StringVar(
		&options.origin,
		"origin",
		env.GetEnvWithDefault("ADAPTER_ORIGIN", adapter_config.DefaultOrigin),
		"Origin used to resolve request paths.",
	)
	flags.DurationVar(&options.settleDelay, "settle-delay", settleDelay, "Delay before pushing an error diagnostic.")
	flags.DurationVar(
		&options.attachTimeout,
		"attach-timeout",
		attachTimeout,
		"Maximum wait for a live-reload client before pushing an error diagnostic.",
	)
	flags.StringVar(
		&options.clientScriptPath,
		"client-script-path",
		env.GetEnvWithDefault("ADAPTER_CLIENT_SCRIPT_PATH", dev_error_config.DefaultClientScriptPath),
		"Path of the live-reload client script.",
	)
	flags.StringVar(&options.logLevel, "log-level", env.GetEnvWithDefault("ADAPTER_LOG_LEVEL", "info"), "Log level.")

	return command
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		motmedelLog.LogError(ctx, "The dev server failed.", err, slog.Default())
		stop()
		os.Exit(1)
	}
}
