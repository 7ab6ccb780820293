package dev_error

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/html"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/dev_error/dev_error_config"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/html_response"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/connection"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/error_descriptor"
	motmedelLog "github.com/Motmedel/response_adapter_go/pkg/log"
	"github.com/Motmedel/response_adapter_go/pkg/utils"
)

// Channel is the live-reload side channel. Sends are fire-and-forget.
type Channel interface {
	Send(ctx context.Context, payload []byte) error
}

// AttachWaiter is implemented by channels that can tell when a client has attached.
type AttachWaiter interface {
	// WaitAttached blocks until a client attached at or after since, or ctx is done.
	WaitAttached(ctx context.Context, since time.Time) error
}

func ClientScript(path string) string {
	return fmt.Sprintf(`<script type="module" src="%s"></script>`, html.EscapeString(path))
}

// Shell is the document written when a render fails before anything was sent.
func Shell(name string, clientScriptPath string) string {
	return fmt.Sprintf("<title>%s</title>%s", html.EscapeString(name), ClientScript(clientScriptPath))
}

func waitForClient(ctx context.Context, channel Channel, since time.Time, config *dev_error_config.Config) error {
	if waiter, ok := channel.(AttachWaiter); ok && config.AttachTimeout > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, config.AttachTimeout)
		defer cancel()
		if err := waiter.WaitAttached(waitCtx, since); err != nil {
			return fmt.Errorf("wait attached: %w", err)
		}
		return nil
	}

	if config.SettleDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(config.SettleDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PushDiagnostic sends the overlay payload for descriptor over channel once a client had the chance
// to attach.
func PushDiagnostic(
	ctx context.Context,
	channel Channel,
	descriptor *error_descriptor.ErrorDescriptor,
	since time.Time,
	config *dev_error_config.Config,
) error {
	if utils.IsNil(channel) {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilChannel)
	}
	if descriptor == nil {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilDescriptor)
	}
	if config == nil {
		config = dev_error_config.New()
	}

	if err := waitForClient(ctx, channel, since, config); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		motmedelLog.LogWarning(
			ctx,
			"No live-reload client attached in time. Pushing the error anyway.",
			motmedelErrors.New(err, config.AttachTimeout),
			config.Logger,
		)
	}

	payload, err := error_descriptor.MakePayload(descriptor).Bytes()
	if err != nil {
		return fmt.Errorf("payload bytes: %w", err)
	}

	if err := channel.Send(ctx, payload); err != nil {
		return motmedelErrors.New(fmt.Errorf("channel send: %w", err), payload)
	}

	return nil
}

// RespondError surfaces a render failure on connection and pushes the error detail over channel
// after the connection closes.
func RespondError(
	ctx context.Context,
	connection connection.Connection,
	channel Channel,
	descriptor *error_descriptor.ErrorDescriptor,
	options ...dev_error_config.Option,
) error {
	if utils.IsNil(connection) {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilConnection)
	}
	if utils.IsNil(channel) {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilChannel)
	}
	if descriptor == nil {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilDescriptor)
	}

	config := dev_error_config.New(options...)

	since := time.Now()
	pushCtx := context.WithoutCancel(ctx)
	connection.OnClose(func() {
		err := PushDiagnostic(pushCtx, channel, descriptor, since, config)
		config.Metrics.ObserveDiagnostic(err)
		if err != nil {
			motmedelLog.LogError(pushCtx, "An error occurred when pushing the error diagnostic.", err, config.Logger)
		}
	})

	if connection.HeadersSent() {
		if err := connection.Write([]byte(ClientScript(config.ClientScriptPath))); err != nil {
			return fmt.Errorf("connection write: %w", err)
		}
		if err := connection.End(); err != nil {
			return fmt.Errorf("connection end: %w", err)
		}
		return nil
	}

	name := descriptor.Name
	if name == "" {
		name = error_descriptor.DefaultName
	}

	shell := Shell(name, config.ClientScriptPath)
	if err := html_response.Write(connection, http.StatusInternalServerError, shell); err != nil {
		return fmt.Errorf("html response write: %w", err)
	}

	return nil
}
