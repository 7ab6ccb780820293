package body_writer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/metrics"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/connection"
	adapterTypesResponse "github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/response"
	motmedelLog "github.com/Motmedel/response_adapter_go/pkg/log"
	"github.com/Motmedel/response_adapter_go/pkg/utils"
)

type Writer struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Write drains body into connection. ctx is the cancellation token: once it is done the drain stops
// and a pull reader is cancelled. delegated reports that a push stream took over the call to End.
func (writer *Writer) Write(
	ctx context.Context,
	connection connection.Connection,
	body adapterTypesResponse.Body,
) (delegated bool, err error) {
	if utils.IsNil(connection) {
		return false, motmedelErrors.NewWithTrace(adapterErrors.ErrNilConnection)
	}

	switch typedBody := body.(type) {
	case nil:
		return false, nil
	case adapterTypesResponse.Text:
		if err := connection.Write([]byte(typedBody)); err != nil {
			return false, fmt.Errorf("connection write: %w", err)
		}
		return false, nil
	case *adapterTypesResponse.PipeBody:
		if typedBody == nil || typedBody.Stream == nil {
			return false, motmedelErrors.NewWithTrace(adapterErrors.ErrNilPiper)
		}
		if err := typedBody.Stream.PipeTo(ctx, connection); err != nil {
			return true, fmt.Errorf("pipe to: %w", err)
		}
		return true, nil
	case *adapterTypesResponse.ReadableBody:
		if typedBody == nil || typedBody.Source == nil {
			return false, motmedelErrors.NewWithTrace(adapterErrors.ErrNilReader)
		}
		return false, writer.drainReader(ctx, connection, typedBody.Source.GetReader())
	case adapterTypesResponse.SequenceBody:
		return false, writer.drainSequence(ctx, connection, typedBody)
	default:
		return false, motmedelErrors.NewWithTrace(
			fmt.Errorf("%w: %T", adapterErrors.ErrUnexpectedBody, body),
			body,
		)
	}
}

func (writer *Writer) logger() *slog.Logger {
	if writer.Logger != nil {
		return writer.Logger
	}
	return slog.Default()
}

func (writer *Writer) drainReader(
	ctx context.Context,
	connection connection.Connection,
	reader adapterTypesResponse.Reader,
) error {
	if reader == nil {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilReader)
	}

	stopCancel := context.AfterFunc(ctx, func() {
		writer.Metrics.ObserveBodyCancellation()

		cancelCtx := context.WithoutCancel(ctx)
		if err := reader.Cancel(cancelCtx); err != nil {
			motmedelLog.LogWarning(
				cancelCtx,
				"An unexpected error occurred in the middle of the stream.",
				motmedelErrors.New(fmt.Errorf("reader cancel: %w", err)),
				writer.logger(),
			)
		}
	})
	defer stopCancel()

	for {
		chunk, err := reader.Read(ctx)
		if ctx.Err() != nil {
			// The client is gone; the cancellation has been handed to the reader.
			return nil
		}

		if len(chunk) != 0 {
			if writeErr := connection.Write(chunk); writeErr != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("connection write: %w", writeErr)
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return motmedelErrors.New(fmt.Errorf("reader read: %w", err))
		}
	}
}

func (writer *Writer) drainSequence(
	ctx context.Context,
	connection connection.Connection,
	sequence adapterTypesResponse.SequenceBody,
) error {
	if sequence == nil {
		return nil
	}

	for chunk, err := range sequence {
		if err != nil {
			return motmedelErrors.New(fmt.Errorf("body sequence: %w", err))
		}

		if ctx.Err() != nil {
			writer.Metrics.ObserveBodyCancellation()
			return nil
		}

		if len(chunk) == 0 {
			continue
		}

		if err := connection.Write(chunk); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connection write: %w", err)
		}
	}

	return nil
}
