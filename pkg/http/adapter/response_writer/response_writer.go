package response_writer

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/multierr"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/body_writer"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/cookie_extractor"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/header_projector"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/response_writer/response_writer_config"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/connection"
	adapterTypesResponse "github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/response"
	"github.com/Motmedel/response_adapter_go/pkg/utils"
)

// ProjectHeader computes the header written for response: the response header merged with the
// collected cookies, plus Content-Type and Content-Length defaults for text bodies.
func ProjectHeader(response *adapterTypesResponse.Response, textContentType string) http.Header {
	header := header_projector.Project(make(http.Header), response.Header, cookie_extractor.Extract(response))

	if text, ok := response.Body.(adapterTypesResponse.Text); ok {
		if header.Get("Content-Type") == "" && textContentType != "" {
			header.Set("Content-Type", textContentType)
		}
		if header.Get("Content-Length") == "" {
			header.Set("Content-Length", strconv.Itoa(len(text)))
		}
	}

	return header
}

// Respond writes response to connection: the head exactly once, then the body, then End unless a
// push stream took ownership of it.
func Respond(
	ctx context.Context,
	connection connection.Connection,
	response *adapterTypesResponse.Response,
	options ...response_writer_config.Option,
) error {
	if utils.IsNil(connection) {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilConnection)
	}
	if response == nil {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrNilResponse)
	}

	config := response_writer_config.New(options...)

	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	if err := connection.WriteHead(statusCode, ProjectHeader(response, config.TextContentType)); err != nil {
		return fmt.Errorf("connection write head: %w", err)
	}

	drainCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopCloseListener := connection.OnClose(cancel)
	defer stopCloseListener()

	writer := &body_writer.Writer{Logger: config.Logger, Metrics: config.Metrics}
	delegated, err := writer.Write(drainCtx, connection, response.Body)
	if err != nil {
		err = fmt.Errorf("body writer write: %w", err)

		if delegated {
			return err
		}

		if handler := config.BodyErrorHandler; handler != nil {
			return handler(ctx, connection, err)
		}

		if endErr := connection.End(); endErr != nil {
			err = multierr.Append(err, fmt.Errorf("connection end: %w", endErr))
		}
		return err
	}

	config.Metrics.ObserveResponse(statusCode, response.BodyKind())

	if delegated {
		return nil
	}

	if err := connection.End(); err != nil {
		return fmt.Errorf("connection end: %w", err)
	}

	return nil
}
