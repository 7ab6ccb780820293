package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/adapter_config"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/dev_error"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/not_found"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/response_writer"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/response_writer/response_writer_config"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/connection"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/error_descriptor"
	adapterTypesResponse "github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/response"
	motmedelHttpContext "github.com/Motmedel/response_adapter_go/pkg/http/context"
	motmedelLog "github.com/Motmedel/response_adapter_go/pkg/log"
	"github.com/Motmedel/response_adapter_go/pkg/utils"
)

// RenderFunc produces the response for a request. Returning adapterErrors.ErrNotFound, or a nil
// response without an error, means no route matched.
type RenderFunc func(request *http.Request) (*adapterTypesResponse.Response, error)

// Adapter picks exactly one responder per request: the response writer on success, the not-found
// responder on a routing miss and the dev-error responder on a render failure.
type Adapter struct {
	Channel dev_error.Channel
	Config  *adapter_config.Config
}

func New(channel dev_error.Channel, options ...adapter_config.Option) (*Adapter, error) {
	if utils.IsNil(channel) {
		return nil, motmedelErrors.NewWithTrace(adapterErrors.ErrNilChannel)
	}

	return &Adapter{Channel: channel, Config: adapter_config.New(options...)}, nil
}

func (adapter *Adapter) config() *adapter_config.Config {
	if adapter.Config == nil {
		return adapter_config.New()
	}
	return adapter.Config
}

func (adapter *Adapter) Respond(
	ctx context.Context,
	connection connection.Connection,
	response *adapterTypesResponse.Response,
) error {
	options := append(
		adapter.config().ResponseWriterOptions(),
		response_writer_config.WithBodyErrorHandler(adapter.RespondError),
	)

	return response_writer.Respond(ctx, connection, response, options...)
}

func (adapter *Adapter) RespondNotFound(connection connection.Connection, rawUrl string) error {
	return not_found.RespondNotFound(connection, adapter.config().Origin, rawUrl)
}

// RespondError reports err on the connection and, once it closes, over the live-reload channel.
func (adapter *Adapter) RespondError(ctx context.Context, connection connection.Connection, err error) error {
	config := adapter.config()

	descriptor := error_descriptor.FromError(err)
	if descriptor == nil {
		descriptor = error_descriptor.FromError(motmedelErrors.NewWithTrace(adapterErrors.ErrNilDescriptor))
	}

	motmedelLog.LogError(ctx, "An error occurred when rendering the response.", err, config.Logger)

	return dev_error.RespondError(ctx, connection, adapter.Channel, descriptor, config.DevErrorOptions()...)
}

func safeRender(request *http.Request, renderFunc RenderFunc) (response *adapterTypesResponse.Response, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if recoveredErr, ok := recovered.(error); ok {
				err = motmedelErrors.NewWithTrace(fmt.Errorf("%w: %w", adapterErrors.ErrRenderPanic, recoveredErr))
			} else {
				err = motmedelErrors.NewWithTrace(fmt.Errorf("%w: %v", adapterErrors.ErrRenderPanic, recovered), recovered)
			}
		}
	}()

	return renderFunc(request)
}

func rawUrl(request *http.Request) string {
	if request.RequestURI != "" {
		return request.RequestURI
	}
	return request.URL.RequestURI()
}

func (adapter *Adapter) serve(
	connection connection.Connection,
	request *http.Request,
	renderFunc RenderFunc,
) error {
	ctx := request.Context()

	response, err := safeRender(request, renderFunc)
	switch {
	case errors.Is(err, adapterErrors.ErrNotFound), err == nil && response == nil:
		return adapter.RespondNotFound(connection, rawUrl(request))
	case err != nil:
		return adapter.RespondError(ctx, connection, err)
	default:
		return adapter.Respond(ctx, connection, response)
	}
}

// Handler serves requests with renderFunc. A protocol violation panics; net/http aborts the
// request and logs it.
func (adapter *Adapter) Handler(renderFunc RenderFunc) http.Handler {
	if renderFunc == nil {
		renderFunc = func(*http.Request) (*adapterTypesResponse.Response, error) {
			return nil, motmedelErrors.NewWithTrace(adapterErrors.ErrNilRenderFunc)
		}
	}

	return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		request = request.WithContext(
			motmedelHttpContext.WithRequestInfo(
				request.Context(),
				&motmedelHttpContext.RequestInfo{
					Id:     uuid.New().String(),
					Method: request.Method,
					Path:   request.URL.Path,
				},
			),
		)

		err := adapter.serve(connection.New(responseWriter, request), request, renderFunc)
		if err == nil {
			return
		}

		if errors.Is(err, adapterErrors.ErrProtocolViolation) {
			panic(err)
		}

		if ctx := request.Context(); ctx.Err() == nil {
			motmedelLog.LogError(
				ctx,
				"An error occurred when writing the response.",
				err,
				adapter.config().Logger,
			)
		}
	})
}
