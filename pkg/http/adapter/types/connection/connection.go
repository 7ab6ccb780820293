package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
)

// Connection is the server side of one request/response exchange. WriteHead may be called at most
// once and must precede Write and End. The context is cancelled when the connection closes, either
// because the client went away or because End was called.
type Connection interface {
	WriteHead(statusCode int, header http.Header) error
	Write(chunk []byte) error
	End() error
	HeadersSent() bool
	OnClose(handler func()) (stop func() bool)
	Context() context.Context
}

type HttpConnection struct {
	ResponseWriter    http.ResponseWriter
	WrittenStatusCode int

	headersSent bool
	ended       bool
	ctx         context.Context
	cancel      context.CancelFunc
}

func (connection *HttpConnection) WriteHead(statusCode int, header http.Header) error {
	if connection.ended {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrConnectionEnded, statusCode)
	}
	if connection.headersSent {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrHeadAlreadyWritten, statusCode)
	}

	responseWriterHeader := connection.ResponseWriter.Header()
	for name, values := range header {
		responseWriterHeader[http.CanonicalHeaderKey(name)] = slices.Clone(values)
	}

	connection.ResponseWriter.WriteHeader(statusCode)
	connection.WrittenStatusCode = statusCode
	connection.headersSent = true

	return nil
}

func (connection *HttpConnection) Write(chunk []byte) error {
	if !connection.headersSent {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrHeadNotWritten)
	}
	if connection.ended {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrConnectionEnded)
	}
	if len(chunk) == 0 {
		return nil
	}

	if _, err := connection.ResponseWriter.Write(chunk); err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("http response writer write: %w", err))
	}

	return connection.flush()
}

func (connection *HttpConnection) End() error {
	if !connection.headersSent {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrHeadNotWritten)
	}
	if connection.ended {
		return motmedelErrors.NewWithTrace(adapterErrors.ErrConnectionEnded)
	}

	connection.ended = true
	defer connection.cancel()

	return connection.flush()
}

func (connection *HttpConnection) flush() error {
	// A client that already went away makes flushing pointless.
	if connection.ctx.Err() != nil {
		return nil
	}

	err := http.NewResponseController(connection.ResponseWriter).Flush()
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		return motmedelErrors.NewWithTrace(fmt.Errorf("response controller flush: %w", err))
	}

	return nil
}

func (connection *HttpConnection) HeadersSent() bool {
	return connection.headersSent
}

func (connection *HttpConnection) Ended() bool {
	return connection.ended
}

func (connection *HttpConnection) OnClose(handler func()) func() bool {
	return context.AfterFunc(connection.ctx, handler)
}

func (connection *HttpConnection) Context() context.Context {
	return connection.ctx
}

func New(responseWriter http.ResponseWriter, request *http.Request) *HttpConnection {
	parent := context.Background()
	if request != nil {
		parent = request.Context()
	}

	ctx, cancel := context.WithCancel(parent)

	return &HttpConnection{ResponseWriter: responseWriter, ctx: ctx, cancel: cancel}
}
