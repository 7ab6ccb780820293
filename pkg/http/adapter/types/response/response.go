package response

import (
	"context"
	"io"
	"iter"
	"net/http"

	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/connection"
	"github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/cookies"
)

type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindReadable
	KindPipe
	KindSequence
)

func (kind Kind) String() string {
	switch kind {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindReadable:
		return "readable"
	case KindPipe:
		return "pipe"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Body is one of Text, *ReadableBody, *PipeBody or SequenceBody. A nil Body is absent.
type Body interface {
	Kind() Kind
	isBody()
}

// Text is a precomputed body written as a single chunk.
type Text string

func (Text) Kind() Kind { return KindText }
func (Text) isBody()    {}

// Reader is a pull-based byte source. Read returns io.EOF once the source is exhausted. Cancel may
// be called while a Read is blocked and must make it return.
type Reader interface {
	Read(ctx context.Context) ([]byte, error)
	Cancel(ctx context.Context) error
}

type Source interface {
	GetReader() Reader
}

type SourceFunction func() Reader

func (sf SourceFunction) GetReader() Reader {
	return sf()
}

type ReadableBody struct {
	Source Source
}

func (*ReadableBody) Kind() Kind { return KindReadable }
func (*ReadableBody) isBody()    {}

// Piper delivers itself to a connection and owns the call to End once PipeTo is invoked.
type Piper interface {
	PipeTo(ctx context.Context, connection connection.Connection) error
}

type PiperFunction func(context.Context, connection.Connection) error

func (pf PiperFunction) PipeTo(ctx context.Context, connection connection.Connection) error {
	return pf(ctx, connection)
}

type PipeBody struct {
	Stream Piper
}

func (*PipeBody) Kind() Kind { return KindPipe }
func (*PipeBody) isBody()    {}

// SequenceBody yields chunks produced by a streaming renderer. A non-nil error ends the sequence.
type SequenceBody iter.Seq2[[]byte, error]

func (SequenceBody) Kind() Kind { return KindSequence }
func (SequenceBody) isBody()    {}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       Body
	Cookies    *cookies.Cookies
}

func (response *Response) BodyKind() Kind {
	if response == nil || response.Body == nil {
		return KindAbsent
	}
	return response.Body.Kind()
}

type ioReader struct {
	readCloser io.ReadCloser
	buffer     []byte
}

func (reader *ioReader) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err := reader.readCloser.Read(reader.buffer)
	if n > 0 {
		// The buffer is reused by the next Read.
		chunk := make([]byte, n)
		copy(chunk, reader.buffer[:n])
		if err == io.EOF {
			err = nil
		}
		return chunk, err
	}

	return nil, err
}

func (reader *ioReader) Cancel(context.Context) error {
	return reader.readCloser.Close()
}

// NewIoSource adapts an io.ReadCloser into a pull source reading chunks of at most chunkSize bytes.
// Cancelling the reader closes the underlying ReadCloser.
func NewIoSource(readCloser io.ReadCloser, chunkSize int) Source {
	if chunkSize <= 0 {
		chunkSize = 32 << 10
	}

	return SourceFunction(func() Reader {
		return &ioReader{readCloser: readCloser, buffer: make([]byte, chunkSize)}
	})
}
