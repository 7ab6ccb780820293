package testing

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
	adapterTypesResponse "github.com/Motmedel/response_adapter_go/pkg/http/adapter/types/response"
)

type Head struct {
	StatusCode int
	Header     http.Header
}

// RecordingConnection is an in-memory connection that records every operation and enforces the
// same ordering rules as a real one.
type RecordingConnection struct {
	mu              sync.Mutex
	Heads           []*Head
	Chunks          [][]byte
	EndCount        int
	WriteHeadCalls  int
	ViolationErrors []error

	ctx    context.Context
	cancel context.CancelFunc
	ended  bool
}

func (connection *RecordingConnection) violation(err error) error {
	wrappedErr := motmedelErrors.NewWithTrace(err)
	connection.ViolationErrors = append(connection.ViolationErrors, wrappedErr)
	return wrappedErr
}

func (connection *RecordingConnection) WriteHead(statusCode int, header http.Header) error {
	connection.mu.Lock()
	defer connection.mu.Unlock()

	connection.WriteHeadCalls++
	if connection.ended {
		return connection.violation(adapterErrors.ErrConnectionEnded)
	}
	if len(connection.Heads) != 0 {
		return connection.violation(adapterErrors.ErrHeadAlreadyWritten)
	}

	connection.Heads = append(connection.Heads, &Head{StatusCode: statusCode, Header: header.Clone()})
	return nil
}

func (connection *RecordingConnection) Write(chunk []byte) error {
	connection.mu.Lock()
	defer connection.mu.Unlock()

	if len(connection.Heads) == 0 {
		return connection.violation(adapterErrors.ErrHeadNotWritten)
	}
	if connection.ended {
		return connection.violation(adapterErrors.ErrConnectionEnded)
	}

	connection.Chunks = append(connection.Chunks, slices.Clone(chunk))
	return nil
}

func (connection *RecordingConnection) End() error {
	connection.mu.Lock()
	defer connection.mu.Unlock()

	connection.EndCount++
	if len(connection.Heads) == 0 {
		return connection.violation(adapterErrors.ErrHeadNotWritten)
	}
	if connection.ended {
		return connection.violation(adapterErrors.ErrConnectionEnded)
	}

	connection.ended = true
	connection.cancel()
	return nil
}

func (connection *RecordingConnection) HeadersSent() bool {
	connection.mu.Lock()
	defer connection.mu.Unlock()

	return len(connection.Heads) != 0
}

func (connection *RecordingConnection) OnClose(handler func()) func() bool {
	return context.AfterFunc(connection.ctx, handler)
}

func (connection *RecordingConnection) Context() context.Context {
	return connection.ctx
}

// Close simulates the client going away.
func (connection *RecordingConnection) Close() {
	connection.cancel()
}

func (connection *RecordingConnection) Head() *Head {
	connection.mu.Lock()
	defer connection.mu.Unlock()

	if len(connection.Heads) == 0 {
		return nil
	}
	return connection.Heads[0]
}

func (connection *RecordingConnection) Body() string {
	connection.mu.Lock()
	defer connection.mu.Unlock()

	return string(bytes.Join(connection.Chunks, nil))
}

func (connection *RecordingConnection) Ended() bool {
	connection.mu.Lock()
	defer connection.mu.Unlock()

	return connection.ended
}

func NewRecordingConnection() *RecordingConnection {
	ctx, cancel := context.WithCancel(context.Background())
	return &RecordingConnection{ctx: ctx, cancel: cancel}
}

// ChunkReader yields the configured chunks, then io.EOF, then blocks forever if Block is set.
type ChunkReader struct {
	mu          sync.Mutex
	Chunks      [][]byte
	Block       bool
	Err         error
	CancelErr   error
	CancelCount int
	cancelled   chan struct{}
}

func (reader *ChunkReader) Read(ctx context.Context) ([]byte, error) {
	reader.mu.Lock()
	if len(reader.Chunks) != 0 {
		chunk := reader.Chunks[0]
		reader.Chunks = reader.Chunks[1:]
		reader.mu.Unlock()
		return chunk, nil
	}
	err := reader.Err
	block := reader.Block
	cancelled := reader.cancelled
	reader.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !block {
		return nil, io.EOF
	}

	<-cancelled
	return nil, context.Canceled
}

func (reader *ChunkReader) Cancel(context.Context) error {
	reader.mu.Lock()
	defer reader.mu.Unlock()

	reader.CancelCount++
	if reader.CancelCount == 1 {
		close(reader.cancelled)
	}
	return reader.CancelErr
}

func (reader *ChunkReader) Cancels() int {
	reader.mu.Lock()
	defer reader.mu.Unlock()

	return reader.CancelCount
}

func (reader *ChunkReader) GetReader() adapterTypesResponse.Reader {
	return reader
}

func NewChunkReader(chunks ...string) *ChunkReader {
	reader := &ChunkReader{cancelled: make(chan struct{})}
	for _, chunk := range chunks {
		reader.Chunks = append(reader.Chunks, []byte(chunk))
	}
	return reader
}

// RecordingChannel records every payload sent over it.
type RecordingChannel struct {
	mu       sync.Mutex
	Payloads [][]byte
	Sent     chan []byte
}

func (channel *RecordingChannel) Send(_ context.Context, payload []byte) error {
	channel.mu.Lock()
	channel.Payloads = append(channel.Payloads, slices.Clone(payload))
	channel.mu.Unlock()

	channel.Sent <- payload
	return nil
}

func (channel *RecordingChannel) Len() int {
	channel.mu.Lock()
	defer channel.mu.Unlock()

	return len(channel.Payloads)
}

func NewRecordingChannel() *RecordingChannel {
	return &RecordingChannel{Sent: make(chan []byte, 16)}
}

type Args struct {
	Method               string
	Path                 string
	Headers              [][2]string
	ExpectedStatusCode   int
	ExpectedHeaders      [][2]string
	ExpectedHeaderValues map[string][]string
	ExpectedBody         []byte
	ExpectedBodyContains [][]byte
}

// TestArgs performs the request described by args against serverUrl and checks the response.
func TestArgs(t *testing.T, args *Args, serverUrl string) []byte {
	t.Helper()

	if args == nil {
		t.Fatalf("args is nil")
	}

	if serverUrl == "" {
		t.Fatalf("server url is empty")
	}

	method := args.Method
	if method == "" {
		method = http.MethodGet
	}

	request, err := http.NewRequest(method, serverUrl+args.Path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	for _, header := range args.Headers {
		request.Header.Set(header[0], header[1])
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("http client do: %v", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("io read all response body: %v", err)
	}

	if response.StatusCode != args.ExpectedStatusCode {
		t.Errorf("got status code %d, expected %d", response.StatusCode, args.ExpectedStatusCode)
	}

	for _, header := range args.ExpectedHeaders {
		if headerValue := response.Header.Get(header[0]); headerValue != header[1] {
			t.Errorf("got header %s value %q, expected %q", header[0], headerValue, header[1])
		}
	}

	for name, expectedValues := range args.ExpectedHeaderValues {
		if diff := cmp.Diff(expectedValues, response.Header.Values(name)); diff != "" {
			t.Errorf("header %s mismatch (-expected +got):\n%s", name, diff)
		}
	}

	if expectedBody := args.ExpectedBody; expectedBody != nil {
		if diff := cmp.Diff(string(expectedBody), string(responseBody)); diff != "" {
			t.Errorf("body mismatch (-expected +got):\n%s", diff)
		}
	}

	for _, expectedPart := range args.ExpectedBodyContains {
		if !bytes.Contains(responseBody, expectedPart) {
			t.Errorf("expected the body to contain %q, got %q", expectedPart, responseBody)
		}
	}

	return responseBody
}
