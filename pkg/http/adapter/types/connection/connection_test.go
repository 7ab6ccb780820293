package connection

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adapterErrors "github.com/Motmedel/response_adapter_go/pkg/http/adapter/errors"
	motmedelTestingCmp "github.com/Motmedel/response_adapter_go/pkg/testing/cmp"
)

func waitClosed(t *testing.T, closed <-chan struct{}) {
	t.Helper()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the close handler")
	}
}

func TestHttpConnection(t *testing.T) {
	recorder := httptest.NewRecorder()
	connection := New(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if err := connection.Write([]byte("early")); !errors.Is(err, adapterErrors.ErrHeadNotWritten) {
		t.Fatalf("got %v, expected %v", err, adapterErrors.ErrHeadNotWritten)
	}
	if err := connection.End(); !errors.Is(err, adapterErrors.ErrHeadNotWritten) {
		t.Fatalf("got %v, expected %v", err, adapterErrors.ErrHeadNotWritten)
	}

	closed := make(chan struct{})
	connection.OnClose(func() { close(closed) })

	header := http.Header{"content-type": {"text/plain"}, "Set-Cookie": {"a=1", "b=2"}}
	if err := connection.WriteHead(http.StatusCreated, header); err != nil {
		t.Fatalf("write head: %v", err)
	}
	if !connection.HeadersSent() {
		t.Fatal("expected the headers to be sent")
	}

	err := connection.WriteHead(http.StatusTeapot, nil)
	motmedelTestingCmp.CompareErr(t, err, adapterErrors.ErrHeadAlreadyWritten)
	if !errors.Is(err, adapterErrors.ErrProtocolViolation) {
		t.Fatalf("got %v, expected %v", err, adapterErrors.ErrProtocolViolation)
	}

	for _, chunk := range []string{"a", "", "b"} {
		if err := connection.Write([]byte(chunk)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if err := connection.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	waitClosed(t, closed)

	if err := connection.Write([]byte("late")); !errors.Is(err, adapterErrors.ErrConnectionEnded) {
		t.Errorf("got %v, expected %v", err, adapterErrors.ErrConnectionEnded)
	}
	if err := connection.End(); !errors.Is(err, adapterErrors.ErrConnectionEnded) {
		t.Errorf("got %v, expected %v", err, adapterErrors.ErrConnectionEnded)
	}

	if recorder.Code != http.StatusCreated || connection.WrittenStatusCode != http.StatusCreated {
		t.Errorf("got status code %d, expected %d", recorder.Code, http.StatusCreated)
	}
	if got := recorder.Header().Get("Content-Type"); got != "text/plain" {
		t.Errorf("got content type %q, expected %q", got, "text/plain")
	}
	if got := recorder.Header().Values("Set-Cookie"); len(got) != 2 {
		t.Errorf("got %d set-cookie values, expected 2", len(got))
	}
	if got := recorder.Body.String(); got != "ab" {
		t.Errorf("got body %q, expected %q", got, "ab")
	}
	if !recorder.Flushed {
		t.Error("expected the recorder to be flushed")
	}
}

func TestHttpConnectionClientDisconnect(t *testing.T) {
	requestCtx, cancelRequest := context.WithCancel(context.Background())
	request := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(requestCtx)
	connection := New(httptest.NewRecorder(), request)

	closed := make(chan struct{})
	connection.OnClose(func() { close(closed) })

	if err := connection.WriteHead(http.StatusOK, nil); err != nil {
		t.Fatalf("write head: %v", err)
	}

	cancelRequest()
	waitClosed(t, closed)

	if connection.Context().Err() == nil {
		t.Error("expected the connection context to be done")
	}
	if connection.Ended() {
		t.Error("a disconnect must not mark the connection as ended")
	}
}
