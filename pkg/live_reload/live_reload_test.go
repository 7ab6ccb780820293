package live_reload

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func dial(t *testing.T, ctx context.Context, serverUrl string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(serverUrl, "http"), nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}

	_, message, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("websocket read: %v", err)
	}
	if string(message) != string(ConnectedMessage) {
		t.Fatalf("got greeting %q, expected %q", message, ConnectedMessage)
	}

	return conn
}

func waitForClients(t *testing.T, hub *Hub, expected int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for hub.NumClients() != expected {
		if time.Now().After(deadline) {
			t.Fatalf("got %d clients, expected %d", hub.NumClients(), expected)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHub(t *testing.T) {
	hub := &Hub{}
	server := httptest.NewServer(hub)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	since := time.Now()

	first := dial(t, ctx, server.URL)
	defer first.CloseNow()
	second := dial(t, ctx, server.URL)
	defer second.CloseNow()

	if err := hub.WaitAttached(ctx, since); err != nil {
		t.Fatalf("wait attached: %v", err)
	}
	waitForClients(t, hub, 2)

	payload := []byte(`{"type":"error","err":{"name":"TypeError"}}`)
	if err := hub.Send(ctx, payload); err != nil {
		t.Fatalf("hub send: %v", err)
	}

	for _, conn := range []*websocket.Conn{first, second} {
		messageType, message, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("websocket read: %v", err)
		}
		if messageType != websocket.MessageText || string(message) != string(payload) {
			t.Errorf("got %v message %q, expected %q", messageType, message, payload)
		}
	}

	first.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, hub, 1)
}

func TestHubSendWithoutClients(t *testing.T) {
	if err := (&Hub{}).Send(context.Background(), []byte("{}")); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestHubWaitAttached(t *testing.T) {
	hub := &Hub{}
	server := httptest.NewServer(hub)
	defer server.Close()

	t.Run("times out without a new client", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if err := hub.WaitAttached(ctx, time.Now()); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("got %v, expected %v", err, context.DeadlineExceeded)
		}
	})

	t.Run("released by a later client", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		since := time.Now()
		done := make(chan error, 1)
		go func() {
			done <- hub.WaitAttached(ctx, since)
		}()

		conn := dial(t, ctx, server.URL)
		defer conn.CloseNow()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("wait attached: %v", err)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for the attachment")
		}
	})
}

func TestClientScriptHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	ClientScriptHandler("/__live_reload").ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/@vite/client", nil))

	if got := recorder.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/javascript") {
		t.Errorf("got content type %q", got)
	}
	if body := recorder.Body.String(); !strings.Contains(body, `new URL("/__live_reload"`) {
		t.Errorf("the websocket path is missing from the script")
	}
}
