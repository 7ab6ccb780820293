package live_reload

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	motmedelErrors "github.com/Motmedel/response_adapter_go/pkg/errors"
	motmedelLog "github.com/Motmedel/response_adapter_go/pkg/log"
)

var (
	DefaultWriteTimeout = 5 * time.Second
	ConnectedMessage    = []byte(`{"type":"connected"}`)
)

type client struct {
	id         string
	conn       *websocket.Conn
	attachedAt time.Time
}

// Hub is a live-reload channel backed by websocket clients. Payloads are broadcast to every attached
// client.
type Hub struct {
	Logger        *slog.Logger
	WriteTimeout  time.Duration
	AcceptOptions *websocket.AcceptOptions

	mu           sync.Mutex
	clients      map[string]*client
	lastAttach   time.Time
	attachSignal chan struct{}
}

func (hub *Hub) logger() *slog.Logger {
	if hub.Logger != nil {
		return hub.Logger
	}
	return slog.Default()
}

func (hub *Hub) register(conn *websocket.Conn) *client {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if hub.clients == nil {
		hub.clients = make(map[string]*client)
	}

	c := &client{id: uuid.New().String(), conn: conn, attachedAt: time.Now()}
	hub.clients[c.id] = c
	hub.lastAttach = c.attachedAt

	if hub.attachSignal != nil {
		close(hub.attachSignal)
		hub.attachSignal = nil
	}

	return c
}

func (hub *Hub) unregister(c *client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	delete(hub.clients, c.id)
}

func (hub *Hub) ServeHTTP(w http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := hub.logger()

	conn, err := websocket.Accept(w, request, hub.AcceptOptions)
	if err != nil {
		motmedelLog.LogWarning(
			ctx,
			"The live-reload connection could not be accepted.",
			motmedelErrors.New(fmt.Errorf("websocket accept: %w", err)),
			logger,
		)
		return
	}
	defer conn.CloseNow()

	c := hub.register(conn)
	defer hub.unregister(c)

	logger.DebugContext(ctx, "A live-reload client attached.", slog.String("client_id", c.id))

	if err := hub.write(ctx, conn, ConnectedMessage); err != nil {
		motmedelLog.LogWarning(ctx, "The live-reload greeting could not be written.", err, logger)
		return
	}

	for {
		if _, _, err := conn.Read(ctx); err != nil {
			logger.DebugContext(
				ctx,
				"A live-reload client detached.",
				slog.String("client_id", c.id),
				slog.Int("close_status", int(websocket.CloseStatus(err))),
			)
			break
		}
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func (hub *Hub) write(ctx context.Context, conn *websocket.Conn, payload []byte) error {
	writeTimeout := hub.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := conn.Write(writeCtx, websocket.MessageText, payload); err != nil {
		return motmedelErrors.New(fmt.Errorf("websocket conn write: %w", err))
	}

	return nil
}

// Send broadcasts payload to every attached client. Clients that cannot be written to are closed.
func (hub *Hub) Send(ctx context.Context, payload []byte) error {
	hub.mu.Lock()
	clients := make([]*client, 0, len(hub.clients))
	for _, c := range hub.clients {
		clients = append(clients, c)
	}
	hub.mu.Unlock()

	var err error
	for _, c := range clients {
		if writeErr := hub.write(ctx, c.conn, payload); writeErr != nil {
			err = multierr.Append(err, fmt.Errorf("client %s: %w", c.id, writeErr))
			c.conn.CloseNow()
		}
	}

	return err
}

// WaitAttached blocks until a client attached at or after since.
func (hub *Hub) WaitAttached(ctx context.Context, since time.Time) error {
	for {
		hub.mu.Lock()
		if !hub.lastAttach.IsZero() && !hub.lastAttach.Before(since) {
			hub.mu.Unlock()
			return nil
		}
		if hub.attachSignal == nil {
			hub.attachSignal = make(chan struct{})
		}
		signal := hub.attachSignal
		hub.mu.Unlock()

		select {
		case <-signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (hub *Hub) NumClients() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	return len(hub.clients)
}

// ClientScript is a module script that attaches to the hub at websocketPath and shows pushed errors.
func ClientScript(websocketPath string) string {
	return strings.ReplaceAll(clientScriptTemplate, "{{path}}", websocketPath)
}

const clientScriptTemplate = `const url = new URL("{{path}}", location.href);
url.protocol = url.protocol === "https:" ? "wss:" : "ws:";

const socket = new WebSocket(url);
socket.addEventListener("message", (event) => {
	const message = JSON.parse(event.data);
	if (message.type !== "error") {
		return;
	}

	const overlay = document.createElement("pre");
	overlay.id = "live-reload-error-overlay";
	overlay.style.cssText = "position:fixed;inset:0;margin:0;padding:2rem;overflow:auto;background:#1b1b1f;color:#ff8a8a;z-index:2147483647;white-space:pre-wrap";
	overlay.textContent = [message.err.name + ": " + message.err.message, message.err.hint, message.err.stack]
		.filter(Boolean)
		.join("\n\n");
	document.getElementById(overlay.id)?.remove();
	document.body.appendChild(overlay);
});
socket.addEventListener("close", () => setTimeout(() => location.reload(), 1000));
`

// ClientScriptHandler serves ClientScript.
func ClientScriptHandler(websocketPath string) http.Handler {
	script := []byte(ClientScript(websocketPath))

	return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		if _, err := w.Write(script); err != nil {
			motmedelLog.LogWarning(
				request.Context(),
				"The live-reload client script could not be written.",
				motmedelErrors.New(fmt.Errorf("response writer write: %w", err)),
				slog.Default(),
			)
		}
	})
}
