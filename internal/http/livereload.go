package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"docsite/internal/contextutil"
)

// ReloadMessage is sent to every client after a successful rebuild.
const ReloadMessage = "reload"

const writeTimeout = 5 * time.Second

// LiveReload tracks connected browsers and tells them to reload.
type LiveReload struct {
	upgrader websocket.Upgrader
	conns    map[*websocket.Conn]struct{}
	mu       sync.Mutex
}

// NewLiveReload creates a LiveReload hub with no clients.
func NewLiveReload() *LiveReload {
	return &LiveReload{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // dev server, any origin
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (l *LiveReload) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(ctx, "websocket upgrade failed", "error", err)
		return
	}

	l.mu.Lock()
	l.conns[conn] = struct{}{}
	l.mu.Unlock()
	logger.DebugContext(ctx, "live reload client connected")

	defer l.remove(conn)

	// Clients never send anything; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (l *LiveReload) remove(conn *websocket.Conn) {
	l.mu.Lock()
	delete(l.conns, conn)
	l.mu.Unlock()
	_ = conn.Close()
}

// Broadcast sends msg to every connected client and drops clients that
// cannot be written to. It returns the number of clients reached.
func (l *LiveReload) Broadcast(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	sent := 0
	for conn := range l.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			delete(l.conns, conn)
			_ = conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// Reload tells every client to reload.
func (l *LiveReload) Reload() int {
	return l.Broadcast(ReloadMessage)
}

// Clients returns the number of connected clients.
func (l *LiveReload) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.conns)
}

// Close disconnects every client.
func (l *LiveReload) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for conn := range l.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
		delete(l.conns, conn)
	}
}
