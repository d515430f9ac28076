package wsserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"echocast/internal/capture"
)

// writeDeadline is the maximum time allowed for a single WebSocket write to
// complete. If a client stalls longer than this, the connection is considered dead.
const writeDeadline = 5 * time.Second

// readDeadline is the maximum time the server waits for any read activity
// (including pong responses) before considering the connection dead.
// 90 seconds allows for ~3 missed pings (pingInterval=30s) before timeout.
const readDeadline = 90 * time.Second

// pingInterval is the interval between server-initiated WebSocket pings.
const pingInterval = 30 * time.Second

// maxReadMessageSize limits the maximum size of incoming WebSocket messages.
// Subscription payloads are well under 1 KiB.
const maxReadMessageSize = 32 * 1024

const (
	defaultQueueSize  = 256
	defaultMaxClients = 8
)

// HubOptions configures the WebSocket server.
type HubOptions struct {
	// Addr is the listen address. Use "127.0.0.1:0" for OS-assigned port.
	// Non-loopback hosts are rejected by Start.
	Addr string
	// QueueSize bounds the per-client send queue. Events are dropped for a
	// client whose queue is full.
	QueueSize int
	// MaxClients caps concurrent connections.
	MaxClients int
	// AllowedOrigins extends the built-in origin allow list (webview and
	// localhost pages). Entries are compared against the Origin header
	// scheme://host[:port].
	AllowedOrigins []string
}

// client is one connected WebSocket peer. Only writePump writes to conn.
type client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	dropped atomic.Uint64

	// kinds is guarded by Hub.mu.
	kinds map[capture.Kind]bool

	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Hub fans normalized input events out to any number of loopback WebSocket
// clients. Each client has its own bounded queue and writer goroutine so a
// slow client never blocks Broadcast or other clients.
type Hub struct {
	opts     HubOptions
	upgrader websocket.Upgrader

	// mu protects clients and every client's kinds map.
	mu      sync.RWMutex
	clients map[string]*client

	dropped atomic.Uint64
	sent    atomic.Uint64

	listener net.Listener
	server   *http.Server
	url      string // "ws://127.0.0.1:<port>/ws", set after Start

	// closeOnce ensures Stop is idempotent. Once Stop has been called,
	// the Hub cannot be reused; create a new Hub instance instead.
	closeOnce sync.Once
	stopped   atomic.Bool
}

// Stats is a snapshot of hub counters.
type Stats struct {
	Clients int    `json:"clients"`
	Sent    uint64 `json:"sent"`
	Dropped uint64 `json:"dropped"`
}

// NewHub creates a Hub with the given options.
// The hub is not started until Start is called.
func NewHub(opts HubOptions) *Hub {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.MaxClients <= 0 {
		opts.MaxClients = defaultMaxClients
	}
	h := &Hub{
		opts:    opts,
		clients: make(map[string]*client),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin:     h.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 4 * 1024,
	}
	return h
}

// Start begins listening on the configured address and serves WebSocket
// connections. The context is used for the server's BaseContext: when ctx is
// cancelled, active request handlers receive cancellation. The server itself
// must be stopped explicitly via Stop.
//
// Returns an error if the address is not loopback or the listener cannot be
// created (e.g. port in use).
func (h *Hub) Start(ctx context.Context) error {
	if h.server != nil {
		return fmt.Errorf("wsserver: already started")
	}
	if err := requireLoopback(h.opts.Addr); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", h.opts.Addr)
	if err != nil {
		return fmt.Errorf("wsserver: listen: %w", err)
	}
	h.listener = ln

	port := ln.Addr().(*net.TCPAddr).Port
	h.url = fmt.Sprintf("ws://127.0.0.1:%d/ws", port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)

	h.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if serveErr := h.server.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("[WS] server error", "error", serveErr)
		}
	}()

	slog.Info("[WS] server started", "url", h.url)
	return nil
}

// Stop gracefully shuts down the HTTP server and closes all client
// connections. Safe to call multiple times (idempotent via sync.Once).
func (h *Hub) Stop() error {
	var stopErr error
	h.closeOnce.Do(func() {
		h.stopped.Store(true)

		h.mu.Lock()
		clients := h.clients
		h.clients = make(map[string]*client)
		h.mu.Unlock()

		for _, c := range clients {
			c.close()
			h.closeConn(c.conn, "hub stop")
		}

		if h.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.server.Shutdown(shutdownCtx); err != nil {
				stopErr = fmt.Errorf("wsserver: shutdown: %w", err)
			}
		}

		slog.Info("[WS] server stopped", "sent", h.sent.Load(), "dropped", h.dropped.Load())
	})
	return stopErr
}

// URL returns the WebSocket URL for frontend connection
// (e.g. "ws://127.0.0.1:54321/ws").
// Returns empty string if the server has not started.
func (h *Hub) URL() string {
	return h.url
}

// HasActiveConnection reports whether at least one client is connected.
func (h *Hub) HasActiveConnection() bool {
	h.mu.RLock()
	active := len(h.clients) > 0
	h.mu.RUnlock()
	return active
}

// Stats returns current counters.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	return Stats{Clients: n, Sent: h.sent.Load(), Dropped: h.dropped.Load()}
}

// Broadcast enqueues ev for every client subscribed to its kind. It never
// blocks: a client whose queue is full misses the event.
func (h *Hub) Broadcast(ev capture.Event) error {
	frame, err := EncodeEvent(ev)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.kinds[ev.Kind] {
			continue
		}
		select {
		case c.send <- frame:
			h.sent.Add(1)
		default:
			// Logged at Debug: a stalled client would otherwise flood the log at mousemove rate.
			if c.dropped.Add(1) == 1 {
				slog.Debug("[WS] client queue full, dropping events", "clientId", c.id)
			}
			h.dropped.Add(1)
		}
	}
	return nil
}

// Emit adapts Broadcast to capture.Sink.
func (h *Hub) Emit(ev capture.Event) error {
	return h.Broadcast(ev)
}

// handleWS upgrades HTTP to WebSocket, registers the client and runs its
// read pump until the connection ends.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	if h.stopped.Load() {
		http.Error(w, "server stopping", http.StatusServiceUnavailable)
		return
	}
	h.mu.RLock()
	full := len(h.clients) >= h.opts.MaxClients
	h.mu.RUnlock()
	if full {
		slog.Warn("[WS] client limit reached, rejecting connection", "max", h.opts.MaxClients)
		http.Error(w, "too many clients", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("[WS] upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(maxReadMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		slog.Warn("[WS] SetReadDeadline failed on new connection", "error", err)
		h.closeConn(conn, "initial SetReadDeadline failure")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	c := &client{
		id:    uuid.NewString(),
		conn:  conn,
		send:  make(chan []byte, h.opts.QueueSize),
		done:  make(chan struct{}),
		kinds: make(map[capture.Kind]bool, len(knownKinds)),
	}
	for k := range knownKinds {
		c.kinds[k] = true
	}

	hello, err := encodeHello(c.id, capture.AllKinds())
	if err != nil {
		slog.Warn("[WS] failed to encode hello", "error", err)
		h.closeConn(conn, "hello encode failure")
		return
	}
	c.send <- hello

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	slog.Info("[WS] client connected", "clientId", c.id, "remoteAddr", conn.RemoteAddr())

	go h.writePump(c)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[DEBUG-PANIC] wsserver handleWS recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
		h.removeClient(c)
		h.closeConn(conn, "read pump exit")
		slog.Info("[WS] client disconnected", "clientId", c.id, "dropped", c.dropped.Load())
	}()

	for {
		msgType, msg, readErr := conn.ReadMessage()
		if readErr != nil {
			if websocket.IsUnexpectedCloseError(readErr, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("[WS] read error", "clientId", c.id, "error", readErr)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var subMsg subscribeMsg
		if jsonErr := json.Unmarshal(msg, &subMsg); jsonErr != nil {
			slog.Debug("[WS] invalid JSON from client", "error", jsonErr)
			h.sendError(c, fmt.Sprintf("invalid JSON: %s", jsonErr))
			continue
		}
		h.handleSubscription(c, subMsg)
	}
}

// writePump is the only writer for c.conn. It drains the send queue and
// sends keepalive pings until the client is closed or a write fails.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		if rec := recover(); rec != nil {
			slog.Error("[DEBUG-PANIC] wsserver writePump recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
		h.removeClient(c)
		h.closeConn(c.conn, "write pump exit")
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			if err := h.write(c.conn, websocket.TextMessage, frame); err != nil {
				slog.Debug("[WS] write failed, closing connection", "clientId", c.id, "error", err)
				return
			}
		case <-ticker.C:
			if err := h.write(c.conn, websocket.PingMessage, nil); err != nil {
				slog.Debug("[WS] ping failed, connection likely dead", "clientId", c.id, "error", err)
				return
			}
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, msgType int, payload []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	return conn.WriteMessage(msgType, payload)
}

// removeClient unregisters c and stops its writer. Safe to call repeatedly.
func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	if h.clients[c.id] == c {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	c.close()
}

// closeConn closes a WebSocket connection. Double-close returns an error from
// gorilla/websocket that is only logged.
func (h *Hub) closeConn(conn *websocket.Conn, reason string) {
	if closeErr := conn.Close(); closeErr != nil {
		slog.Debug("[WS] connection close", "reason", reason, "error", closeErr)
	}
}

// handleSubscription applies a subscribe or unsubscribe action to the
// client's kind set.
func (h *Hub) handleSubscription(c *client, msg subscribeMsg) {
	var unknown []string

	h.mu.Lock()
	switch msg.Action {
	case subscribeAction, unsubscribeAction:
		for _, kind := range msg.Kinds {
			if !knownKinds[kind] {
				unknown = append(unknown, string(kind))
				continue
			}
			c.kinds[kind] = msg.Action == subscribeAction
		}
	default:
		h.mu.Unlock()
		h.sendError(c, fmt.Sprintf("unknown action %q", msg.Action))
		return
	}
	h.mu.Unlock()

	slog.Debug("[WS] subscription updated", "clientId", c.id, "action", msg.Action, "kinds", msg.Kinds)
	if len(unknown) > 0 {
		h.sendError(c, "unknown kinds: "+strings.Join(unknown, ", "))
	}
}

// sendError queues an error frame for c. Dropped if the queue is full.
func (h *Hub) sendError(c *client, message string) {
	payload, err := encodeError(message)
	if err != nil {
		slog.Debug("[WS] failed to marshal error message", "error", err)
		return
	}
	select {
	case c.send <- payload:
	default:
		slog.Debug("[WS] error frame dropped, queue full", "clientId", c.id)
	}
}

// checkOrigin admits non-browser clients (no Origin header), the Wails
// webview, local files and pages served from loopback. Any other web page
// could otherwise read keystrokes through the loopback socket.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "wails", "file":
		return true
	case "http", "https":
		host := strings.ToLower(u.Hostname())
		if host == "localhost" || host == "wails.localhost" {
			return true
		}
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	}
	slog.Warn("[WS] rejected connection from foreign origin", "origin", origin)
	return false
}

func requireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("wsserver: invalid address %q: %w", addr, err)
	}
	if strings.EqualFold(host, "localhost") {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("wsserver: address %q is not loopback", addr)
	}
	return nil
}
