package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/zmcp/ga4-mcp/internal/transport"
)

// SSETransport implements the Transport interface over HTTP. Requests are
// accepted on /rpc (plain request-response) and /sse (Server-Sent Events
// stream for pushed responses).
type SSETransport struct {
	addr    string
	server  *http.Server
	handler transport.Handler
	clients map[string]*sseClient
	mu      sync.RWMutex
}

type sseClient struct {
	id     string
	events chan []byte
}

// NewSSE creates a new HTTP/SSE transport listening on addr
func NewSSE(addr string, handler transport.Handler) *SSETransport {
	return &SSETransport{
		addr:    addr,
		handler: handler,
		clients: make(map[string]*sseClient),
	}
}

// Start initializes the HTTP server and blocks until ctx is cancelled
func (t *SSETransport) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/sse", t.handleSSE)
	mux.HandleFunc("/rpc", t.handleRPC)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	t.server = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return t.Close()
	}
}

// handleSSE registers an event-stream client and pushes broadcast messages
func (t *SSETransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	client := &sseClient{
		id:     fmt.Sprintf("client-%d", time.Now().UnixNano()),
		events: make(chan []byte, 10),
	}

	t.mu.Lock()
	t.clients[client.id] = client
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.clients, client.id)
		t.mu.Unlock()
	}()

	fmt.Fprintf(w, "data: {\"type\":\"connected\",\"clientId\":%q}\n\n", client.id)
	flusher.Flush()

	for {
		select {
		case event := <-client.events:
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// handleRPC handles plain HTTP request-response JSON-RPC
func (t *SSETransport) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg transport.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := t.handler(r.Context(), &msg)
	if err != nil {
		response = &transport.Message{
			JSONRPC: "2.0",
			ID:      msg.ID,
			Error: &transport.Error{
				Code:    -32603,
				Message: err.Error(),
			},
		}
	}

	if response == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ReadMessage is not used for HTTP/SSE transport
func (t *SSETransport) ReadMessage() (*transport.Message, error) {
	return nil, fmt.Errorf("ReadMessage not implemented for HTTP/SSE transport")
}

// WriteMessage broadcasts a message to all connected SSE clients
func (t *SSETransport) WriteMessage(msg *transport.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, client := range t.clients {
		select {
		case client.events <- data:
		default:
			// Client buffer full, skip
		}
	}
	return nil
}

// Close gracefully shuts down the HTTP server
func (t *SSETransport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}
