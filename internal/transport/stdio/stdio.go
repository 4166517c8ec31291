package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/zmcp/ga4-mcp/internal/transport"
)

// StdioTransport implements the Transport interface for line-delimited
// JSON over stdin/stdout.
type StdioTransport struct {
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex
	handler transport.Handler
}

// New creates a new stdio transport
func New(handler transport.Handler) *StdioTransport {
	return &StdioTransport{
		reader:  bufio.NewReader(os.Stdin),
		writer:  os.Stdout,
		handler: handler,
	}
}

// Start begins processing messages from stdio. Each request is dispatched
// on its own goroutine so a slow upstream call never blocks the read loop;
// WriteMessage serializes concurrent writers.
func (t *StdioTransport) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := t.ReadMessage()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				// Malformed line; keep reading. No logging here, stdout
				// and stderr must stay clean for the protocol.
				continue
			}

			if msg.Method == "" || t.handler == nil {
				continue
			}

			wg.Add(1)
			go func(msg *transport.Message) {
				defer wg.Done()
				t.dispatch(ctx, msg)
			}(msg)
		}
	}
}

func (t *StdioTransport) dispatch(ctx context.Context, msg *transport.Message) {
	response, err := t.handler(ctx, msg)
	if err != nil {
		msgID := msg.ID
		if msgID == nil || string(msgID) == "null" {
			msgID = json.RawMessage("0")
		}
		errorResponse := &transport.Message{
			JSONRPC: "2.0",
			ID:      msgID,
			Error: &transport.Error{
				Code:    -32603,
				Message: err.Error(),
			},
		}
		_ = t.WriteMessage(errorResponse)
		return
	}
	if response != nil {
		_ = t.WriteMessage(response)
	}
}

// ReadMessage reads a line-delimited JSON message from stdin
func (t *StdioTransport) ReadMessage() (*transport.Message, error) {
	line, err := t.reader.ReadBytes('\n')
	if err != nil {
		return nil, err
	}

	var msg transport.Message
	if err := json.Unmarshal(line, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// WriteMessage writes a JSON message to stdout
func (t *StdioTransport) WriteMessage(msg *transport.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.writer.Write(data); err != nil {
		return err
	}
	if _, err := t.writer.Write([]byte("\n")); err != nil {
		return err
	}
	return nil
}

// Close closes the transport (no-op for stdio)
func (t *StdioTransport) Close() error {
	return nil
}
