package simws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/simdrive/driveclient/pkg/wire"
)

const sendChSize = 256

// ErrSessionClosed is returned for calls issued after the session ended.
var ErrSessionClosed = errors.New("session closed")

// connection manages the WebSocket session with a single write goroutine and
// a read loop that routes responses to pending calls by correlation id.
// There is no reconnect: a transport error fails every in-flight call and
// the scenario aborts.
type connection struct {
	mu      sync.Mutex
	conn    *ws.Conn
	pending map[uint64]chan wire.Envelope
	closed  bool
	err     error // first transport error, sticky

	sendCh chan []byte
	done   chan struct{}

	nextID  atomic.Uint64
	timeout atomic.Int64 // call/handshake budget in nanoseconds

	logger *slog.Logger
}

func newConnection(logger *slog.Logger) *connection {
	c := &connection{
		pending: make(map[uint64]chan wire.Envelope),
		sendCh:  make(chan []byte, sendChSize),
		done:    make(chan struct{}),
		logger:  logger,
	}
	c.timeout.Store(int64(10 * time.Second))
	return c
}

// setTimeout bounds the dial handshake and every subsequent call.
func (c *connection) setTimeout(d time.Duration) {
	c.timeout.Store(int64(d))
}

func (c *connection) callTimeout() time.Duration {
	return time.Duration(c.timeout.Load())
}

// dial connects to the simulation server and starts the read/write loops.
func (c *connection) dial(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid session URL: %w", err)
	}

	dialer := ws.Dialer{HandshakeTimeout: c.callTimeout()}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.writeLoop()
	go c.readLoop()

	return nil
}

// call sends a request envelope and blocks until the matching response
// arrives, the call budget expires, or the session dies.
func (c *connection) call(method string, payload any) (json.RawMessage, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", method, err)
		}
		raw = data
	}

	id := c.nextID.Add(1)
	env := wire.Envelope{ID: id, Type: method, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", method, err)
	}

	respCh := make(chan wire.Envelope, 1)
	c.mu.Lock()
	if c.closed {
		err := c.err
		c.mu.Unlock()
		if err == nil {
			err = ErrSessionClosed
		}
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	c.pending[id] = respCh
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	timer := time.NewTimer(c.callTimeout())
	defer timer.Stop()

	select {
	case c.sendCh <- data:
	case <-timer.C:
		return nil, fmt.Errorf("%s: send timed out", method)
	case <-c.done:
		return nil, fmt.Errorf("%s: %w", method, c.closeErr())
	}

	select {
	case resp := <-respCh:
		if resp.Type == wire.TypeError {
			var ep wire.ErrorPayload
			if err := json.Unmarshal(resp.Payload, &ep); err != nil {
				return nil, fmt.Errorf("%s: server error (unreadable detail)", method)
			}
			return nil, fmt.Errorf("%s: server error: %s", method, ep.Message)
		}
		return resp.Payload, nil
	case <-timer.C:
		return nil, fmt.Errorf("%s: timed out after %s", method, c.callTimeout())
	case <-c.done:
		return nil, fmt.Errorf("%s: %w", method, c.closeErr())
	}
}

func (c *connection) closeErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return ErrSessionClosed
}

// writeLoop drains sendCh and writes messages to the WebSocket.
func (c *connection) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()

			if conn == nil {
				return
			}

			if err := conn.SetWriteDeadline(time.Now().Add(c.callTimeout())); err != nil {
				c.fail(fmt.Errorf("websocket set write deadline: %w", err))
				return
			}
			if err := conn.WriteMessage(ws.TextMessage, data); err != nil {
				c.fail(fmt.Errorf("websocket write: %w", err))
				return
			}
		}
	}
}

// readLoop reads envelopes and routes responses to their pending calls.
func (c *connection) readLoop() {
	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.fail(fmt.Errorf("websocket read: %w", err))
			}
			return
		}

		var env wire.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.logger.Debug("Unparseable message from server", "raw", string(message))
			continue
		}

		if env.ID == 0 {
			// Unsolicited server event; the scenario does not consume these.
			c.logger.Debug("Server event", "type", env.Type)
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[env.ID]
		c.mu.Unlock()
		if !ok {
			c.logger.Debug("Response for unknown call", "id", env.ID, "type", env.Type)
			continue
		}
		ch <- env
	}
}

// fail records the first transport error and wakes every in-flight call.
func (c *connection) fail(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.err = err
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.logger.Error("Session transport failed", "error", err)
	close(c.done)
	if conn != nil {
		_ = conn.Close()
	}
}

// close sends a WebSocket close frame and shuts down the loops.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	close(c.done)

	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""), deadline)
		return conn.Close()
	}
	return nil
}
