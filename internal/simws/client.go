// Package simws implements the pkg/sim capability view over a WebSocket
// JSON-envelope session with the simulation server.
package simws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/simdrive/driveclient/internal/cache"
	"github.com/simdrive/driveclient/pkg/sim"
	"github.com/simdrive/driveclient/pkg/wire"
)

// Client is an open session to a simulation server.
type Client struct {
	conn   *connection
	logger *slog.Logger

	// actors maps server actor ids to handles, so the same server actor is
	// always represented by one handle on this session.
	actors *cache.HandleCache
}

var _ sim.Client = (*Client)(nil)

// Connect opens a session to the server at host:port.
func Connect(host string, port uint16, logger *slog.Logger) (*Client, error) {
	c := &Client{
		conn:   newConnection(logger),
		logger: logger,
		actors: cache.NewHandleCache(),
	}

	url := fmt.Sprintf("ws://%s:%d/session", host, port)
	if err := c.conn.dial(url); err != nil {
		return nil, fmt.Errorf("connect to %s:%d: %w", host, port, err)
	}
	return c, nil
}

// SetTimeout bounds every blocking call on this session.
func (c *Client) SetTimeout(d time.Duration) {
	c.conn.setTimeout(d)
}

// World queries the currently loaded world.
func (c *Client) World() (sim.World, error) {
	raw, err := c.conn.call(wire.MethodGetWorld, nil)
	if err != nil {
		return nil, err
	}
	var info wire.WorldInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode world info: %w", err)
	}
	return &world{c: c, id: info.WorldID}, nil
}

// Close severs the session. Spawned actors are left to server GC.
func (c *Client) Close() error {
	c.actors.Reset()
	return c.conn.close()
}
