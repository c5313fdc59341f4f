package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"paarth-be/pkg/store"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 10 << 20 // audio chunks arrive base64 encoded
)

var errClientGone = errors.New("websocket client closed")

// Client is a middleman between the websocket connection and the relay.
// It implements store.Transport so the session registry can reach the peer
// without knowing about websockets.
type Client struct {
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// Probe requests from the session registry.
	ping chan struct{}

	closed    chan struct{}
	closeOnce sync.Once

	// Session bound to this connection; owned by readPump.
	session *store.Session
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:   conn,
		send:   make(chan []byte, 256),
		ping:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Send marshals v and queues it for the write pump. A full buffer drops the
// message rather than blocking a generation goroutine.
func (c *Client) Send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case <-c.closed:
		return errClientGone
	case c.send <- data:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Ping asks the write pump to emit a protocol ping. Coalesces when one is
// already pending.
func (c *Client) Ping() error {
	select {
	case <-c.closed:
		return errClientGone
	default:
	}
	select {
	case c.ping <- struct{}{}:
	default:
	}
	return nil
}

func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.Conn.Close()
	})
	return nil
}

// readPump pumps messages from the websocket connection to the relay.
func (c *Client) readPump(relay *Relay) {
	defer c.Close()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				relay.log.Warn("Websocket", "Unexpected close", map[string]interface{}{"error": err.Error()})
			}
			break
		}
		relay.Handle(c, raw)
	}
}

// writePump pumps queued messages to the websocket connection and keeps the
// connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case message := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.ping:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
