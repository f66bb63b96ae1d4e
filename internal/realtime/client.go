package realtime

import (
	"time"

	"github.com/apex/log"
	"github.com/gorilla/websocket"

	"github.com/hiraya-ph/outage-watch/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one WebSocket subscriber, optionally scoped to a table and a
// barangay column filter.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	table    string
	barangay string
}

// NewClient wraps an upgraded connection and registers it with the hub.
func NewClient(hub *Hub, conn *websocket.Conn, table, barangay string) *Client {
	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 64),
		table:    table,
		barangay: barangay,
	}
	hub.register <- client
	return client
}

func announcementScope(event ChangeEvent) models.Announcement {
	return models.Announcement{Barangay: event.Barangay, AffectedAreas: event.Areas}
}

// ReadPump drains client frames until the connection dies, then tears the
// subscription down. Clients do not send application messages; this loop
// exists for close/pong handling.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("realtime client read error")
			}
			return
		}
	}
}

// WritePump forwards broadcast frames and pings the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
