package socket

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"talentbridge/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is handled by the CORS middleware on the HTTP side.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket subscriber.
type Client struct {
	Hub        *Hub
	Conn       *websocket.Conn
	Topics     []string
	RemoteAddr string
	Send       chan []byte
}

// ServeWs upgrades the connection and registers the client for the
// collections named in the "topics" query parameter (comma-separated);
// with no parameter the client receives every event.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	topics := []string{TopicAll}
	if raw := r.URL.Query().Get("topics"); raw != "" {
		topics = nil
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}

	client := &Client{
		Hub:        hub,
		Conn:       conn,
		Topics:     topics,
		RemoteAddr: r.RemoteAddr,
		Send:       make(chan []byte, 256),
	}
	hub.Register <- client

	go client.writePump()
	go client.readPump()
}

// readPump exists only to notice the peer going away; the feed is one-way.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Debugf("feed client read error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			c.Conn.WriteMessage(websocket.TextMessage, message)
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
