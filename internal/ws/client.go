// File: internal/ws/client.go
package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxFrameSize   = 1 << 20 // 1MB
	handlerTimeout = 10 * time.Second
)

// Client is one live authenticated socket. The token is kept for the
// membership checks every room-scoped event performs.
//
// send is never closed: a broadcaster may hold a room snapshot taken
// before this client disconnected and deliver into it afterwards. done
// signals the write pump instead, and the channel is left for the GC.
type Client struct {
	ID     string
	UserID int

	token string
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	done  chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, userID int, token string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		token:  token,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// deliver queues one outbound frame. A slow consumer misses frames rather
// than stalling the broadcaster, and frames for a disconnected client are
// dropped silently.
func (c *Client) deliver(frame []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- frame:
	default:
		log.Printf("[WS] Client %s (user %d) send buffer full, dropping frame", c.ID, c.UserID)
	}
}

// readPump dispatches inbound frames until the socket dies. One handler
// invocation per event, sequential within the connection, concurrent
// across connections.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Client %s (user %d) read error: %v", c.ID, c.UserID, err)
			}
			break
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.hub.sendError(c, "Malformed frame", err.Error())
			continue
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	switch frame.Event {
	case EventJoinProject:
		c.hub.handleJoinProject(ctx, c, frame.Data)
	case EventLeaveProject:
		c.hub.handleLeaveProject(ctx, c, frame.Data)
	case EventSendMessage:
		c.hub.handleSendMessage(ctx, c, frame.Data)
	case EventEditMessage:
		c.hub.handleEditMessage(ctx, c, frame.Data)
	case EventDeleteMessage:
		c.hub.handleDeleteMessage(ctx, c, frame.Data)
	case EventTypingStart:
		c.hub.handleTyping(ctx, c, frame.Data, true)
	case EventTypingStop:
		c.hub.handleTyping(ctx, c, frame.Data, false)
	case EventGetOnlineUsers:
		c.hub.handleOnlineUsers(ctx, c, frame.Data)
	default:
		c.hub.sendError(c, "Unknown event", frame.Event)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
