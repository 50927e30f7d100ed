package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Client is one WebSocket connection carrying one Session.
type Client struct {
	ID      uuid.UUID
	hub     *Hub
	conn    *websocket.Conn
	session *Session
	send    chan []byte
	events  chan Event
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
	logger  *slog.Logger
}

// Serve attaches conn to the hub and starts the pumps; it returns immediately.
// It returns nil when the hub is already stopped.
func (h *Hub) Serve(conn *websocket.Conn, session *Session) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		ID:      session.ID,
		hub:     h,
		conn:    conn,
		session: session,
		send:    make(chan []byte, sendBuffer),
		events:  make(chan Event),
		ctx:     ctx,
		cancel:  cancel,
		logger:  h.logger.With(slog.String("client_id", session.ID.String())),
	}
	if !h.Register(c) {
		c.close()
		return nil
	}

	go c.writePump()
	go c.session.Run(ctx, c.events, c.emit)
	go c.readPump()
	return c
}

func (c *Client) close() {
	c.once.Do(func() {
		c.cancel()
		c.conn.Close()
	})
}

func (c *Client) emit(frame any) {
	msg, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error("failed to encode live frame", slog.Any("error", err))
		return
	}
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	}
}

func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		var ev Event
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("live client read failed", slog.Any("error", err))
			}
			return
		}
		select {
		case c.events <- ev:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("live client write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"),
				time.Now().Add(writeWait))
			return
		}
	}
}
