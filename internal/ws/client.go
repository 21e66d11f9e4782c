package ws

import (
	"log/slog"
	"sync"
	"time"

	"quiz_duel/internal/duel"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 8192
	sendBuffer     = 256
)

// Client одно websocket соединение игрока
type Client struct {
	PlayerID string
	Name     string
	Conn     *websocket.Conn

	room      *Room
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	log       *slog.Logger
}

func NewClient(playerID, name string, conn *websocket.Conn, room *Room) *Client {
	return &Client{
		PlayerID: playerID,
		Name:     name,
		Conn:     conn,
		room:     room,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		log:      room.log.With("player", playerID),
	}
}

// Send неблокирующая постановка в очередь записи
func (c *Client) Send(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close останавливает writePump; соединение закроется вместе с ним
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Run привязывает клиента к комнате и блокируется до обрыва соединения
func (c *Client) Run() {
	go c.writePump()

	if err := c.room.Attach(c.PlayerID, c.Name, c); err != nil {
		c.log.Warn("attach failed", "error", err)
		c.Close()
		return
	}

	c.readPump()
	c.room.Detach(c.PlayerID, c)
	c.Close()
}

func (c *Client) readPump() {
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("read error", "error", err)
			}
			return
		}

		a, err := DecodeAction(c.PlayerID, raw)
		if err != nil {
			c.reject(err)
			continue
		}
		if !c.room.Enqueue(a) {
			return
		}
	}
}

func (c *Client) reject(err error) {
	msg, mErr := encode(string(duel.EvRejected), duel.Rejected{Reason: err.Error()})
	if mErr != nil {
		return
	}
	c.Send(msg)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("write error", "error", err)
				c.Close()
				return
			}

		case <-c.done:
			// дописываем то, что комната успела поставить в очередь (например gameOver)
			for {
				select {
				case msg := <-c.send:
					_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				default:
					_ = c.Conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
