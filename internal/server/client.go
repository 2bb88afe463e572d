package server

import (
	"net/http"
	"time"

	"ghost-server/internal/engine"
	"ghost-server/pkg/api"
	"ghost-server/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и хостом
type Client struct {
	Host *engine.Host
	Conn *websocket.Conn
	Send chan api.ServerResponse
	ID   string
}

// NewClient подписывает клиента на снимки и сразу кладет ему текущий.
func NewClient(host *engine.Host, conn *websocket.Conn) *Client {
	c := &Client{
		Host: host,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
		ID:   uuid.NewString(),
	}

	updates := host.Hub.Register(c.ID)
	host.Hub.SendTo(c.ID, host.Snapshot())

	// Пересылка из Hub в writePump
	go func() {
		for msg := range updates {
			// writePump мог уже выйти: не блокируемся
			select {
			case c.Send <- msg:
			default:
			}
		}
		close(c.Send)
	}()

	logger.Log.WithField("client_id", c.ID).Info("Client connected")
	return c
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Host.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
		logger.Log.WithField("client_id", c.ID).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Error("WS read error")
			}
			break
		}

		if !c.Host.ProcessCommand(cmd) {
			// Ответ только этому клиенту; снимок берем последний разосланный
			resp := c.Host.Snapshot()
			resp.Type = "ERROR"
			resp.Logs = []api.LogEntry{{
				ID:        c.ID,
				Text:      "Команда отклонена: " + cmd.Action,
				Type:      "ERROR",
				Timestamp: time.Now().UnixMilli(),
			}}
			c.Host.Hub.SendTo(c.ID, resp)
			logger.Log.WithFields(logrus.Fields{
				"client_id": c.ID,
				"action":    cmd.Action,
			}).Debug("Command rejected")
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
