package websocket

import (
	"time"

	"movein-backend/config"
	"movein-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 64
	maxInbound   = 4 * 1024
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// AuthService verifies the access token presented on upgrade.
type AuthService interface {
	VerifyToken(tok string, kind token.Kind) (*token.Payload, error)
}

type WsHandler struct {
	hub  *Hub
	auth AuthService
}

func NewWsHandler(hub *Hub, auth AuthService) *WsHandler {
	return &WsHandler{hub: hub, auth: auth}
}

func unauthorized(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Unauthorized",
		"error":   reason,
	})
}

// HandleWebSocket authenticates with the access token cookie and upgrades the connection.
// The socket is push-only; inbound frames are read and discarded.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	raw := c.Cookies("access_token")
	if raw == "" {
		config.Logger.Debug("WebSocket upgrade without access token", zap.String("client_ip", c.IP()))
		return unauthorized(c, "Authentication required")
	}
	payload, err := h.auth.VerifyToken(raw, token.AccessToken)
	if err != nil {
		config.Logger.Warn("WebSocket upgrade with invalid access token", zap.Error(err))
		return unauthorized(c, "Invalid or expired token")
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:     uuid.New(),
			UserID: payload.UserID,
			Conn:   conn,
			Hub:    h.hub,
			Send:   make(chan WebSocketMessage, sendBuffer),
		}
		if !h.hub.join(client) {
			config.Logger.Debug("WebSocket upgrade during shutdown", zap.String("user_id", client.UserID.String()))
			conn.Close()
			return
		}
		config.Logger.Info("WebSocket client connected",
			zap.String("client_id", client.ID.String()),
			zap.String("user_id", client.UserID.String()),
		)

		go client.writeLoop()
		client.readLoop()
	})(c)
}

func (c *Client) readLoop() {
	defer func() {
		c.Hub.leave(c)
		c.Conn.Close()
	}()

	extend := func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) }
	c.Conn.SetReadLimit(maxInbound)
	extend("")
	c.Conn.SetPongHandler(extend)

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket closed unexpectedly",
					zap.String("client_id", c.ID.String()),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// writeLoop ends when the hub closes Send or a write fails.
func (c *Client) writeLoop() {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Debug("WebSocket write failed", zap.String("client_id", c.ID.String()), zap.Error(err))
				return
			}
		case <-ping.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
