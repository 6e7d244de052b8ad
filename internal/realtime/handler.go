package realtime

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UpgradeRequired rejects plain HTTP requests on the websocket route.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the connection and runs it until the peer disconnects.
// The user identity comes from the handshake query parameter, matching the
// client contract.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, err := uuid.Parse(conn.Query("userId"))
		if err != nil {
			conn.Close()
			return
		}

		client := newClient(conn)
		channelID := hub.Attach(userID, client)
		slog.Info("push channel connected", "user_id", userID, "channel_id", channelID)

		go client.writePump()
		client.readPump()

		close(client.done)
		hub.Detach(userID, channelID)
		slog.Info("push channel disconnected", "user_id", userID, "channel_id", channelID)
	})
}
