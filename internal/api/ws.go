package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"taskdesk/internal/middleware"
	ws "taskdesk/internal/websocket"
)

// RegisterTaskEvents exposes the task-event stream at /ws. Clients must hold
// a valid session; they receive a JSON event whenever one of the worker's
// completion jobs fires.
func RegisterTaskEvents(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", middleware.RequireSession, websocket.New(func(conn *websocket.Conn) {
		client := &ws.Client{Conn: conn}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
		}()
		// Subscribers only listen; keep reading so the close is noticed.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
