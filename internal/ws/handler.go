package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	filterLocal  = "ws.filter"
	sendCapacity = 256
)

// Handler serves the attendance feed. UpgradeMiddleware must run first.
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		filter, _ := conn.Locals(filterLocal).(EventFilter)
		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, sendCapacity),
			filter: filter,
		}

		if !hub.join(client) {
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}

// UpgradeMiddleware rejects plain HTTP with 426 and a bad ?events= list with
// 400, before the connection is upgraded.
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		filter, err := ParseEventFilter(c.Query("events"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		c.Locals(filterLocal, filter)
		return c.Next()
	}
}
