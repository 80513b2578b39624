package handlers

import (
	"petshop/internal/app"
	"petshop/internal/handlers/middleware"
	"petshop/internal/websockets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventFeedHandler serves the live job feed. Authentication happens inside
// the socket, so the route sits outside the protected group.
type EventFeedHandler struct {
	Handler
	feed *websockets.Manager
}

func NewEventFeedHandler(app *app.App, router fiber.Router) *EventFeedHandler {
	return &EventFeedHandler{
		Handler: newHandler(app, router, "events_handler"),
		feed:    app.Websocket,
	}
}

func (h *EventFeedHandler) Register() {
	h.router.Get("/ws", h.requireUpgrade, websocket.New(h.stream))
}

func (h *EventFeedHandler) requireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

func (h *EventFeedHandler) stream(c *websocket.Conn) {
	h.log.Function("stream").Debug("Feed connection opened",
		"traceID", c.Locals(middleware.TraceIDLocalKey),
		"remote", c.RemoteAddr().String(),
	)
	h.feed.HandleWebSocket(c)
}
