package handlers

import (
	"petshop/internal/app"
	"petshop/internal/handlers/middleware"
	"petshop/internal/types"

	"github.com/gofiber/fiber/v2"
)

type MeHandler struct {
	Handler
}

func NewMeHandler(app *app.App, router fiber.Router) *MeHandler {
	return &MeHandler{Handler: newHandler(app, router, "me_handler")}
}

func (h *MeHandler) Register() {
	h.router.Get("/me", h.getCurrentUser)
}

func (h *MeHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return types.ErrUnauthorized
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"actor": user.Actor(),
	})
}
