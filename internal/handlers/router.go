package handlers

import (
	"petshop/internal/app"
	"petshop/internal/handlers/middleware"
	"petshop/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func newHandler(app *app.App, router fiber.Router, file string) Handler {
	return Handler{
		middleware: app.Middleware,
		log:        logger.New("handlers").File(file),
		router:     router,
	}
}

func Router(router fiber.Router, app *app.App) error {
	router.Use(app.Middleware.TraceID())

	if app.Websocket != nil {
		NewEventFeedHandler(app, router).Register()
	}

	api := router.Group("/api")
	HealthHandler(api, app.Config)

	protected := api.Group("", app.Middleware.RequireAuth())
	NewMeHandler(app, protected).Register()
	NewJobHandler(app, protected).Register()
	NewPetHandler(app, protected).Register()
	NewCustomerHandler(app, protected).Register()
	NewWorkerHandler(app, protected).Register()

	return nil
}
