package server

import (
	"fmt"
	"time"

	"petshop/config"
	"petshop/internal/app"
	"petshop/internal/handlers"
	"petshop/internal/handlers/middleware"
	"petshop/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/helmet/v2"
)

// Nothing in the API removes a row; jobs, pets and people are only created
// and edited.
const (
	allowedMethods = "GET, POST, PUT, PATCH, OPTIONS"
	allowedHeaders = "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, " + middleware.TraceIDHeader
	exposedHeaders = "Upgrade, " + middleware.TraceIDHeader
)

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing server")

	server := fiber.New(fiberConfig(app.Config))
	if app.Config.IsDevelopment() {
		log.Info("Enabling development mode", "routes", true)
	}

	useMiddleware(server, app.Config)

	if err := handlers.Router(server, app); err != nil {
		return &AppServer{}, log.Err("failed to initialize handlers", err)
	}

	return &AppServer{FiberApp: server, log: log}, nil
}

// fiberConfig keeps request bodies small: the largest payload is a customer
// with an address.
func fiberConfig(cfg config.Config) fiber.Config {
	return fiber.Config{
		ServerHeader:             fmt.Sprintf("petshop/%s", cfg.GeneralVersion),
		AppName:                  "petshop_server",
		BodyLimit:                1 * 1024 * 1024,
		ReadBufferSize:           16384,
		WriteBufferSize:          16384,
		EnableSplittingOnParsers: true,
		EnableTrustedProxyCheck:  true,
		ReadTimeout:              30 * time.Second,
		WriteTimeout:             30 * time.Second,
		IdleTimeout:              120 * time.Second,
		DisableStartupMessage:    !cfg.IsDevelopment(),
		EnablePrintRoutes:        cfg.IsDevelopment(),
		ErrorHandler:             handlers.ErrorHandler,
	}
}

func useMiddleware(server *fiber.App, cfg config.Config) {
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsAllowOrigins,
		AllowMethods:     allowedMethods,
		AllowHeaders:     allowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
		ExposeHeaders:    exposedHeaders,
	}))

	server.Use(fiberLogs.New())
	server.Use(compress.New())

	// JSON only: no page is ever rendered, so nothing may be framed or loaded.
	server.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
		ContentSecurityPolicy:     "default-src 'none'",
	}))
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port == 0 {
		return log.Error("invalid port", "port", port)
	}

	log.Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}
