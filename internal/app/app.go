package app

import (
	"context"
	"reflect"

	"petshop/config"
	"petshop/internal/controllers"
	"petshop/internal/database"
	"petshop/internal/events"
	"petshop/internal/handlers/middleware"
	"petshop/internal/jobs"
	"petshop/internal/repositories"
	"petshop/internal/services"
	"petshop/internal/websockets"
	"petshop/pkg/logger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)

	services, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}
	repos := repositories.New(db)

	websocket, err := websockets.New(db, eventBus, config, services.Token, repos.User)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, services.Token, config, repos)
	controllers := controllers.New(services, repos, eventBus, config, db)

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(services.Scheduler, config, repos, eventBus, db); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}

		if err := services.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    services,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]any{
		"websocket":          a.Websocket,
		"eventBus":           a.EventBus,
		"transactionService": a.Services.Transaction,
		"schedulerService":   a.Services.Scheduler,
		"addressService":     a.Services.Address,
		"tokenService":       a.Services.Token,
		"userRepository":     a.Repos.User,
		"petRepository":      a.Repos.Pet,
		"jobRepository":      a.Repos.Job,
		"jobController":      a.Controllers.Job,
		"petController":      a.Controllers.Pet,
		"customerController": a.Controllers.Customer,
		"workerController":   a.Controllers.Worker,
	}

	for name, check := range nilChecks {
		if isNil(check) {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil && a.Services.Scheduler.IsRunning() {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
