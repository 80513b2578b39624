package jobs

import (
	"petshop/config"
	"petshop/internal/database"
	"petshop/internal/events"
	"petshop/internal/repositories"
	"petshop/internal/services"
	"petshop/internal/utils"
	"petshop/pkg/logger"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	repos repositories.Repository,
	publisher events.Publisher,
	db database.DB,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	loc, err := config.Location()
	if err != nil {
		return log.Err("failed to load business timezone", err)
	}

	agenda := NewDailyAgendaJob(
		repos.Job,
		publisher,
		db.SQL,
		utils.NewBusinessHours(loc),
		services.DailyBeforeOpening,
	)
	if err := schedulerService.AddJob(agenda); err != nil {
		return log.Err("failed to register daily agenda job", err)
	}
	log.Info("Registered daily agenda job", "schedule", "07:00")

	return nil
}
