package jobs

import (
	"context"
	"time"

	"petshop/internal/events"
	"petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/services"
	"petshop/internal/utils"
	"petshop/pkg/logger"

	"gorm.io/gorm"
)

// DailyAgendaJob tells connected staff what is booked for the day, most
// urgent first.
type DailyAgendaJob struct {
	jobRepo   repositories.JobRepository
	publisher events.Publisher
	db        *gorm.DB
	hours     utils.BusinessHours
	now       func() time.Time
	log       logger.Logger
	schedule  services.Schedule
}

func NewDailyAgendaJob(
	jobRepo repositories.JobRepository,
	publisher events.Publisher,
	db *gorm.DB,
	hours utils.BusinessHours,
	schedule services.Schedule,
) *DailyAgendaJob {
	return &DailyAgendaJob{
		jobRepo:   jobRepo,
		publisher: publisher,
		db:        db,
		hours:     hours,
		now:       time.Now,
		log:       logger.New("dailyAgendaJob"),
		schedule:  schedule,
	}
}

func (j *DailyAgendaJob) Name() string {
	return "DailyAgenda"
}

func (j *DailyAgendaJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *DailyAgendaJob) Execute(ctx context.Context) error {
	log := j.log.TraceFromContext(ctx).Function("Execute")

	start, end := j.hours.Day(j.now())
	jobs, err := j.jobRepo.ListScheduledBetween(ctx, j.db, start, end)
	if err != nil {
		return log.Err("failed to load today's jobs", err, "day", start.Format(time.DateOnly))
	}
	models.SortJobs(jobs)

	agenda := make([]map[string]any, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		entry := map[string]any{
			"jobId":    job.ID,
			"status":   job.Status,
			"date":     job.Date,
			"groom":    job.Groom,
			"petId":    job.PetID,
			"workerId": job.WorkerID,
		}
		if job.Pet != nil {
			entry["petName"] = job.Pet.Name
			entry["customerId"] = job.Pet.CustomerID
		}
		if job.Worker != nil {
			entry["workerName"] = job.Worker.Name
		}
		agenda = append(agenda, entry)
	}

	event := events.Event{
		Type: events.DAILY_AGENDA,
		Data: map[string]any{
			"day":   start.Format(time.DateOnly),
			"count": len(agenda),
			"jobs":  agenda,
		},
	}
	if err := j.publisher.Publish(events.BROADCAST_CHANNEL, event); err != nil {
		return log.Err("failed to publish daily agenda", err)
	}

	log.Info("Daily agenda published", "day", start.Format(time.DateOnly), "count", len(agenda))
	return nil
}
