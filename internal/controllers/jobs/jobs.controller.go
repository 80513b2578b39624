package jobController

import (
	"context"
	"errors"
	"time"

	"petshop/config"
	"petshop/internal/authorization"
	"petshop/internal/database"
	"petshop/internal/events"
	. "petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/services"
	"petshop/internal/types"
	"petshop/internal/utils"
	"petshop/pkg/logger"

	"gorm.io/gorm"
)

const OptionsLimit = 10

type CreateJobRequest struct {
	Date   *time.Time `json:"date"`
	Bath   *bool      `json:"bath"`
	Groom  *bool      `json:"groom"`
	Pet    int        `json:"pet"`
	Worker int        `json:"worker"`
}

// UpdateJobRequest is a partial update. Nil pointers and unset optional
// timestamps leave the field unchanged; an explicit null clears a timestamp.
type UpdateJobRequest struct {
	Date   *time.Time `json:"date"`
	Bath   *bool      `json:"bath"`
	Groom  *bool      `json:"groom"`
	Pet    *int       `json:"pet"`
	Worker *int       `json:"worker"`

	AcceptedAt     types.OptionalTime `json:"accepted_at"`
	RejectedAt     types.OptionalTime `json:"rejected_at"`
	PreparingAt    types.OptionalTime `json:"preparing_at"`
	BathStartedAt  types.OptionalTime `json:"bath_started_at"`
	GroomStartedAt types.OptionalTime `json:"groom_started_at"`
	FinishedAt     types.OptionalTime `json:"finished_at"`
	NotifiedAt     types.OptionalTime `json:"notified_at"`
	DeliveredAt    types.OptionalTime `json:"delivered_at"`
}

type Option struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CustomerID int    `json:"customer_id,omitempty"`
}

type JobFormOptions struct {
	Customers []Option `json:"customers"`
	Pets      []Option `json:"pets"`
	Workers   []Option `json:"workers"`
}

type JobControllerInterface interface {
	CreateJob(ctx context.Context, actor Actor, request CreateJobRequest) (*Job, error)
	UpdateJob(ctx context.Context, actor Actor, jobID int, request UpdateJobRequest) (*Job, error)
	ListJobs(ctx context.Context, actor Actor, search string, page types.PageRequest) (types.Page[Job], error)
	GetJob(ctx context.Context, actor Actor, jobID int) (*Job, error)
	Options(ctx context.Context, actor Actor, customerID int, search string) (*JobFormOptions, error)
}

type JobController struct {
	jobRepo     repositories.JobRepository
	petRepo     repositories.PetRepository
	userRepo    repositories.UserRepository
	transaction services.Transactor
	publisher   events.Publisher
	db          *gorm.DB
	hours       utils.BusinessHours
	now         func() time.Time
}

func New(
	repos repositories.Repository,
	services services.Service,
	publisher events.Publisher,
	config config.Config,
	db database.DB,
) JobControllerInterface {
	loc, err := config.Location()
	if err != nil {
		loc = time.UTC
	}

	return &JobController{
		jobRepo:     repos.Job,
		petRepo:     repos.Pet,
		userRepo:    repos.User,
		transaction: services.Transaction,
		publisher:   publisher,
		db:          db.SQL,
		hours:       utils.NewBusinessHours(loc),
		now:         time.Now,
	}
}

func (c *JobController) CreateJob(
	ctx context.Context,
	actor Actor,
	request CreateJobRequest,
) (*Job, error) {
	log := logger.NewWithContext(ctx, "jobController").Function("CreateJob")

	var job *Job
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		errs := types.NewValidationError()

		if request.Date == nil {
			errs.Add("date", "date is required")
		} else if err := c.hours.Check(*request.Date, c.now(), true); err != nil {
			errs.Add("date", err.Error())
		}

		if request.Bath == nil {
			errs.Add("bath", "bath is required")
		} else if !*request.Bath {
			errs.Add("bath", "every service includes a bath")
		}

		if request.Groom == nil {
			errs.Add("groom", "groom is required")
		}

		pet, err := c.loadPet(ctx, tx, request.Pet, errs)
		if err != nil {
			return err
		}

		worker, err := c.loadWorker(ctx, tx, request.Worker, errs)
		if err != nil {
			return err
		}

		if err := errs.OrNil(); err != nil {
			return err
		}

		if err := authorization.OwnsPet(actor, pet); err != nil {
			return log.ErrorWithType(types.ErrPermissionDenied, "pet does not belong to customer",
				"actorID", actor.ID, "petID", pet.ID)
		}

		job = &Job{
			Date:     request.Date.UTC(),
			Bath:     true,
			Groom:    *request.Groom,
			PetID:    pet.ID,
			WorkerID: worker.ID,
		}
		if err := c.jobRepo.Create(ctx, tx, job); err != nil {
			return err
		}

		job.Pet = pet
		job.Worker = worker
		job.RefreshStatus()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Job created", "jobID", job.ID, "petID", job.PetID, "actorID", actor.ID)
	c.publish(ctx, events.JOB_CREATED, job)

	return job, nil
}

func (c *JobController) UpdateJob(
	ctx context.Context,
	actor Actor,
	jobID int,
	request UpdateJobRequest,
) (*Job, error) {
	log := logger.NewWithContext(ctx, "jobController").Function("UpdateJob")

	var job *Job
	var changed []JobField
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		job, err = c.jobRepo.GetByID(ctx, tx, jobID)
		if err != nil {
			return err
		}

		changed = changedFields(job, request)

		if err := authorization.Job(actor, job, changed); err != nil {
			if errors.Is(err, types.ErrPermissionDenied) {
				log.Warn("job update denied", "jobID", jobID, "actorID", actor.ID, "error", err)
			}
			return err
		}

		if len(changed) == 0 {
			return nil
		}

		errs := types.NewValidationError()
		var pet *Pet
		var worker *User
		for _, field := range changed {
			switch field {
			case JobFieldDate:
				if err := c.hours.Check(*request.Date, c.now(), false); err != nil {
					errs.Add("date", err.Error())
				}
			case JobFieldBath:
				errs.Add("bath", "every service includes a bath")
			case JobFieldPet:
				if pet, err = c.loadPet(ctx, tx, *request.Pet, errs); err != nil {
					return err
				}
			case JobFieldWorker:
				if worker, err = c.loadWorker(ctx, tx, *request.Worker, errs); err != nil {
					return err
				}
			}
		}
		if err := errs.OrNil(); err != nil {
			return err
		}

		applyChanges(job, request, changed)
		if pet != nil {
			job.Pet = pet
		}
		if worker != nil {
			job.Worker = worker
		}

		if _, err := job.Lifecycle(); err != nil {
			field := JobFieldAcceptedAt
			if request.RejectedAt.Set {
				field = JobFieldRejectedAt
			}
			return types.Conflict(string(field), "a job cannot be both accepted and rejected")
		}

		if err := c.jobRepo.Save(ctx, tx, job); err != nil {
			return err
		}

		job.RefreshStatus()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		log.Info("Job updated", "jobID", job.ID, "status", job.Status, "changed", changed, "actorID", actor.ID)
		c.publish(ctx, events.JOB_UPDATED, job)
	}

	return job, nil
}

func (c *JobController) ListJobs(
	ctx context.Context,
	actor Actor,
	search string,
	page types.PageRequest,
) (types.Page[Job], error) {
	filter := repositories.JobFilter{Search: search}
	if actor.IsCustomer() {
		filter.CustomerID = actor.ID
	}

	return c.jobRepo.List(ctx, c.db, filter, page)
}

func (c *JobController) GetJob(ctx context.Context, actor Actor, jobID int) (*Job, error) {
	log := logger.NewWithContext(ctx, "jobController").Function("GetJob")

	job, err := c.jobRepo.GetByID(ctx, c.db, jobID)
	if err != nil {
		return nil, err
	}

	if err := authorization.ViewJob(actor, job); err != nil {
		log.Warn("job view denied", "jobID", jobID, "actorID", actor.ID)
		return nil, err
	}

	return job, nil
}

// Options feeds the booking form pickers. Customers only ever see
// themselves and their own pets.
func (c *JobController) Options(
	ctx context.Context,
	actor Actor,
	customerID int,
	search string,
) (*JobFormOptions, error) {
	options := &JobFormOptions{
		Customers: []Option{},
		Pets:      []Option{},
		Workers:   []Option{},
	}

	if actor.IsCustomer() {
		self, err := c.userRepo.GetByID(ctx, c.db, actor.ID)
		if err != nil {
			return nil, err
		}
		options.Customers = append(options.Customers, Option{ID: self.ID, Name: self.Name})
		customerID = actor.ID
	} else {
		customers, err := c.userRepo.Search(ctx, c.db, RoleCustomer, search, OptionsLimit)
		if err != nil {
			return nil, err
		}
		for _, customer := range customers {
			options.Customers = append(options.Customers, Option{ID: customer.ID, Name: customer.Name})
		}
	}

	if customerID != 0 {
		pets, err := c.petRepo.SearchByCustomer(ctx, c.db, customerID, search, OptionsLimit)
		if err != nil {
			return nil, err
		}
		for _, pet := range pets {
			options.Pets = append(options.Pets, Option{ID: pet.ID, Name: pet.Name, CustomerID: pet.CustomerID})
		}
	}

	workers, err := c.userRepo.Search(ctx, c.db, RoleWorker, search, OptionsLimit)
	if err != nil {
		return nil, err
	}
	for _, worker := range workers {
		options.Workers = append(options.Workers, Option{ID: worker.ID, Name: worker.Name})
	}

	return options, nil
}

// loadPet records a field error for a missing pet and returns other
// failures as-is.
func (c *JobController) loadPet(ctx context.Context, tx *gorm.DB, id int, errs *types.FieldErrors) (*Pet, error) {
	if id <= 0 {
		errs.Add("pet", "pet is required")
		return nil, nil
	}

	pet, err := c.petRepo.GetByID(ctx, tx, id)
	if errors.Is(err, types.ErrNotFound) {
		errs.Add("pet", "selected pet does not exist")
		return nil, nil
	}
	return pet, err
}

func (c *JobController) loadWorker(ctx context.Context, tx *gorm.DB, id int, errs *types.FieldErrors) (*User, error) {
	if id <= 0 {
		errs.Add("worker", "worker is required")
		return nil, nil
	}

	user, err := c.userRepo.GetByID(ctx, tx, id)
	if errors.Is(err, types.ErrNotFound) {
		errs.Add("worker", "selected worker does not exist")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !user.IsWorker() {
		errs.Add("worker", "selected user is not a worker")
		return nil, nil
	}
	return user, nil
}

func (c *JobController) publish(ctx context.Context, eventType events.MessageType, job *Job) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(events.JOBS_CHANNEL, events.JobEvent(eventType, job)); err != nil {
		logger.NewWithContext(ctx, "jobController").Function("publish").
			Warn("failed to publish job event", "jobID", job.ID, "type", eventType, "error", err)
	}
}
