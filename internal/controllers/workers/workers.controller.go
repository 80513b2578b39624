package workerController

import (
	"context"
	"time"

	"petshop/config"
	"petshop/internal/authorization"
	"petshop/internal/database"
	. "petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/services"
	"petshop/internal/types"
	"petshop/internal/utils"
	"petshop/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateWorkerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	HiredAt string `json:"hired_at"`
}

type UpdateWorkerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	HiredAt string `json:"hired_at"`
	// FiredAt nil or empty keeps the worker active.
	FiredAt *string `json:"fired_at"`
}

type WorkerControllerInterface interface {
	ListWorkers(ctx context.Context, actor Actor, search string, page types.PageRequest) (types.Page[User], error)
	CreateWorker(ctx context.Context, actor Actor, request CreateWorkerRequest) (*User, error)
	UpdateWorker(ctx context.Context, actor Actor, id int, request UpdateWorkerRequest) (*User, error)
}

type WorkerController struct {
	userRepo    repositories.UserRepository
	transaction services.Transactor
	db          *gorm.DB
	loc         *time.Location
	now         func() time.Time
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) WorkerControllerInterface {
	loc, err := config.Location()
	if err != nil {
		loc = time.UTC
	}

	return &WorkerController{
		userRepo:    repos.User,
		transaction: services.Transaction,
		db:          db.SQL,
		loc:         loc,
		now:         time.Now,
	}
}

// ListWorkers pages through the other workers; the caller is left out.
func (c *WorkerController) ListWorkers(
	ctx context.Context,
	actor Actor,
	search string,
	page types.PageRequest,
) (types.Page[User], error) {
	if err := authorization.Admin(actor); err != nil {
		return types.Page[User]{}, err
	}

	return c.userRepo.List(ctx, c.db, repositories.UserFilter{
		Type:      RoleWorker,
		Search:    search,
		ExcludeID: actor.ID,
	}, page)
}

func (c *WorkerController) CreateWorker(
	ctx context.Context,
	actor Actor,
	request CreateWorkerRequest,
) (*User, error) {
	log := logger.NewWithContext(ctx, "workerController").Function("CreateWorker")

	if err := authorization.Admin(actor); err != nil {
		return nil, err
	}

	var user *User
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		errs := types.NewValidationError()

		name := utils.CleanText(request.Name)
		if name == "" {
			errs.Add("name", "name is required")
		}

		email := utils.NormalizeEmail(request.Email)
		switch {
		case email == "":
			errs.Add("email", "email is required")
		case !utils.IsValidEmail(email):
			errs.Add("email", "email is not a valid address")
		default:
			taken, err := c.userRepo.EmailTaken(ctx, tx, email, 0)
			if err != nil {
				return err
			}
			if taken {
				errs.Add("email", "email is already in use")
			}
		}

		phone := utils.OnlyDigits(request.Phone)
		if !utils.IsValidPhone(phone) {
			errs.Add("phone", "phone must have 10 or 11 digits")
		}

		hiredAt := c.hiredAt(request.HiredAt, errs)

		if err := errs.OrNil(); err != nil {
			return err
		}

		user = &User{
			Name:  name,
			Email: email,
			Phone: phone,
			Type:  RoleWorker,
			Worker: &Worker{
				Role:    WorkerRoleEmployee,
				HiredAt: datatypes.Date(hiredAt),
			},
		}
		return c.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Worker created", "userID", user.ID, "actorID", actor.ID)
	return user, nil
}

// UpdateWorker changes contact details and employment dates. Email and role
// are fixed after creation.
func (c *WorkerController) UpdateWorker(
	ctx context.Context,
	actor Actor,
	id int,
	request UpdateWorkerRequest,
) (*User, error) {
	log := logger.NewWithContext(ctx, "workerController").Function("UpdateWorker")

	if err := authorization.Admin(actor); err != nil {
		return nil, err
	}

	var user *User
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		user, err = c.userRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !user.IsWorker() || user.Worker == nil {
			return log.ErrorWithType(types.ErrNotFound, "worker not found", "userID", id)
		}

		errs := types.NewValidationError()

		name := utils.CleanText(request.Name)
		if name == "" {
			errs.Add("name", "name is required")
		}

		phone := utils.OnlyDigits(request.Phone)
		if !utils.IsValidPhone(phone) {
			errs.Add("phone", "phone must have 10 or 11 digits")
		}

		hiredAt := c.hiredAt(request.HiredAt, errs)

		var firedAt *datatypes.Date
		if request.FiredAt != nil && *request.FiredAt != "" {
			parsed, err := utils.ParseDate(*request.FiredAt, c.loc)
			switch {
			case err != nil:
				errs.Add("fired_at", "fired_at must be a valid date")
			case !errs.Has("hired_at") && parsed.Before(hiredAt):
				errs.Add("fired_at", "fired_at cannot be before hired_at")
			default:
				date := datatypes.Date(parsed)
				firedAt = &date
			}
		}

		if err := errs.OrNil(); err != nil {
			return err
		}

		user.Name = name
		user.Phone = phone
		user.Worker.HiredAt = datatypes.Date(hiredAt)
		user.Worker.FiredAt = firedAt

		return c.userRepo.Update(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	// a read between the in-transaction clear and the commit re-caches the old row
	if err := c.userRepo.ClearCache(ctx, user.ID); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	log.Info("Worker updated", "userID", user.ID, "actorID", actor.ID)
	return user, nil
}

// hiredAt parses a hire date, which may be today but not later.
func (c *WorkerController) hiredAt(input string, errs *types.FieldErrors) time.Time {
	if input == "" {
		errs.Add("hired_at", "hired_at is required")
		return time.Time{}
	}

	hiredAt, err := utils.ParseDate(input, c.loc)
	if err != nil {
		errs.Add("hired_at", "hired_at must be a valid date")
		return time.Time{}
	}
	if utils.IsAfterToday(hiredAt, c.now(), c.loc) {
		errs.Add("hired_at", "hired_at cannot be in the future")
	}
	return hiredAt
}
