package petController

import (
	"context"
	"errors"
	"strings"
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

type CreatePetRequest struct {
	Name      string `json:"name"`
	Breed     string `json:"breed"`
	Birthdate string `json:"birthdate"`
	Type      string `json:"type"`
	History   string `json:"history"`
	// Customer is the owner's user id. Customers creating their own pet may
	// leave it empty.
	Customer int `json:"customer"`
}

type PetControllerInterface interface {
	ListPets(ctx context.Context, actor Actor, search string, page types.PageRequest) (types.Page[Pet], error)
	GetPet(ctx context.Context, actor Actor, id int) (*Pet, error)
	CreatePet(ctx context.Context, actor Actor, request CreatePetRequest) (*Pet, error)
}

type PetController struct {
	petRepo     repositories.PetRepository
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
) PetControllerInterface {
	loc, err := config.Location()
	if err != nil {
		loc = time.UTC
	}

	return &PetController{
		petRepo:     repos.Pet,
		userRepo:    repos.User,
		transaction: services.Transaction,
		db:          db.SQL,
		loc:         loc,
		now:         time.Now,
	}
}

func (c *PetController) ListPets(
	ctx context.Context,
	actor Actor,
	search string,
	page types.PageRequest,
) (types.Page[Pet], error) {
	filter := repositories.PetFilter{Search: search}
	if actor.IsCustomer() {
		filter.CustomerID = actor.ID
	}

	return c.petRepo.List(ctx, c.db, filter, page)
}

func (c *PetController) GetPet(ctx context.Context, actor Actor, id int) (*Pet, error) {
	pet, err := c.petRepo.GetByID(ctx, c.db, id)
	if err != nil {
		return nil, err
	}

	if err := authorization.OwnsPet(actor, pet); err != nil {
		return nil, err
	}

	return pet, nil
}

func (c *PetController) CreatePet(
	ctx context.Context,
	actor Actor,
	request CreatePetRequest,
) (*Pet, error) {
	log := logger.NewWithContext(ctx, "petController").Function("CreatePet")

	if actor.IsCustomer() {
		if request.Customer != 0 && request.Customer != actor.ID {
			return nil, log.ErrorWithType(types.ErrPermissionDenied, "customers can only register their own pets",
				"actorID", actor.ID, "customerID", request.Customer)
		}
		request.Customer = actor.ID
	}

	var pet *Pet
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		errs := types.NewValidationError()

		name := utils.CleanText(request.Name)
		if name == "" {
			errs.Add("name", "name is required")
		}

		breed := utils.CleanText(request.Breed)
		if breed == "" {
			errs.Add("breed", "breed is required")
		}

		petType := PetType(strings.ToLower(strings.TrimSpace(request.Type)))
		if !petType.Valid() {
			errs.Add("type", "type must be dog or cat")
		}

		birthdate, err := utils.ParseDate(request.Birthdate, c.loc)
		if err != nil {
			errs.Add("birthdate", "birthdate must be a valid date")
		} else if !utils.IsBeforeToday(birthdate, c.now(), c.loc) {
			errs.Add("birthdate", "birthdate must be before today")
		}

		owner, err := c.loadOwner(ctx, tx, request.Customer, errs)
		if err != nil {
			return err
		}

		if err := errs.OrNil(); err != nil {
			return err
		}

		pet = &Pet{
			Name:       name,
			Breed:      breed,
			Type:       petType,
			Birthdate:  datatypes.Date(birthdate),
			History:    strings.TrimSpace(request.History),
			CustomerID: owner.ID,
		}
		if err := c.petRepo.Create(ctx, tx, pet); err != nil {
			return err
		}
		pet.Customer = owner
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Pet created", "petID", pet.ID, "customerID", pet.CustomerID, "actorID", actor.ID)
	return pet, nil
}

func (c *PetController) loadOwner(ctx context.Context, tx *gorm.DB, id int, errs *types.FieldErrors) (*User, error) {
	if id <= 0 {
		errs.Add("customer", "customer is required")
		return nil, nil
	}

	user, err := c.userRepo.GetByID(ctx, tx, id)
	if errors.Is(err, types.ErrNotFound) {
		errs.Add("customer", "selected customer does not exist")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !user.IsCustomer() {
		errs.Add("customer", "selected user is not a customer")
		return nil, nil
	}
	return user, nil
}
