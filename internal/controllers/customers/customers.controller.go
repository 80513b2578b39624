package customerController

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

type CustomerRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Birthdate   string  `json:"birthdate"`
	CPF         string  `json:"cpf"`
	CEP         string  `json:"cep"`
	Number      string  `json:"number"`
	AddressInfo *string `json:"address_info"`
}

type CustomerControllerInterface interface {
	ListCustomers(ctx context.Context, actor Actor, search string, page types.PageRequest) (types.Page[User], error)
	GetCustomer(ctx context.Context, actor Actor, id int) (*User, error)
	CreateCustomer(ctx context.Context, actor Actor, request CustomerRequest) (*User, error)
	UpdateCustomer(ctx context.Context, actor Actor, id int, request CustomerRequest) (*User, error)
}

type CustomerController struct {
	userRepo    repositories.UserRepository
	address     services.AddressLookup
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
) CustomerControllerInterface {
	loc, err := config.Location()
	if err != nil {
		loc = time.UTC
	}

	return &CustomerController{
		userRepo:    repos.User,
		address:     services.Address,
		transaction: services.Transaction,
		db:          db.SQL,
		loc:         loc,
		now:         time.Now,
	}
}

// customerFields is a validated, normalized CustomerRequest.
type customerFields struct {
	name        string
	email       string
	phone       string
	birthdate   time.Time
	cpf         string
	cep         string
	number      string
	addressInfo *string
}

func (c *CustomerController) ListCustomers(
	ctx context.Context,
	actor Actor,
	search string,
	page types.PageRequest,
) (types.Page[User], error) {
	if err := authorization.Staff(actor); err != nil {
		return types.Page[User]{}, err
	}

	return c.userRepo.List(ctx, c.db, repositories.UserFilter{
		Type:   RoleCustomer,
		Search: search,
	}, page)
}

func (c *CustomerController) GetCustomer(ctx context.Context, actor Actor, id int) (*User, error) {
	if err := authorization.Staff(actor); err != nil {
		return nil, err
	}

	return c.loadCustomer(ctx, c.db, id)
}

func (c *CustomerController) CreateCustomer(
	ctx context.Context,
	actor Actor,
	request CustomerRequest,
) (*User, error) {
	log := logger.NewWithContext(ctx, "customerController").Function("CreateCustomer")

	if err := authorization.Staff(actor); err != nil {
		return nil, err
	}

	fields, address, err := c.prepare(ctx, request, 0)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:     fields.name,
		Email:    fields.email,
		Phone:    fields.phone,
		Type:     RoleCustomer,
		Customer: &Customer{},
	}
	fields.apply(user.Customer, address)

	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Customer created", "userID", user.ID, "actorID", actor.ID)
	return user, nil
}

func (c *CustomerController) UpdateCustomer(
	ctx context.Context,
	actor Actor,
	id int,
	request CustomerRequest,
) (*User, error) {
	log := logger.NewWithContext(ctx, "customerController").Function("UpdateCustomer")

	if err := authorization.Staff(actor); err != nil {
		return nil, err
	}

	if _, err := c.loadCustomer(ctx, c.db, id); err != nil {
		return nil, err
	}

	fields, address, err := c.prepare(ctx, request, id)
	if err != nil {
		return nil, err
	}

	var user *User
	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		if user, err = c.loadCustomer(ctx, tx, id); err != nil {
			return err
		}

		user.Name = fields.name
		user.Email = fields.email
		user.Phone = fields.phone
		fields.apply(user.Customer, address)

		return c.userRepo.Update(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	// a read between the in-transaction clear and the commit re-caches the old row
	if err := c.userRepo.ClearCache(ctx, user.ID); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	log.Info("Customer updated", "userID", user.ID, "actorID", actor.ID)
	return user, nil
}

func (c *CustomerController) loadCustomer(ctx context.Context, tx *gorm.DB, id int) (*User, error) {
	log := logger.NewWithContext(ctx, "customerController").Function("loadCustomer")

	user, err := c.userRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsCustomer() || user.Customer == nil {
		return nil, log.ErrorWithType(types.ErrNotFound, "customer not found", "userID", id)
	}

	return user, nil
}

// prepare validates the request and resolves its postal code. It runs before
// any transaction is opened so the lookup never holds a connection.
func (c *CustomerController) prepare(
	ctx context.Context,
	request CustomerRequest,
	excludeID int,
) (customerFields, services.Address, error) {
	fields, err := c.validate(ctx, c.db, request, excludeID)
	if err != nil {
		return fields, services.Address{}, err
	}

	address, err := c.address.Lookup(ctx, fields.cep)
	if err != nil {
		return fields, services.Address{}, err
	}

	return fields, address, nil
}

// validate checks every field and reports all failures at once. excludeID
// skips the customer's own record in uniqueness checks.
func (c *CustomerController) validate(
	ctx context.Context,
	tx *gorm.DB,
	request CustomerRequest,
	excludeID int,
) (customerFields, error) {
	errs := types.NewValidationError()
	fields := customerFields{
		name:   utils.CleanText(request.Name),
		email:  utils.NormalizeEmail(request.Email),
		phone:  utils.OnlyDigits(request.Phone),
		cpf:    utils.OnlyDigits(request.CPF),
		cep:    utils.OnlyDigits(request.CEP),
		number: utils.CleanText(request.Number),
	}

	if request.AddressInfo != nil {
		if info := utils.CleanText(*request.AddressInfo); info != "" {
			fields.addressInfo = &info
		}
	}

	if fields.name == "" {
		errs.Add("name", "name is required")
	}

	switch {
	case fields.email == "":
		errs.Add("email", "email is required")
	case !utils.IsValidEmail(fields.email):
		errs.Add("email", "email is not a valid address")
	default:
		taken, err := c.userRepo.EmailTaken(ctx, tx, fields.email, excludeID)
		if err != nil {
			return fields, err
		}
		if taken {
			errs.Add("email", "email is already in use")
		}
	}

	if !utils.IsValidPhone(fields.phone) {
		errs.Add("phone", "phone must have 10 or 11 digits")
	}

	birthdate, err := utils.ParseDate(request.Birthdate, c.loc)
	switch {
	case err != nil:
		errs.Add("birthdate", "birthdate must be a valid date")
	case !utils.IsBeforeToday(birthdate, c.now(), c.loc):
		errs.Add("birthdate", "birthdate must be before today")
	default:
		fields.birthdate = birthdate
	}

	switch {
	case len(fields.cpf) != 11:
		errs.Add("cpf", "cpf must have 11 digits")
	case !utils.IsValidCPF(fields.cpf):
		errs.Add("cpf", "cpf is not valid")
	default:
		taken, err := c.userRepo.CPFTaken(ctx, tx, fields.cpf, excludeID)
		if err != nil {
			return fields, err
		}
		if taken {
			errs.Add("cpf", "cpf is already registered")
		}
	}

	if !utils.IsValidCEP(fields.cep) {
		errs.Add("cep", "postal code must have 8 digits")
	}

	if fields.number == "" {
		errs.Add("number", "number is required")
	}

	return fields, errs.OrNil()
}

func (f customerFields) apply(customer *Customer, address services.Address) {
	customer.CPF = f.cpf
	customer.Birthdate = datatypes.Date(f.birthdate)
	customer.CEP = f.cep
	customer.Street = address.Street
	customer.Number = f.number
	customer.District = address.District
	customer.City = address.City
	customer.State = address.State
	customer.AddressInfo = f.addressInfo
}
