// Package testutil holds testify mocks for the repository and service
// interfaces controllers, handlers and jobs depend on.
package testutil

import (
	"context"
	"time"

	"petshop/internal/events"
	. "petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/services"
	"petshop/internal/types"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Transactor runs fn directly with a nil transaction handle.
type Transactor struct{}

func (Transactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

// TrackingTransactor behaves like Transactor and reports whether fn is
// currently running.
type TrackingTransactor struct {
	active bool
}

func (t *TrackingTransactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	t.active = true
	defer func() { t.active = false }()
	return fn(ctx, nil)
}

func (t *TrackingTransactor) Active() bool {
	return t.active
}

type MockUserRepository struct {
	mock.Mock
}

var _ repositories.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.UserFilter,
	page types.PageRequest,
) (types.Page[User], error) {
	args := m.Called(ctx, tx, filter, page)
	return args.Get(0).(types.Page[User]), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, tx *gorm.DB, role Role, search string, limit int) ([]User, error) {
	args := m.Called(ctx, tx, role, search, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, tx *gorm.DB, email string, excludeID int) (bool, error) {
	args := m.Called(ctx, tx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CPFTaken(ctx context.Context, tx *gorm.DB, cpf string, excludeID int) (bool, error) {
	args := m.Called(ctx, tx, cpf, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ClearCache(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPetRepository struct {
	mock.Mock
}

var _ repositories.PetRepository = (*MockPetRepository)(nil)

func (m *MockPetRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Pet, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Pet), args.Error(1)
}

func (m *MockPetRepository) Create(ctx context.Context, tx *gorm.DB, pet *Pet) error {
	args := m.Called(ctx, tx, pet)
	return args.Error(0)
}

func (m *MockPetRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.PetFilter,
	page types.PageRequest,
) (types.Page[Pet], error) {
	args := m.Called(ctx, tx, filter, page)
	return args.Get(0).(types.Page[Pet]), args.Error(1)
}

func (m *MockPetRepository) SearchByCustomer(
	ctx context.Context,
	tx *gorm.DB,
	customerID int,
	search string,
	limit int,
) ([]Pet, error) {
	args := m.Called(ctx, tx, customerID, search, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Pet), args.Error(1)
}

type MockJobRepository struct {
	mock.Mock
}

var _ repositories.JobRepository = (*MockJobRepository)(nil)

func (m *MockJobRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Job, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Job), args.Error(1)
}

func (m *MockJobRepository) Create(ctx context.Context, tx *gorm.DB, job *Job) error {
	args := m.Called(ctx, tx, job)
	return args.Error(0)
}

func (m *MockJobRepository) Save(ctx context.Context, tx *gorm.DB, job *Job) error {
	args := m.Called(ctx, tx, job)
	return args.Error(0)
}

func (m *MockJobRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.JobFilter,
	page types.PageRequest,
) (types.Page[Job], error) {
	args := m.Called(ctx, tx, filter, page)
	return args.Get(0).(types.Page[Job]), args.Error(1)
}

func (m *MockJobRepository) ListScheduledBetween(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]Job, error) {
	args := m.Called(ctx, tx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Job), args.Error(1)
}

type MockAddressLookup struct {
	mock.Mock
}

var _ services.AddressLookup = (*MockAddressLookup)(nil)

func (m *MockAddressLookup) Lookup(ctx context.Context, cep string) (services.Address, error) {
	args := m.Called(ctx, cep)
	return args.Get(0).(services.Address), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

var _ events.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(channel events.Channel, event events.Event) error {
	args := m.Called(channel, event)
	return args.Error(0)
}
