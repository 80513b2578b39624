package petController

import (
	"context"
	"testing"
	"time"

	. "petshop/internal/models"
	"petshop/internal/repositories"
	"petshop/internal/testutil"
	"petshop/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	ana   = &User{BaseModel: BaseModel{ID: 1}, Name: "Ana Souza", Type: RoleCustomer}
	carla = &User{BaseModel: BaseModel{ID: 3}, Name: "Carla Dias", Type: RoleWorker}
)

func newController(t *testing.T) (*PetController, *testutil.MockPetRepository, *testutil.MockUserRepository) {
	t.Helper()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	pets := &testutil.MockPetRepository{}
	users := &testutil.MockUserRepository{}
	users.On("GetByID", mock.Anything, mock.Anything, 1).Return(ana, nil).Maybe()
	users.On("GetByID", mock.Anything, mock.Anything, 3).Return(carla, nil).Maybe()
	users.On("GetByID", mock.Anything, mock.Anything, mock.Anything).Return(nil, types.ErrNotFound).Maybe()

	return &PetController{
		petRepo:     pets,
		userRepo:    users,
		transaction: testutil.Transactor{},
		loc:         loc,
		now:         func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, loc) },
	}, pets, users
}

func TestCreatePet(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		customer int
	}{
		{name: "customer registers own pet", actor: ana.Actor()},
		{name: "customer names self explicitly", actor: ana.Actor(), customer: 1},
		{name: "staff registers for a customer", actor: carla.Actor(), customer: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, pets, _ := newController(t)
			pets.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Pet")).Return(nil)

			pet, err := controller.CreatePet(context.Background(), tt.actor, CreatePetRequest{
				Name:      "Rex",
				Breed:     "Vira-lata",
				Birthdate: "15/03/2020",
				Type:      "Dog",
				Customer:  tt.customer,
			})
			require.NoError(t, err)

			assert.Equal(t, PetTypeDog, pet.Type)
			assert.Equal(t, 1, pet.CustomerID)
			assert.Equal(t, "Ana Souza", pet.Customer.Name)
			assert.Equal(t, time.March, time.Time(pet.Birthdate).Month())
			pets.AssertExpectations(t)
		})
	}
}

func TestCreatePet_Rejections(t *testing.T) {
	valid := CreatePetRequest{Name: "Mia", Breed: "Siamês", Birthdate: "2021-01-10", Type: "cat", Customer: 1}

	tests := []struct {
		name    string
		actor   Actor
		mutate  func(r *CreatePetRequest)
		wantErr error
		field   string
	}{
		{name: "customer for someone else", actor: Actor{ID: 2, Role: RoleCustomer}, mutate: func(r *CreatePetRequest) {}, wantErr: types.ErrPermissionDenied},
		{name: "owner is a worker", actor: carla.Actor(), mutate: func(r *CreatePetRequest) { r.Customer = 3 }, wantErr: types.ErrValidation, field: "customer"},
		{name: "owner unknown", actor: carla.Actor(), mutate: func(r *CreatePetRequest) { r.Customer = 99 }, wantErr: types.ErrValidation, field: "customer"},
		{name: "owner missing", actor: carla.Actor(), mutate: func(r *CreatePetRequest) { r.Customer = 0 }, wantErr: types.ErrValidation, field: "customer"},
		{name: "bird", actor: carla.Actor(), mutate: func(r *CreatePetRequest) { r.Type = "bird" }, wantErr: types.ErrValidation, field: "type"},
		{name: "born tomorrow", actor: carla.Actor(), mutate: func(r *CreatePetRequest) { r.Birthdate = "2026-10-20" }, wantErr: types.ErrValidation, field: "birthdate"},
		{name: "missing breed", actor: carla.Actor(), mutate: func(r *CreatePetRequest) { r.Breed = "" }, wantErr: types.ErrValidation, field: "breed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, pets, _ := newController(t)
			request := valid
			tt.mutate(&request)

			_, err := controller.CreatePet(context.Background(), tt.actor, request)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.field != "" {
				fields, ok := types.AsFieldErrors(err)
				require.True(t, ok)
				assert.Contains(t, fields, tt.field)
			}
			pets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListPets_ScopesCustomers(t *testing.T) {
	controller, pets, _ := newController(t)
	page := types.PageRequest{Page: 1}
	pets.On("List", mock.Anything, mock.Anything, repositories.PetFilter{CustomerID: 1, Search: "re"}, page).
		Return(types.Page[Pet]{Total: 1}, nil)
	pets.On("List", mock.Anything, mock.Anything, repositories.PetFilter{Search: "re"}, page).
		Return(types.Page[Pet]{Total: 5}, nil)

	own, err := controller.ListPets(context.Background(), ana.Actor(), "re", page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, own.Total)

	all, err := controller.ListPets(context.Background(), carla.Actor(), "re", page)
	require.NoError(t, err)
	assert.EqualValues(t, 5, all.Total)
}

func TestGetPet(t *testing.T) {
	controller, pets, _ := newController(t)
	pets.On("GetByID", mock.Anything, mock.Anything, 10).
		Return(&Pet{BaseModel: BaseModel{ID: 10}, Name: "Rex", CustomerID: 1}, nil)

	pet, err := controller.GetPet(context.Background(), ana.Actor(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Rex", pet.Name)

	_, err = controller.GetPet(context.Background(), Actor{ID: 2, Role: RoleCustomer}, 10)
	assert.ErrorIs(t, err, types.ErrPermissionDenied)
}
