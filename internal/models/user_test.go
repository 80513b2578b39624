package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestUser_Actor(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected Actor
	}{
		{
			name:     "customer",
			user:     User{BaseModel: BaseModel{ID: 3}, Type: RoleCustomer},
			expected: Actor{ID: 3, Role: RoleCustomer},
		},
		{
			name:     "worker",
			user:     User{BaseModel: BaseModel{ID: 4}, Type: RoleWorker},
			expected: Actor{ID: 4, Role: RoleWorker},
		},
		{
			name:     "admin worker",
			user:     User{BaseModel: BaseModel{ID: 5}, Type: RoleWorker, IsAdmin: true},
			expected: Actor{ID: 5, Role: RoleWorker, IsAdmin: true},
		},
		{
			name:     "admin flag ignored for customers",
			user:     User{BaseModel: BaseModel{ID: 6}, Type: RoleCustomer, IsAdmin: true},
			expected: Actor{ID: 6, Role: RoleCustomer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.Actor())
		})
	}
}

func TestUser_BeforeCreate(t *testing.T) {
	t.Run("normalizes email", func(t *testing.T) {
		user := &User{Name: "Ana", Email: "  Ana@Example.COM ", Type: RoleWorker}
		assert.NoError(t, user.BeforeCreate(nil))
		assert.Equal(t, "ana@example.com", user.Email)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		user := &User{Name: "Ana", Email: "ana@example.com", Type: "robot"}
		assert.ErrorIs(t, user.BeforeCreate(nil), gorm.ErrInvalidValue)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		user := &User{Email: "ana@example.com", Type: RoleCustomer}
		assert.ErrorIs(t, user.BeforeCreate(nil), gorm.ErrInvalidValue)
	})

	t.Run("clears admin on customers", func(t *testing.T) {
		user := &User{Name: "Ana", Email: "ana@example.com", Type: RoleCustomer, IsAdmin: true}
		assert.NoError(t, user.BeforeCreate(nil))
		assert.False(t, user.IsAdmin)
	})
}

func TestWorker_BeforeSave(t *testing.T) {
	hired := datatypes.Date(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	before := datatypes.Date(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	after := datatypes.Date(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name    string
		worker  Worker
		wantErr bool
	}{
		{name: "defaults role", worker: Worker{HiredAt: hired}},
		{name: "fired after hired", worker: Worker{HiredAt: hired, FiredAt: &after}},
		{name: "fired same day", worker: Worker{HiredAt: hired, FiredAt: &hired}},
		{name: "fired before hired", worker: Worker{HiredAt: hired, FiredAt: &before}, wantErr: true},
		{name: "unknown role", worker: Worker{HiredAt: hired, Role: "owner"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.worker.BeforeSave(nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrInvalidValue)
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, tt.worker.Role)
		})
	}
}

func TestPet_BeforeSave(t *testing.T) {
	valid := Pet{Name: "Rex", Breed: "Beagle", Type: PetTypeDog, CustomerID: 2}
	assert.NoError(t, valid.BeforeSave(nil))

	bird := valid
	bird.Type = "bird"
	assert.ErrorIs(t, bird.BeforeSave(nil), gorm.ErrInvalidValue)

	orphan := valid
	orphan.CustomerID = 0
	assert.ErrorIs(t, orphan.BeforeSave(nil), gorm.ErrInvalidValue)

	assert.True(t, valid.OwnedBy(2))
	assert.False(t, valid.OwnedBy(3))
}
