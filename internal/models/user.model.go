package models

import (
	"strings"

	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleWorker
}

// User is the shared identity. Exactly one of Customer or Worker is attached,
// selected by Type.
type User struct {
	BaseModel
	Name    string `gorm:"type:text;not null;index"        json:"name"`
	Email   string `gorm:"type:text;uniqueIndex;not null"  json:"email"`
	Phone   string `gorm:"type:varchar(11);not null"       json:"phone"`
	Type    Role   `gorm:"type:text;not null"              json:"type"`
	IsAdmin bool   `gorm:"type:bool;default:false;not null" json:"is_admin"`

	Customer *Customer `gorm:"foreignKey:UserID" json:"customer,omitempty"`
	Worker   *Worker   `gorm:"foreignKey:UserID" json:"worker,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Name == "" || u.Email == "" {
		return gorm.ErrInvalidValue
	}
	if !u.Type.Valid() {
		return gorm.ErrInvalidValue
	}
	if u.Type == RoleCustomer {
		u.IsAdmin = false
	}
	return nil
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	if u.Name == "" || u.Email == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (u *User) IsCustomer() bool {
	return u.Type == RoleCustomer
}

func (u *User) IsWorker() bool {
	return u.Type == RoleWorker
}

// Actor is the authorization view of the user making a request.
func (u *User) Actor() Actor {
	return Actor{
		ID:      u.ID,
		Role:    u.Type,
		IsAdmin: u.IsWorker() && u.IsAdmin,
	}
}

type Actor struct {
	ID      int  `json:"id"`
	Role    Role `json:"role"`
	IsAdmin bool `json:"is_admin"`
}

func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer
}

func (a Actor) IsWorker() bool {
	return a.Role == RoleWorker
}
