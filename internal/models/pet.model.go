package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PetType string

const (
	PetTypeDog PetType = "dog"
	PetTypeCat PetType = "cat"
)

func (t PetType) Valid() bool {
	return t == PetTypeDog || t == PetTypeCat
}

type Pet struct {
	BaseModel
	Name       string         `gorm:"type:text;not null;index" json:"name"`
	Breed      string         `gorm:"type:text;not null"       json:"breed"`
	Type       PetType        `gorm:"type:text;not null"       json:"type"`
	Birthdate  datatypes.Date `gorm:"type:date;not null"       json:"birthdate"`
	History    string         `gorm:"type:text"                json:"history"`
	CustomerID int            `gorm:"not null;index"           json:"customer_id"`
	Customer   *User          `gorm:"foreignKey:CustomerID"    json:"customer,omitempty"`
}

func (p *Pet) BeforeSave(tx *gorm.DB) error {
	if p.Name == "" || p.Breed == "" || p.CustomerID == 0 {
		return gorm.ErrInvalidValue
	}
	if !p.Type.Valid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (p *Pet) OwnedBy(userID int) bool {
	return p.CustomerID == userID
}
