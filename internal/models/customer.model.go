package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Customer struct {
	UserID      int            `gorm:"primaryKey;autoIncrement:false"            json:"user_id"`
	CPF         string         `gorm:"column:cpf;type:char(11);uniqueIndex;not null" json:"cpf"`
	Birthdate   datatypes.Date `gorm:"type:date;not null"                        json:"birthdate"`
	CEP         string         `gorm:"column:cep;type:char(8);not null"          json:"cep"`
	Street      string         `gorm:"type:text;not null"                        json:"street"`
	Number      string         `gorm:"type:text;not null"                        json:"number"`
	District    string         `gorm:"type:text;not null"                        json:"district"`
	City        string         `gorm:"type:text;not null"                        json:"city"`
	State       string         `gorm:"type:char(2);not null"                     json:"state"`
	AddressInfo *string        `gorm:"type:text"                                 json:"address_info,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"                            json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"                            json:"updated_at"`
}

func (c *Customer) BeforeSave(tx *gorm.DB) error {
	if len(c.CPF) != 11 || len(c.CEP) != 8 {
		return gorm.ErrInvalidValue
	}
	return nil
}
