package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WorkerRole string

const (
	WorkerRoleEmployee WorkerRole = "employee"
	WorkerRoleManager  WorkerRole = "manager"
)

type Worker struct {
	UserID    int             `gorm:"primaryKey;autoIncrement:false"  json:"user_id"`
	Role      WorkerRole      `gorm:"type:text;default:'employee';not null" json:"role"`
	HiredAt   datatypes.Date  `gorm:"type:date;not null"              json:"hired_at"`
	FiredAt   *datatypes.Date `gorm:"type:date"                       json:"fired_at,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime"                  json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"                  json:"updated_at"`
}

func (w *Worker) BeforeSave(tx *gorm.DB) error {
	if w.Role == "" {
		w.Role = WorkerRoleEmployee
	}
	if w.Role != WorkerRoleEmployee && w.Role != WorkerRoleManager {
		return gorm.ErrInvalidValue
	}
	if w.FiredBeforeHired() {
		return gorm.ErrInvalidValue
	}
	return nil
}

func (w *Worker) FiredBeforeHired() bool {
	if w.FiredAt == nil {
		return false
	}
	return time.Time(*w.FiredAt).Before(time.Time(w.HiredAt))
}

func (w *Worker) IsActive(now time.Time) bool {
	return w.FiredAt == nil || time.Time(*w.FiredAt).After(now)
}
