package initialize

import (
	"errors"
	"strings"
	"time"

	"petshop/config"
	. "petshop/internal/models"
	"petshop/internal/services"
	"petshop/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultAdminPhone = "11999999999"

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeAdmin(db, config, log); err != nil {
		return log.Err("failed to initialize admin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeAdmin creates the first admin worker from ADMIN_EMAIL so a fresh
// install has someone able to register the rest of the staff.
func initializeAdmin(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("initializeAdmin")

	email := strings.ToLower(strings.TrimSpace(config.AdminEmail))
	if email == "" {
		log.Info("ADMIN_EMAIL not set, skipping admin creation")
		return nil
	}

	var existing User
	err := db.First(&existing, "email = ?", email).Error
	if err == nil {
		log.Debug("Admin already exists", "email", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return log.Err("failed to look up admin", err, "email", email)
	}

	name := strings.TrimSpace(config.AdminName)
	if name == "" {
		name = "Administrator"
	}

	admin := User{
		Name:    name,
		Email:   email,
		Phone:   defaultAdminPhone,
		Type:    RoleWorker,
		IsAdmin: true,
		Worker: &Worker{
			Role:    WorkerRoleManager,
			HiredAt: datatypes.Date(time.Now().UTC()),
		},
	}

	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create admin", err, "email", email)
	}

	token, err := services.NewTokenService(config).Issue(admin.ID)
	if err != nil {
		return log.Err("failed to issue admin token", err, "email", email)
	}

	log.Info("Created admin worker", "id", admin.ID, "email", email, "token", token)
	return nil
}
