package database

import (
	"petshop/internal/models"
	"petshop/pkg/logger"
)

// MigrateModels runs GORM AutoMigrate for every persisted model. The SQL
// migrations in cmd/migration remain the source of truth; this keeps a dev
// database in step with the structs.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []any{
		&models.User{},
		&models.Customer{},
		&models.Worker{},
		&models.Pet{},
		&models.Job{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates the indexes the job list and name searches rely on.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_lower_name ON users (lower(name))",
		"CREATE INDEX IF NOT EXISTS idx_users_type ON users (type)",
		"CREATE INDEX IF NOT EXISTS idx_jobs_pipeline ON jobs (rejected_at, delivered_at, accepted_at)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
