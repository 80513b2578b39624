package repositories

import (
	"context"
	"testing"

	"petshop/internal/models"
	"petshop/internal/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestJobRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE "jobs"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	job, err := NewJobRepository().GetByID(context.Background(), db, 99)

	assert.Nil(t, job)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_List_FiltersByOwner(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "jobs" JOIN pets ON pets.id = jobs.pet_id JOIN users AS owners ON owners.id = pets.customer_id WHERE pets.customer_id = \$1 AND owners.name ILIKE \$2`).
		WithArgs(7, `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := NewJobRepository().List(
		context.Background(),
		db,
		JobFilter{CustomerID: 7, Search: " 50% "},
		types.PageRequest{Page: 1},
	)

	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Data)
	assert.Equal(t, 1, page.LastPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_List_OrdersByPipeline(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "jobs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(`(?s)SELECT jobs\.\* FROM "jobs" JOIN pets .* ORDER BY CASE\s+WHEN jobs.rejected_at IS NOT NULL THEN 3.*COALESCE\(jobs.accepted_at, jobs.rejected_at\) DESC NULLS FIRST.*jobs.delivered_at DESC NULLS LAST,\s+jobs.id DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pet_id", "worker_id", "bath"}).AddRow(1, 2, 3, true))
	mock.ExpectQuery(`SELECT \* FROM "pets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "customer_id"}).AddRow(2, "Rex", 5))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type"}).AddRow(5, "Maria", "customer"))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type"}).AddRow(3, "João", "worker"))

	page, err := NewJobRepository().List(context.Background(), db, JobFilter{}, types.PageRequest{Page: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, 11, page.From)
	assert.Equal(t, 11, page.To)
	require.Len(t, page.Data, 1)

	job := page.Data[0]
	assert.Equal(t, models.JobStatusPendingConfirmation, job.Status)
	require.NotNil(t, job.Pet)
	require.NotNil(t, job.Pet.Customer)
	assert.Equal(t, "Maria", job.Pet.Customer.Name)
	require.NotNil(t, job.Worker)
	assert.Equal(t, "João", job.Worker.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_LoadsProfile(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "type", "is_admin"}).
			AddRow(4, "Ana", "ana@example.com", "worker", true))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectQuery(`SELECT \* FROM "workers"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "role"}).AddRow(4, "manager"))

	user, err := NewUserRepository(nil).GetByID(context.Background(), db, 4)

	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Nil(t, user.Customer)
	require.NotNil(t, user.Worker)
	assert.Equal(t, models.WorkerRoleManager, user.Worker.Role)
	assert.Equal(t, models.Actor{ID: 4, Role: models.RoleWorker, IsAdmin: true}, user.Actor())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_EmailTaken(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1 AND id <> \$2`).
		WithArgs("ana@example.com", 4).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := NewUserRepository(nil).EmailTaken(context.Background(), db, " Ana@Example.com", 4)

	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPetRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT \* FROM "pets" WHERE "pets"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewPetRepository().GetByID(context.Background(), db, 1)

	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
