package repositories

import (
	"context"
	"strings"
	"time"

	. "petshop/internal/models"
	"petshop/internal/types"
	"petshop/internal/utils"
	"petshop/pkg/logger"

	"gorm.io/gorm"
)

// jobListOrder is the SQL form of models.CompareJobs.
const jobListOrder = `CASE
	WHEN jobs.rejected_at IS NOT NULL THEN 3
	WHEN jobs.delivered_at IS NOT NULL THEN 2
	WHEN jobs.accepted_at IS NOT NULL THEN 1
	ELSE 0
END ASC,
COALESCE(jobs.accepted_at, jobs.rejected_at) DESC NULLS FIRST,
jobs.preparing_at DESC NULLS FIRST,
jobs.bath_started_at DESC NULLS FIRST,
jobs.groom_started_at DESC NULLS FIRST,
jobs.finished_at DESC NULLS FIRST,
jobs.notified_at DESC NULLS FIRST,
jobs.delivered_at DESC NULLS LAST,
jobs.id DESC`

type JobFilter struct {
	// CustomerID restricts to jobs for that customer's pets when non-zero.
	CustomerID int
	// Search matches the pet owner's name, case-insensitively.
	Search string
}

type JobRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Job, error)
	Create(ctx context.Context, tx *gorm.DB, job *Job) error
	Save(ctx context.Context, tx *gorm.DB, job *Job) error
	List(ctx context.Context, tx *gorm.DB, filter JobFilter, page types.PageRequest) (types.Page[Job], error)
	ListScheduledBetween(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]Job, error)
}

type jobRepository struct{}

func NewJobRepository() JobRepository {
	return &jobRepository{}
}

func withJobRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Pet.Customer").Preload("Worker")
}

func (r *jobRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Job, error) {
	log := logger.NewWithContext(ctx, "jobRepository").Function("GetByID")

	var job Job
	if err := withJobRelations(tx.WithContext(ctx)).First(&job, id).Error; err != nil {
		return nil, notFound(log, err, "get job", "jobID", id)
	}

	return &job, nil
}

func (r *jobRepository) Create(ctx context.Context, tx *gorm.DB, job *Job) error {
	log := logger.NewWithContext(ctx, "jobRepository").Function("Create")

	if err := tx.WithContext(ctx).Omit("Pet", "Worker").Create(job).Error; err != nil {
		return log.Err("failed to create job", err, "petID", job.PetID)
	}

	return nil
}

// Save writes every column of job, including nulls, and leaves the loaded
// associations untouched.
func (r *jobRepository) Save(ctx context.Context, tx *gorm.DB, job *Job) error {
	log := logger.NewWithContext(ctx, "jobRepository").Function("Save")

	if err := tx.WithContext(ctx).Omit("Pet", "Worker").Save(job).Error; err != nil {
		return log.Err("failed to save job", err, "jobID", job.ID)
	}

	return nil
}

func (r *jobRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter JobFilter,
	page types.PageRequest,
) (types.Page[Job], error) {
	log := logger.NewWithContext(ctx, "jobRepository").Function("List")
	page = page.Normalize()

	query := tx.WithContext(ctx).
		Model(&Job{}).
		Joins("JOIN pets ON pets.id = jobs.pet_id").
		Joins("JOIN users AS owners ON owners.id = pets.customer_id")

	if filter.CustomerID != 0 {
		query = query.Where("pets.customer_id = ?", filter.CustomerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("owners.name ILIKE ?", likePattern(utils.EscapeLike(search)))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return types.Page[Job]{}, log.Err("failed to count jobs", err)
	}

	var jobs []Job
	if total > 0 {
		if err := withJobRelations(query.Session(&gorm.Session{})).
			Select("jobs.*").
			Order(jobListOrder).
			Limit(page.PerPage).
			Offset(page.Offset()).
			Find(&jobs).Error; err != nil {
			return types.Page[Job]{}, log.Err("failed to list jobs", err)
		}
	}

	return types.NewPage(jobs, total, page), nil
}

// ListScheduledBetween returns jobs whose date falls in [start, end), in
// pipeline order.
func (r *jobRepository) ListScheduledBetween(
	ctx context.Context,
	tx *gorm.DB,
	start, end time.Time,
) ([]Job, error) {
	log := logger.NewWithContext(ctx, "jobRepository").Function("ListScheduledBetween")

	var jobs []Job
	if err := withJobRelations(tx.WithContext(ctx)).
		Where("jobs.date >= ? AND jobs.date < ?", start, end).
		Order(jobListOrder).
		Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to list scheduled jobs", err, "start", start, "end", end)
	}

	return jobs, nil
}
