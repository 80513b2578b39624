package repositories

import (
	"context"
	"errors"

	"petshop/internal/database"
	"petshop/internal/types"
	"petshop/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	User UserRepository
	Pet  PetRepository
	Job  JobRepository
}

func New(db database.DB) Repository {
	return Repository{
		User: NewUserRepository(db.Cache.User),
		Pet:  NewPetRepository(),
		Job:  NewJobRepository(),
	}
}

// paginate counts query, then loads the requested page into a types.Page.
// order and preloads are applied only to the page query.
func paginate[T any](
	ctx context.Context,
	query *gorm.DB,
	order string,
	request types.PageRequest,
	preloads ...string,
) (types.Page[T], error) {
	request = request.Normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return types.Page[T]{}, err
	}

	var rows []T
	if total > 0 {
		pageQuery := query.Session(&gorm.Session{}).WithContext(ctx)
		for _, preload := range preloads {
			pageQuery = pageQuery.Preload(preload)
		}
		if err := pageQuery.
			Order(order).
			Limit(request.PerPage).
			Offset(request.Offset()).
			Find(&rows).Error; err != nil {
			return types.Page[T]{}, err
		}
	}

	return types.NewPage(rows, total, request), nil
}

// notFound turns gorm.ErrRecordNotFound into types.ErrNotFound and logs
// anything else as a failure.
func notFound(log logger.Logger, err error, msg string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return log.ErrorWithType(types.ErrNotFound, msg, args...)
	}
	return log.Err("failed to "+msg, err, args...)
}

func likePattern(search string) string {
	return "%" + search + "%"
}
