package repositories

import (
	"context"
	"strings"

	"petshop/internal/constants"
	"petshop/internal/database"
	. "petshop/internal/models"
	"petshop/internal/types"
	"petshop/internal/utils"
	"petshop/pkg/logger"

	"gorm.io/gorm"
)

type UserFilter struct {
	Type      Role
	Search    string
	ExcludeID int
}

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Update(ctx context.Context, tx *gorm.DB, user *User) error
	List(ctx context.Context, tx *gorm.DB, filter UserFilter, page types.PageRequest) (types.Page[User], error)
	Search(ctx context.Context, tx *gorm.DB, role Role, search string, limit int) ([]User, error)
	EmailTaken(ctx context.Context, tx *gorm.DB, email string, excludeID int) (bool, error)
	CPFTaken(ctx context.Context, tx *gorm.DB, cpf string, excludeID int) (bool, error)
	ClearCache(ctx context.Context, id int) error
}

type userRepository struct {
	cache database.CacheClient
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{cache: cache}
}

// GetByID loads a user with its profile, reading through the user cache.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*User, error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("GetByID")

	if r.cache != nil {
		var cached User
		found, err := database.NewCacheBuilder(r.cache, id).
			WithHash(constants.UserCachePrefix).
			WithContext(ctx).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get user from cache", "userID", id, "error", err)
		}
		if found {
			return &cached, nil
		}
	}

	var user User
	if err := tx.WithContext(ctx).
		Preload("Customer").
		Preload("Worker").
		First(&user, id).Error; err != nil {
		return nil, notFound(log, err, "get user", "userID", id)
	}

	if r.cache != nil {
		if err := database.NewCacheBuilder(r.cache, id).
			WithHash(constants.UserCachePrefix).
			WithStruct(user).
			WithTTL(constants.UserCacheExpiry).
			WithContext(ctx).
			Set(); err != nil {
			log.Warn("failed to add user to cache", "userID", id, "error", err)
		}
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("GetByEmail")

	var user User
	if err := tx.WithContext(ctx).
		Preload("Customer").
		Preload("Worker").
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		return nil, notFound(log, err, "get user by email", "email", email)
	}

	return &user, nil
}

// Create inserts the user and whichever profile is attached.
func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := logger.NewWithContext(ctx, "userRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	log := logger.NewWithContext(ctx, "userRepository").Function("Update")

	if err := tx.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	if err := r.ClearCache(ctx, user.ID); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter UserFilter,
	page types.PageRequest,
) (types.Page[User], error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("List")

	query := tx.WithContext(ctx).Model(&User{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.ExcludeID != 0 {
		query = query.Where("id <> ?", filter.ExcludeID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name ILIKE ?", likePattern(utils.EscapeLike(search)))
	}

	result, err := paginate[User](ctx, query, "id DESC", page, "Customer", "Worker")
	if err != nil {
		return types.Page[User]{}, log.Err("failed to list users", err, "type", filter.Type)
	}

	return result, nil
}

// Search returns up to limit users of role whose name matches, for pickers.
func (r *userRepository) Search(
	ctx context.Context,
	tx *gorm.DB,
	role Role,
	search string,
	limit int,
) ([]User, error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("Search")

	var users []User
	if err := tx.WithContext(ctx).
		Select("id", "name", "type").
		Where("type = ?", role).
		Where("name ILIKE ?", likePattern(utils.EscapeLike(strings.TrimSpace(search)))).
		Order("name ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, log.Err("failed to search users", err, "role", role)
	}

	return users, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, tx *gorm.DB, email string, excludeID int) (bool, error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("EmailTaken")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("email = ? AND id <> ?", strings.ToLower(strings.TrimSpace(email)), excludeID).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check email", err)
	}

	return count > 0, nil
}

func (r *userRepository) CPFTaken(ctx context.Context, tx *gorm.DB, cpf string, excludeID int) (bool, error) {
	log := logger.NewWithContext(ctx, "userRepository").Function("CPFTaken")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Customer{}).
		Where("cpf = ? AND user_id <> ?", cpf, excludeID).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check cpf", err)
	}

	return count > 0, nil
}

func (r *userRepository) ClearCache(ctx context.Context, id int) error {
	if r.cache == nil {
		return nil
	}
	return database.NewCacheBuilder(r.cache, id).
		WithHash(constants.UserCachePrefix).
		WithContext(ctx).
		Delete()
}
