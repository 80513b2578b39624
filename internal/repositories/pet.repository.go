package repositories

import (
	"context"
	"strings"

	. "petshop/internal/models"
	"petshop/internal/types"
	"petshop/internal/utils"
	"petshop/pkg/logger"

	"gorm.io/gorm"
)

type PetFilter struct {
	// CustomerID restricts to one owner when non-zero.
	CustomerID int
	Search     string
}

type PetRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Pet, error)
	Create(ctx context.Context, tx *gorm.DB, pet *Pet) error
	List(ctx context.Context, tx *gorm.DB, filter PetFilter, page types.PageRequest) (types.Page[Pet], error)
	SearchByCustomer(ctx context.Context, tx *gorm.DB, customerID int, search string, limit int) ([]Pet, error)
}

type petRepository struct{}

func NewPetRepository() PetRepository {
	return &petRepository{}
}

func (r *petRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Pet, error) {
	log := logger.NewWithContext(ctx, "petRepository").Function("GetByID")

	var pet Pet
	if err := tx.WithContext(ctx).Preload("Customer").First(&pet, id).Error; err != nil {
		return nil, notFound(log, err, "get pet", "petID", id)
	}

	return &pet, nil
}

func (r *petRepository) Create(ctx context.Context, tx *gorm.DB, pet *Pet) error {
	log := logger.NewWithContext(ctx, "petRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(pet).Error; err != nil {
		return log.Err("failed to create pet", err, "customerID", pet.CustomerID)
	}

	return nil
}

func (r *petRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter PetFilter,
	page types.PageRequest,
) (types.Page[Pet], error) {
	log := logger.NewWithContext(ctx, "petRepository").Function("List")

	query := tx.WithContext(ctx).Model(&Pet{})
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name ILIKE ?", likePattern(utils.EscapeLike(search)))
	}

	result, err := paginate[Pet](ctx, query, "id DESC", page, "Customer")
	if err != nil {
		return types.Page[Pet]{}, log.Err("failed to list pets", err)
	}

	return result, nil
}

func (r *petRepository) SearchByCustomer(
	ctx context.Context,
	tx *gorm.DB,
	customerID int,
	search string,
	limit int,
) ([]Pet, error) {
	log := logger.NewWithContext(ctx, "petRepository").Function("SearchByCustomer")

	var pets []Pet
	if err := tx.WithContext(ctx).
		Select("id", "name", "customer_id").
		Where("customer_id = ?", customerID).
		Where("name ILIKE ?", likePattern(utils.EscapeLike(strings.TrimSpace(search)))).
		Order("name ASC").
		Limit(limit).
		Find(&pets).Error; err != nil {
		return nil, log.Err("failed to search pets", err, "customerID", customerID)
	}

	return pets, nil
}
