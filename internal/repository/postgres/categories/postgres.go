package categories

import (
	"context"
	"errors"

	categoriesdomain "fintrack-go/internal/domain/categories"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByID(ctx context.Context, categoryID string) (*categoriesdomain.Category, error) {
	var category categoriesdomain.Category
	if err := r.db.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categoriesdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]categoriesdomain.Category, error) {
	var categories []categoriesdomain.Category
	if err := r.db.WithContext(ctx).
		Order("created_at asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) Create(ctx context.Context, category *categoriesdomain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}
