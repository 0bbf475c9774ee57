package categories

import "context"

type Repository interface {
	FindByID(ctx context.Context, categoryID string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, category *Category) error
}
