package catalog

import (
	"context"
	"time"
)

type Category struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuItem struct {
	ID          string
	CategoryID  string
	Name        string
	Description *string
	PriceCents  int64
	ImageURL    *string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	CreateCategory(ctx context.Context, name string, description *string) (*Category, error)
	UpdateCategory(ctx context.Context, id, name string, description *string) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListItems(ctx context.Context, categoryID *string) ([]MenuItem, error)
	GetItem(ctx context.Context, id string) (*MenuItem, error)
	CreateItem(ctx context.Context, item *MenuItem) (*MenuItem, error)
	UpdateItem(ctx context.Context, item *MenuItem) (*MenuItem, error)
	DeleteItem(ctx context.Context, id string) error
}
