package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, name, description, created_at, updated_at`
const itemColumns = `id, category_id, name, description, price_cents, image_url, available, created_at, updated_at`

type Repository struct {
	DB *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *cat)
	}
	return categories, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, id string) (*Category, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	cat, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return cat, err
}

func (r *Repository) CreateCategory(ctx context.Context, name string, description *string) (*Category, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		uuid.NewString(), name, description)
	return scanCategory(row)
}

func (r *Repository) UpdateCategory(ctx context.Context, id, name string, description *string) (*Category, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE categories
		SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+categoryColumns,
		name, description, id)
	cat, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return cat, err
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (r *Repository) ListItems(ctx context.Context, categoryID *string) ([]MenuItem, error) {
	query := `SELECT ` + itemColumns + ` FROM menu_items`
	args := []interface{}{}
	if categoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *Repository) GetItem(ctx context.Context, id string) (*MenuItem, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

func (r *Repository) CreateItem(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO menu_items (id, category_id, name, description, price_cents, image_url, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+itemColumns,
		uuid.NewString(), item.CategoryID, item.Name, item.Description, item.PriceCents, item.ImageURL, item.Available)
	return scanItem(row)
}

func (r *Repository) UpdateItem(ctx context.Context, item *MenuItem) (*MenuItem, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE menu_items
		SET category_id = $1, name = $2, description = $3, price_cents = $4,
		    image_url = $5, available = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+itemColumns,
		item.CategoryID, item.Name, item.Description, item.PriceCents, item.ImageURL, item.Available, item.ID)
	updated, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return updated, err
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	return err
}

func scanCategory(row pgx.Row) (*Category, error) {
	var (
		id          string
		name        string
		description sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &name, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return &Category{
		ID:          id,
		Name:        name,
		Description: nullStringPtr(description),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func scanItem(row pgx.Row) (*MenuItem, error) {
	var (
		id          string
		categoryID  string
		name        string
		description sql.NullString
		priceCents  int64
		imageURL    sql.NullString
		available   bool
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &categoryID, &name, &description, &priceCents, &imageURL, &available, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return &MenuItem{
		ID:          id,
		CategoryID:  categoryID,
		Name:        name,
		Description: nullStringPtr(description),
		PriceCents:  priceCents,
		ImageURL:    nullStringPtr(imageURL),
		Available:   available,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}
