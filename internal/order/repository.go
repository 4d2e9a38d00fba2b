package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, user_id, status, total_cents, created_at, updated_at`

type Repository struct {
	DB *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{DB: db}
}

// Create inserts the order and its line items in one transaction.
func (r *Repository) Create(ctx context.Context, o *Order) (*Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.NewString()
	status := o.Status
	if status == "" {
		status = StatusPending
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, status, total_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING `+orderColumns,
		id, o.UserID, status, o.TotalCents)
	created, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	for _, item := range o.Items {
		itemID := uuid.NewString()
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, name, price_cents, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, itemID, created.ID, item.MenuItemID, item.Name, item.PriceCents, item.Quantity); err != nil {
			return nil, err
		}
		item.ID = itemID
		item.OrderID = created.ID
		created.Items = append(created.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *Repository) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+orderColumns,
		status, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, menu_item_id, name, price_cents, quantity
		FROM order_items
		WHERE order_id = $1
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.PriceCents, &item.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		id         string
		userID     string
		status     string
		totalCents int64
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(&id, &userID, &status, &totalCents, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return &Order{
		ID:         id,
		UserID:     userID,
		Status:     status,
		TotalCents: totalCents,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}
