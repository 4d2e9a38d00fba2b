package order

import (
	"context"
	"time"
)

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item snapshots the menu item at order time; later price changes do not
// affect placed orders.
type Item struct {
	ID         string
	OrderID    string
	MenuItemID string
	Name       string
	PriceCents int64
	Quantity   int
}

type Order struct {
	ID         string
	UserID     string
	Status     string
	TotalCents int64
	Items      []Item
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Store interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*Order, error)
}
