package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartTTL = 7 * 24 * time.Hour

type Item struct {
	ItemID     string `json:"itemId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

type Cart struct {
	UserID     string `json:"userId"`
	Items      []Item `json:"items"`
	TotalCents int64  `json:"totalCents"`
}

// Store keeps one Redis hash per user, one field per menu item. Carts
// expire a week after the last write.
type Store struct {
	Redis *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{Redis: client}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

func (s *Store) Get(ctx context.Context, userID string) (*Cart, error) {
	vals, err := s.Redis.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	c := &Cart{UserID: userID, Items: []Item{}}
	for _, raw := range vals {
		var item Item
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, item)
		c.TotalCents += item.PriceCents * int64(item.Quantity)
	}
	return c, nil
}

// AddItem adds quantity to any existing entry for the same menu item.
func (s *Store) AddItem(ctx context.Context, userID string, item Item) (*Cart, error) {
	key := cartKey(userID)

	existing, err := s.Redis.HGet(ctx, key, item.ItemID).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	if err == nil {
		var prev Item
		if err := json.Unmarshal([]byte(existing), &prev); err != nil {
			return nil, err
		}
		item.Quantity += prev.Quantity
	}

	if err := s.writeItem(ctx, key, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// SetQuantity replaces the quantity for an item; zero removes it.
func (s *Store) SetQuantity(ctx context.Context, userID, itemID string, quantity int) (*Cart, error) {
	key := cartKey(userID)

	if quantity <= 0 {
		if err := s.Redis.HDel(ctx, key, itemID).Err(); err != nil {
			return nil, err
		}
		return s.Get(ctx, userID)
	}

	raw, err := s.Redis.HGet(ctx, key, itemID).Result()
	if err == redis.Nil {
		return s.Get(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	var item Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, err
	}
	item.Quantity = quantity

	if err := s.writeItem(ctx, key, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Store) RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error) {
	if err := s.Redis.HDel(ctx, cartKey(userID), itemID).Err(); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.Redis.Del(ctx, cartKey(userID)).Err()
}

func (s *Store) writeItem(ctx context.Context, key string, item Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, key, item.ItemID, data)
	pipe.Expire(ctx, key, cartTTL)
	_, err = pipe.Exec(ctx)
	return err
}
