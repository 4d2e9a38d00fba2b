package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"tavola/internal/auth"
	"tavola/internal/cart"
	"tavola/internal/catalog"
	"tavola/internal/config"
	"tavola/internal/order"
)

// fakeUserStore is an in-memory auth.Store with the same expiry predicates
// as the SQL repository.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*auth.User

	codeLookups int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*auth.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *u
	clone.ID = uuid.NewString()
	if clone.Role == "" {
		clone.Role = auth.RoleUser
	}
	s.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (s *fakeUserStore) SetPasswordReset(_ context.Context, userID, tokenHash string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiry = &expiry
	return nil
}

func (s *fakeUserStore) FindByResetTokenHash(_ context.Context, tokenHash string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpiry != nil && time.Now().Before(*u.ResetTokenExpiry) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) SetVerificationCode(_ context.Context, userID, codeHash string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.VerificationCode = &codeHash
	u.VerificationCodeExpiry = &expiry
	return nil
}

func (s *fakeUserStore) FindByIDAndCode(_ context.Context, userID, codeHash string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codeLookups++
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	if u.VerificationCode == nil || *u.VerificationCode != codeHash {
		return nil, nil
	}
	if u.VerificationCodeExpiry == nil || !time.Now().Before(*u.VerificationCodeExpiry) {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (s *fakeUserStore) ResetPassword(_ context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	u.VerificationCode = nil
	u.VerificationCodeExpiry = nil
	return nil
}

// fakeCatalog serves a fixed menu.
type fakeCatalog struct {
	categories map[string]*catalog.Category
	items      map[string]*catalog.MenuItem
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: map[string]*catalog.Category{},
		items:      map[string]*catalog.MenuItem{},
	}
}

func (f *fakeCatalog) ListCategories(context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCatalog) GetCategory(_ context.Context, id string) (*catalog.Category, error) {
	if c, ok := f.categories[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, nil
}

func (f *fakeCatalog) CreateCategory(_ context.Context, name string, description *string) (*catalog.Category, error) {
	c := &catalog.Category{ID: uuid.NewString(), Name: name, Description: description}
	f.categories[c.ID] = c
	out := *c
	return &out, nil
}

func (f *fakeCatalog) UpdateCategory(_ context.Context, id, name string, description *string) (*catalog.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	c.Name = name
	c.Description = description
	out := *c
	return &out, nil
}

func (f *fakeCatalog) DeleteCategory(_ context.Context, id string) error {
	delete(f.categories, id)
	return nil
}

func (f *fakeCatalog) ListItems(_ context.Context, categoryID *string) ([]catalog.MenuItem, error) {
	var out []catalog.MenuItem
	for _, item := range f.items {
		if categoryID == nil || item.CategoryID == *categoryID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetItem(_ context.Context, id string) (*catalog.MenuItem, error) {
	if item, ok := f.items[id]; ok {
		out := *item
		return &out, nil
	}
	return nil, nil
}

func (f *fakeCatalog) CreateItem(_ context.Context, item *catalog.MenuItem) (*catalog.MenuItem, error) {
	clone := *item
	clone.ID = uuid.NewString()
	f.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakeCatalog) UpdateItem(_ context.Context, item *catalog.MenuItem) (*catalog.MenuItem, error) {
	if _, ok := f.items[item.ID]; !ok {
		return nil, nil
	}
	clone := *item
	f.items[item.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakeCatalog) DeleteItem(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

// fakeOrders records created orders in memory.
type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]*order.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]*order.Order{}}
}

func (f *fakeOrders) Create(_ context.Context, o *order.Order) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *o
	clone.ID = uuid.NewString()
	if clone.Status == "" {
		clone.Status = order.StatusPending
	}
	clone.CreatedAt = time.Now()
	f.orders[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		out := *o
		return &out, nil
	}
	return nil, nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []order.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListAll(context.Context) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []order.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id, status string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	out := *o
	return &out, nil
}

type testEnv struct {
	server  *Server
	users   *fakeUserStore
	catalog *fakeCatalog
	orders  *fakeOrders
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	users := newFakeUserStore()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	cat := newFakeCatalog()
	orders := newFakeOrders()

	cfg := config.Config{AppEnv: "test", JWTSecret: "test-secret"}
	srv := NewServer(
		cfg,
		users,
		auth.NewRecoveryService(users, hasher),
		auth.ResponseDelivery{},
		auth.NewTokenIssuer([]byte(cfg.JWTSecret)),
		hasher,
		cat,
		cart.NewStore(redisClient),
		orders,
		nil,
	)
	return &testEnv{server: srv, users: users, catalog: cat, orders: orders}
}
