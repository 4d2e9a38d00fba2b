package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeClock lets tests move time forward past the expiry windows.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeStore is an in-memory Store honoring the same not-expired predicates
// as the SQL repository.
type fakeStore struct {
	users map[string]*User
	now   func() time.Time

	codeLookups int
}

func newFakeStore(now func() time.Time) *fakeStore {
	return &fakeStore{users: map[string]*User{}, now: now}
}

func (s *fakeStore) Create(_ context.Context, u *User) (*User, error) {
	clone := *u
	clone.ID = uuid.NewString()
	if clone.Role == "" {
		clone.Role = RoleUser
	}
	s.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*User, error) {
	if u, ok := s.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (s *fakeStore) SetPasswordReset(_ context.Context, userID, tokenHash string, expiry time.Time) error {
	u := s.users[userID]
	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiry = &expiry
	return nil
}

func (s *fakeStore) FindByResetTokenHash(_ context.Context, tokenHash string) (*User, error) {
	for _, u := range s.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpiry != nil && s.now().Before(*u.ResetTokenExpiry) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SetVerificationCode(_ context.Context, userID, codeHash string, expiry time.Time) error {
	u := s.users[userID]
	u.VerificationCode = &codeHash
	u.VerificationCodeExpiry = &expiry
	return nil
}

func (s *fakeStore) FindByIDAndCode(_ context.Context, userID, codeHash string) (*User, error) {
	s.codeLookups++
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	if u.VerificationCode == nil || *u.VerificationCode != codeHash {
		return nil, nil
	}
	if u.VerificationCodeExpiry == nil || !s.now().Before(*u.VerificationCodeExpiry) {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (s *fakeStore) ResetPassword(_ context.Context, userID, passwordHash string) error {
	u := s.users[userID]
	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	u.VerificationCode = nil
	u.VerificationCodeExpiry = nil
	return nil
}

func newRecoveryFixture(t *testing.T) (*RecoveryService, *fakeStore, *fakeClock, *User) {
	t.Helper()

	clock := &fakeClock{t: time.Now()}
	store := newFakeStore(clock.Now)
	hasher := NewBcryptHasher(bcrypt.MinCost)

	svc := NewRecoveryService(store, hasher)
	svc.now = clock.Now

	hash, err := hasher.Hash("pw123456")
	require.NoError(t, err)
	user, err := store.Create(context.Background(), &User{
		Email:        "a@x.com",
		FirstName:    "A",
		LastName:     "B",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	return svc, store, clock, user
}

func TestRequestUnknownEmailHasNoSideEffect(t *testing.T) {
	t.Parallel()

	svc, store, _, _ := newRecoveryFixture(t)

	issued, err := svc.Request(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	require.Nil(t, issued)

	for _, u := range store.users {
		require.Nil(t, u.ResetTokenHash)
	}
}

func TestRequestStoresDigestNotToken(t *testing.T) {
	t.Parallel()

	svc, store, clock, user := newRecoveryFixture(t)

	issued, err := svc.Request(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, issued)
	require.NotEmpty(t, issued.Token)

	stored := store.users[user.ID]
	require.NotNil(t, stored.ResetTokenHash)
	require.NotEqual(t, issued.Token, *stored.ResetTokenHash)
	require.Equal(t, HashString(issued.Token), *stored.ResetTokenHash)
	require.Equal(t, clock.Now().Add(ResetTokenTTL), *stored.ResetTokenExpiry)
}

func TestRequestReissueInvalidatesPriorToken(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newRecoveryFixture(t)
	ctx := context.Background()

	first, err := svc.Request(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := svc.Request(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = svc.Verify(ctx, first.Token, "A", "B")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	issued, err := svc.Verify(ctx, second.Token, "A", "B")
	require.NoError(t, err)
	require.NotNil(t, issued)
}

func TestVerifyWrongAndExpiredTokenCollapse(t *testing.T) {
	t.Parallel()

	svc, _, clock, _ := newRecoveryFixture(t)
	ctx := context.Background()

	issued, err := svc.Request(ctx, "a@x.com")
	require.NoError(t, err)

	_, err = svc.Verify(ctx, "deadbeef", "A", "B")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	clock.Advance(ResetTokenTTL + time.Microsecond)
	_, err = svc.Verify(ctx, issued.Token, "A", "B")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestVerifyNameMismatchKeepsTokenUsable(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newRecoveryFixture(t)
	ctx := context.Background()

	issued, err := svc.Request(ctx, "a@x.com")
	require.NoError(t, err)

	_, err = svc.Verify(ctx, issued.Token, "A", "Wrong")
	require.ErrorIs(t, err, ErrIdentityMismatch)
	_, err = svc.Verify(ctx, issued.Token, "Wrong", "B")
	require.ErrorIs(t, err, ErrIdentityMismatch)

	code, err := svc.Verify(ctx, issued.Token, "A", "B")
	require.NoError(t, err)
	require.NotNil(t, code)
}

func TestVerifyNamesFoldCase(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newRecoveryFixture(t)
	ctx := context.Background()

	issued, err := svc.Request(ctx, "a@x.com")
	require.NoError(t, err)

	code, err := svc.Verify(ctx, issued.Token, "a", "b")
	require.NoError(t, err)
	require.NotNil(t, code)
	require.Len(t, code.Code, 6)
}

func TestConsumeWeakPasswordSkipsLookup(t *testing.T) {
	t.Parallel()

	svc, store, _, user := newRecoveryFixture(t)

	err := svc.Consume(context.Background(), user.ID, "123456", "short12")
	require.ErrorIs(t, err, ErrWeakPassword)
	require.Zero(t, store.codeLookups)
}

func TestConsumeWrongOrExpiredCode(t *testing.T) {
	t.Parallel()

	svc, _, clock, user := newRecoveryFixture(t)
	ctx := context.Background()

	issued, err := svc.Request(ctx, "a@x.com")
	require.NoError(t, err)
	code, err := svc.Verify(ctx, issued.Token, "A", "B")
	require.NoError(t, err)

	err = svc.Consume(ctx, user.ID, "000000", "newpw1234")
	require.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	clock.Advance(VerificationCodeTTL + time.Microsecond)
	err = svc.Consume(ctx, user.ID, code.Code, "newpw1234")
	require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

func TestConsumeClearsAllRecoveryFields(t *testing.T) {
	t.Parallel()

	svc, store, _, user := newRecoveryFixture(t)
	ctx := context.Background()

	issued, err := svc.Request(ctx, "a@x.com")
	require.NoError(t, err)
	code, err := svc.Verify(ctx, issued.Token, "A", "B")
	require.NoError(t, err)

	oldHash := store.users[user.ID].PasswordHash
	require.NoError(t, svc.Consume(ctx, user.ID, code.Code, "newpw1234"))

	stored := store.users[user.ID]
	require.NotEqual(t, oldHash, stored.PasswordHash)
	require.Nil(t, stored.ResetTokenHash)
	require.Nil(t, stored.ResetTokenExpiry)
	require.Nil(t, stored.VerificationCode)
	require.Nil(t, stored.VerificationCodeExpiry)

	// Neither secret survives a completed flow.
	_, err = svc.Verify(ctx, issued.Token, "A", "B")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	err = svc.Consume(ctx, user.ID, code.Code, "another123")
	require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}
