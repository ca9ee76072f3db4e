package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
)

type fakeUserRepository struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *fakeUserRepository) Create(_ context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	stored := *u
	r.byID[u.ID] = &stored
	r.byEmail[u.Email] = &stored
	return nil
}

func (r *fakeUserRepository) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	if u, ok := r.byID[id]; ok {
		u.LastLoginAt = &t
	}
	return nil
}

func (r *fakeUserRepository) List(_ context.Context, _ UserFilter) ([]*User, int, error) {
	return nil, 0, nil
}

func (r *fakeUserRepository) Update(_ context.Context, u *User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	stored := *u
	r.byID[u.ID] = &stored
	r.byEmail[u.Email] = &stored
	return nil
}

func (r *fakeUserRepository) Delete(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = false
	return nil
}

func newUserService() (Service, *fakeUserRepository) {
	repo := newFakeUserRepository()
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4)), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "  Alice@Example.COM ", "password123", " Alice ", true)
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	require.NotNil(t, u.DisplayName)
	assert.Equal(t, "Alice", *u.DisplayName)
	assert.True(t, u.IsActive)
	assert.True(t, u.IsOwner)
	assert.False(t, u.IsSystemAdmin)
	assert.NotEqual(t, "password123", u.PasswordHash)

	_, err = svc.Register(ctx, "alice@example.com", "password123", "", false)
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)

	_, err = svc.Register(ctx, "", "password123", "", false)
	assert.Error(t, err)

	_, err = svc.Register(ctx, "bob@example.com", "short", "", false)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, repo := newUserService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice@example.com", "password123", "Alice", false)
	require.NoError(t, err)

	u, err := svc.Login(ctx, "ALICE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "alice@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "password123", "", false)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))

	_, err = svc.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestUpdate(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "password123", "Alice", false)
	require.NoError(t, err)

	blank := "   "
	owner := true
	updated, err := svc.Update(ctx, u.ID, UpdateUserRequest{
		DisplayName: &blank,
		IsOwner:     &owner,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DisplayName)
	assert.True(t, updated.IsOwner)

	_, err = svc.Update(ctx, "missing", UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}
