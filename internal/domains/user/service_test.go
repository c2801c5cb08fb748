package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuwen-dev/vocana/pkg/Logger"
)

type fakeUserRepo struct {
	users   map[string]*User
	touched []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok || !u.IsActive {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id string, updates UpdateUserRequest) (*User, error) {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updates.Username != nil {
		u.Username = *updates.Username
	}
	if updates.Description != nil {
		u.Description = *updates.Description
	}
	return u, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.IsActive = false
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]User, int64, error) {
	var out []User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) TouchActivity(ctx context.Context, id string) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeUsage struct {
	conversations int64
	messages      int64
}

func (f *fakeUsage) GetUsage(ctx context.Context, userID string) (int64, int64, error) {
	return f.conversations, f.messages, nil
}

func newTestUserService(repo UserRepository) UserService {
	return NewUserService(repo, &fakeUsage{conversations: 3, messages: 42}, Logger.New(false), "test-secret", time.Hour)
}

func TestEnsureUserAutoProvisions(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	require.NoError(t, svc.EnsureUser(context.Background(), "u-new"))

	u, err := svc.GetUser(context.Background(), "u-new")
	require.NoError(t, err)
	assert.Equal(t, "u-new", u.Username)
	assert.Equal(t, 1.0, u.ResponseFrequency)
	assert.True(t, u.IsActive)
}

func TestEnsureUserTouchesExisting(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	require.NoError(t, svc.EnsureUser(context.Background(), "u1"))

	require.NoError(t, svc.EnsureUser(context.Background(), "u1"))

	assert.Contains(t, repo.touched, "u1")
	assert.Len(t, repo.users, 1, "a second connect must not create another profile")
}

func TestCreateUserConflict(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{ID: "u1", Username: "one"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{ID: "u1", Username: "two"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestTokenRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	require.NoError(t, svc.EnsureUser(context.Background(), "u1"))

	token, expiresAt, err := svc.IssueToken(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	_, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	issuer := NewUserService(repo, &fakeUsage{}, Logger.New(false), "secret-a", time.Hour)
	verifier := NewUserService(repo, &fakeUsage{}, Logger.New(false), "secret-b", time.Hour)
	require.NoError(t, issuer.EnsureUser(context.Background(), "u1"))

	token, _, err := issuer.IssueToken(context.Background(), "u1")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueTokenUnknownUser(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	_, _, err := svc.IssueToken(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetStatsMergesUsage(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	require.NoError(t, svc.EnsureUser(context.Background(), "u1"))

	stats, err := svc.GetStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalConversations)
	assert.Equal(t, int64(42), stats.TotalMessages)
}
