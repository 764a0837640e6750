package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"photo-gallery-backend/internal/models"
	"photo-gallery-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*models.User
	stats *models.DashboardStats
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return fmt.Errorf("username %q: %w", user.Username, repository.ErrDuplicate)
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) Stats(ctx context.Context, userID string) (*models.DashboardStats, error) {
	if f.stats != nil {
		return f.stats, nil
	}
	return &models.DashboardStats{}, nil
}

var _ UserRepo = (*fakeUserRepo)(nil)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the user with a valid token", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(), "test-secret")

		user, err := svc.CreateUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		require.NotEmpty(t, user.Token)

		userID, err := svc.ValidateJWT(user.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(), "test-secret")

		_, err := svc.CreateUser(ctx, "alice")
		require.NoError(t, err)

		_, err = svc.CreateUser(ctx, "alice")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "username", ve.Field)
	})

	t.Run("rejects out-of-range usernames", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(), "test-secret")

		var ve *ValidationError
		_, err := svc.CreateUser(ctx, "ab")
		require.ErrorAs(t, err, &ve)

		_, err = svc.CreateUser(ctx, strings.Repeat("x", maxUsernameLength+1))
		require.ErrorAs(t, err, &ve)
	})
}

func TestValidateJWT(t *testing.T) {
	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		issuer := NewUserService(nil, "secret-a")
		verifier := NewUserService(nil, "secret-b")

		token, err := issuer.GenerateJWT("user-1")
		require.NoError(t, err)

		_, err = verifier.ValidateJWT(token)
		require.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := NewUserService(nil, "test-secret")

		_, err := svc.ValidateJWT("not-a-token")
		require.Error(t, err)
	})
}

func TestStats(t *testing.T) {
	repo := newFakeUserRepo()
	repo.stats = &models.DashboardStats{ImagesCount: 3, AlbumsCount: 1, TagsCount: 2, ImagesSize: 1024}
	svc := NewUserService(repo, "test-secret")

	stats, err := svc.Stats(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.ImagesCount)
	assert.Equal(t, int64(1024), stats.ImagesSize)
}
