package services

import (
	"context"
	"strings"
	"testing"

	"photo-gallery-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a tag for the user", func(t *testing.T) {
		svc := NewTagService(newFakeTagRepo())

		tag, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)
		assert.Equal(t, "vacation", tag.Name)
		assert.Equal(t, "user-1", tag.UserID)
		assert.NotEmpty(t, tag.ID)
	})

	t.Run("rejects a duplicate name for the same owner", func(t *testing.T) {
		svc := NewTagService(newFakeTagRepo())

		_, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)

		_, err = svc.CreateTag(ctx, "user-1", "vacation")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
	})

	t.Run("allows the same name for different owners", func(t *testing.T) {
		svc := NewTagService(newFakeTagRepo())

		_, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)
		_, err = svc.CreateTag(ctx, "user-2", "vacation")
		require.NoError(t, err)
	})

	t.Run("rejects empty and overlong names", func(t *testing.T) {
		svc := NewTagService(newFakeTagRepo())

		var ve *ValidationError
		_, err := svc.CreateTag(ctx, "user-1", "")
		require.ErrorAs(t, err, &ve)

		_, err = svc.CreateTag(ctx, "user-1", strings.Repeat("x", maxNameLength+1))
		require.ErrorAs(t, err, &ve)
	})
}

func TestUpdateTag(t *testing.T) {
	ctx := context.Background()

	t.Run("renames the tag", func(t *testing.T) {
		repo := newFakeTagRepo()
		svc := NewTagService(repo)
		tag, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)

		updated, err := svc.UpdateTag(ctx, "user-1", tag.ID, "holiday")
		require.NoError(t, err)
		assert.Equal(t, "holiday", updated.Name)
		assert.Equal(t, "holiday", repo.tags[tag.ID].Name)
	})

	t.Run("rejects renaming onto an existing name", func(t *testing.T) {
		svc := NewTagService(newFakeTagRepo())
		_, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)
		other, err := svc.CreateTag(ctx, "user-1", "work")
		require.NoError(t, err)

		_, err = svc.UpdateTag(ctx, "user-1", other.ID, "vacation")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("denies another user", func(t *testing.T) {
		repo := newFakeTagRepo()
		svc := NewTagService(repo)
		tag, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)

		_, err = svc.UpdateTag(ctx, "user-2", tag.ID, "stolen")
		require.ErrorIs(t, err, ErrDenied)
		assert.Equal(t, "vacation", repo.tags[tag.ID].Name)
	})

	t.Run("unknown tag is not found", func(t *testing.T) {
		svc := NewTagService(newFakeTagRepo())

		_, err := svc.UpdateTag(ctx, "user-1", "missing", "x")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDeleteTag(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the tag", func(t *testing.T) {
		repo := newFakeTagRepo()
		svc := NewTagService(repo)
		tag, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteTag(ctx, "user-1", tag.ID))
		assert.Empty(t, repo.tags)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		svc := NewTagService(newFakeTagRepo())
		tag, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteTag(ctx, "user-1", tag.ID))
		err = svc.DeleteTag(ctx, "user-1", tag.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("denies another user", func(t *testing.T) {
		repo := newFakeTagRepo()
		svc := NewTagService(repo)
		tag, err := svc.CreateTag(ctx, "user-1", "vacation")
		require.NoError(t, err)

		err = svc.DeleteTag(ctx, "user-2", tag.ID)
		require.ErrorIs(t, err, ErrDenied)
		assert.Len(t, repo.tags, 1)
	})
}
