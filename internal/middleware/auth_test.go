package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"photo-gallery-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	// The JWT methods never touch the repository, so nil is fine here.
	userService := services.NewUserService(nil, "test-secret")

	var gotUserID string
	handler := AuthMiddleware(userService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes through with the user id", func(t *testing.T) {
		token, err := userService.GenerateJWT("user-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", gotUserID)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is unauthorized", func(t *testing.T) {
		for _, header := range []string{"Bearer", "Basic abc", "Bearer a b"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		}
	})

	t.Run("token signed with another secret is unauthorized", func(t *testing.T) {
		other := services.NewUserService(nil, "other-secret")
		token, err := other.GenerateJWT("user-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetUserID(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-42")
	assert.Equal(t, "user-42", GetUserID(ctx))
	assert.Equal(t, "", GetUserID(context.Background()))
}
