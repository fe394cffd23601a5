// File: internal/middleware/auth_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eden1011/todo-app-sub000/internal/services/identity"
)

type stubVerifier struct {
	user *identity.VerifiedUser
	err  error
}

func (v stubVerifier) VerifyToken(ctx context.Context, token string) (*identity.VerifiedUser, error) {
	if token == "" {
		return nil, identity.NewMissingTokenError()
	}
	if v.err != nil {
		return nil, v.err
	}
	return v.user, nil
}

func TestAuthMiddlewarePopulatesContext(t *testing.T) {
	verifier := stubVerifier{user: &identity.VerifiedUser{ID: 7, Username: "alice"}}

	var gotUser *identity.VerifiedUser
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		gotToken, _ = TokenFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	req.Header.Set("Authorization", "Bearer tok-123")
	rec := httptest.NewRecorder()

	NewAuthMiddleware(verifier)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, 7, gotUser.ID)
	assert.Equal(t, "tok-123", gotToken)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	rec := httptest.NewRecorder()

	NewAuthMiddleware(stubVerifier{})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token required")
}

func TestAuthMiddlewareFailureStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{identity.NewInvalidTokenError(), http.StatusUnauthorized},
		{identity.NewUnavailableError(nil), http.StatusServiceUnavailable},
		{identity.NewTimeoutError(nil), http.StatusGatewayTimeout},
		{identity.NewInternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler must not run for %v", tc.err)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
		req.Header.Set("Authorization", "Bearer any")
		rec := httptest.NewRecorder()

		NewAuthMiddleware(stubVerifier{err: tc.err})(next).ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}
}

func TestUserFromContextAbsent(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
