// File: internal/services/identity/client_test.go
package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(DefaultConfig(srv.URL), noopLogger{})
	require.NoError(t, err)
	return client, srv
}

func TestVerifyTokenSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/token/verify", r.URL.Path)
		assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"valid":true,"user":{"id":7,"username":"alice","email":"alice@example.com"}}}`))
	})

	user, err := client.VerifyToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestVerifyTokenMissing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("verification endpoint must not be called for an empty token")
	})

	_, err := client.VerifyToken(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, ErrTypeMissingToken, TypeOf(err))
}

func TestVerifyTokenRejected(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.VerifyToken(context.Background(), "bad-token")
		require.Error(t, err)
		assert.Equal(t, ErrTypeInvalidToken, TypeOf(err), "status %d", status)
	}
}

func TestVerifyTokenInvalidBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"valid":false}}`))
	})

	_, err := client.VerifyToken(context.Background(), "expired-token")
	require.Error(t, err)
	assert.Equal(t, ErrTypeInvalidToken, TypeOf(err))
}

func TestVerifyTokenUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.VerifyToken(context.Background(), "any-token")
	require.Error(t, err)
	assert.Equal(t, ErrTypeUnavailable, TypeOf(err))
}

func TestVerifyTokenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	client, err := NewClient(DefaultConfig(srv.URL), noopLogger{})
	require.NoError(t, err)

	_, err = client.VerifyToken(context.Background(), "any-token")
	require.Error(t, err)
	assert.Equal(t, ErrTypeUnavailable, TypeOf(err))
}

func TestVerifyTokenTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	})
	client.config.Timeout = 20 * time.Millisecond
	client.client.Timeout = 20 * time.Millisecond

	_, err := client.VerifyToken(context.Background(), "any-token")
	require.Error(t, err)
	assert.Equal(t, ErrTypeTimeout, TypeOf(err))
}

func TestVerifyTokenNoUserIdentity(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"valid":true,"user":{"id":0}}}`))
	})

	_, err := client.VerifyToken(context.Background(), "any-token")
	require.Error(t, err)
	assert.Equal(t, ErrTypeInternal, TypeOf(err))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "", Timeout: time.Second}, noopLogger{})
	assert.Error(t, err)
}
