// File: internal/services/project/client_test.go
package project

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(DefaultConfig(srv.URL), noopLogger{})
	require.NoError(t, err)
	return client
}

func projectHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/db/project/42", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"success":true,"data":{"id":42,"name":"Apollo","ownerId":1,"members":[{"userId":2,"role":"member"},{"userId":3,"role":"viewer"}]}}`)
	}
}

func TestGetProject(t *testing.T) {
	client := newTestClient(t, projectHandler(t))

	snapshot, err := client.GetProject(context.Background(), 42, "tok")
	require.NoError(t, err)
	assert.Equal(t, 42, snapshot.ID)
	assert.Equal(t, 1, snapshot.OwnerID)
	assert.Len(t, snapshot.Members, 2)
}

func TestGetProjectNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetProject(context.Background(), 42, "tok")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestIsMemberOwner(t *testing.T) {
	client := newTestClient(t, projectHandler(t))
	assert.True(t, client.IsMember(context.Background(), 1, 42, "tok"))
}

func TestIsMemberListed(t *testing.T) {
	client := newTestClient(t, projectHandler(t))
	assert.True(t, client.IsMember(context.Background(), 3, 42, "tok"))
}

func TestIsMemberOutsider(t *testing.T) {
	client := newTestClient(t, projectHandler(t))
	assert.False(t, client.IsMember(context.Background(), 99, 42, "tok"))
}

func TestIsMemberFailsClosedOnNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.False(t, client.IsMember(context.Background(), 1, 42, "tok"))
}

func TestIsMemberFailsClosedOnServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.False(t, client.IsMember(context.Background(), 1, 42, "tok"))
}

func TestIsMemberFailsClosedOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := NewClient(DefaultConfig(srv.URL), noopLogger{})
	require.NoError(t, err)

	assert.False(t, client.IsMember(context.Background(), 1, 42, "tok"))
}

func TestIsMemberFailsClosedOnProviderFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false}`)
	})
	assert.False(t, client.IsMember(context.Background(), 1, 42, "tok"))
}

func TestHasMember(t *testing.T) {
	snapshot := &ProjectSnapshot{
		ID:      1,
		OwnerID: 10,
		Members: []ProjectMember{{UserID: 20}, {UserID: 30}},
	}

	assert.True(t, snapshot.HasMember(10), "owner counts as member")
	assert.True(t, snapshot.HasMember(20))
	assert.False(t, snapshot.HasMember(40))
}
