package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_UserExists(t *testing.T) {
	userID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/"+userID.String(), r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.Verify(context.Background(), userID, "test-token")
	assert.NoError(t, err)
}

func TestVerify_UserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.Verify(context.Background(), uuid.New(), "test-token")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestVerify_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.Verify(context.Background(), uuid.New(), "test-token")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestVerify_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond)
	err := client.Verify(context.Background(), uuid.New(), "test-token")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable, "timeout must be unavailable, never not-found")
}

func TestVerify_TransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	err := client.Verify(context.Background(), uuid.New(), "test-token")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestVerify_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	// The breaker trips after more than 3 consecutive failures; every call
	// still reports unavailable, but later ones no longer reach the server.
	for i := 0; i < 6; i++ {
		err := client.Verify(context.Background(), uuid.New(), "test-token")
		assert.ErrorIs(t, err, ErrUnavailable)
	}

	assert.EqualValues(t, 4, hits.Load(), "calls after the breaker opens must not hit the network")
}

func TestVerify_NotFoundDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	for i := 0; i < 6; i++ {
		err := client.Verify(context.Background(), uuid.New(), "test-token")
		assert.ErrorIs(t, err, ErrNotFound)
	}

	assert.EqualValues(t, 6, hits.Load(), "definitive 404 answers are not breaker failures")
}

func TestVerify_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, time.Second)
	err := client.Verify(ctx, uuid.New(), "test-token")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrUnavailable))
	assert.False(t, errors.Is(ErrUnavailable, ErrNotFound))
}
