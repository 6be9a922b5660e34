// Package identity validates user references against the platform's auth
// service. A manager id stored on a project must belong to a real user, but
// there is no foreign key across service boundaries, so the check is a
// synchronous HTTP call at write time.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/defectflow/projects-service/internal/logging"
)

var (
	// ErrNotFound means the auth service answered definitively: no such user.
	ErrNotFound = errors.New("user not found")
	// ErrUnavailable means no definitive answer was obtained: timeout,
	// transport failure, unexpected status, or an open circuit breaker.
	ErrUnavailable = errors.New("auth service unavailable")
)

// Verifier confirms that a user id exists in the identity domain. It is an
// injected capability so tests can substitute deterministic outcomes.
type Verifier interface {
	Verify(ctx context.Context, userID uuid.UUID, token string) error
}

// Client verifies users over HTTP against the auth service. Calls are rate
// limited and wrapped in a circuit breaker so a dead auth service fails fast
// instead of holding every write for the full timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "AuthServiceCB",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.WithComponent("identity.client").Infof(
				"circuit breaker %s changed from %s to %s", name, from.String(), to.String())
		},
	})

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(50), 100),
	}
}

// Verify checks that userID exists. The caller's bearer token is forwarded
// because the auth service requires an authenticated requester.
func (c *Client) Verify(ctx context.Context, userID uuid.UUID, token string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		reqURL := c.baseURL + "/api/v1/users/" + userID.String()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("auth request failed: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		// 404 is a definitive answer, not a service failure; it must not
		// count against the breaker.
		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound {
			return resp.StatusCode, nil
		}
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	})
	if err != nil {
		logging.WithComponent("identity.client").WithError(err).
			Warnf("verify user %s failed", userID)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if result.(int) == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	return nil
}
