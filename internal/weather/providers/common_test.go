package providers

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://upstream.test/resource"

func getRequest() (*http.Request, error) {
	return http.NewRequest(http.MethodGet, testURL, nil)
}

func TestDoRequestWithResilience_Success(t *testing.T) {
	mt, cfg := newMockTransport(t)
	cfg.UserAgent = "test-agent"
	mt.RegisterResponder(http.MethodGet, testURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "test-agent", req.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		return httpmock.NewStringResponse(http.StatusOK, `ok`), nil
	})

	resp, err := doRequestWithResilience(context.Background(), cfg, newCircuitBreaker("test"), getRequest)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestDoRequestWithResilience_SingleAttemptByDefault(t *testing.T) {
	mt, cfg := newMockTransport(t)
	mt.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(http.StatusBadGateway, ``))

	_, err := doRequestWithResilience(context.Background(), cfg, newCircuitBreaker("test"), getRequest)

	require.Error(t, err)
	assert.ErrorIs(t, err, errServerError)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestDoRequestWithResilience_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, errRateLimited},
		{http.StatusInternalServerError, errServerError},
		{http.StatusNotFound, errUnexpected},
		{http.StatusTeapot, errUnexpected},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			mt, cfg := newMockTransport(t)
			mt.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(tt.status, ``))

			_, err := doRequestWithResilience(context.Background(), cfg, newCircuitBreaker("test"), getRequest)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDoRequestWithResilience_RetriesWithBackoff(t *testing.T) {
	mt, cfg := newMockTransport(t)
	cfg.Backoff = BackoffConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

	calls := 0
	mt.RegisterResponder(http.MethodGet, testURL, func(*http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return httpmock.NewStringResponse(http.StatusServiceUnavailable, ``), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, `ok`), nil
	})

	resp, err := doRequestWithResilience(context.Background(), cfg, newCircuitBreaker("test"), getRequest)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 3, calls)
}

func TestDoRequestWithResilience_CircuitOpens(t *testing.T) {
	mt, cfg := newMockTransport(t)
	mt.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(http.StatusInternalServerError, ``))

	cb := newCircuitBreaker("test")
	// gobreaker trips after more than five consecutive failures.
	for i := 0; i < 6; i++ {
		_, err := doRequestWithResilience(context.Background(), cfg, cb, getRequest)
		require.ErrorIs(t, err, errServerError)
	}

	_, err := doRequestWithResilience(context.Background(), cfg, cb, getRequest)
	assert.ErrorIs(t, err, errCircuitOpen)
	assert.Equal(t, 6, mt.GetTotalCallCount())
}

func TestDoRequestWithResilience_InvalidConfig(t *testing.T) {
	_, err := doRequestWithResilience(context.Background(), HTTPClientConfig{}, newCircuitBreaker("test"), getRequest)
	assert.ErrorIs(t, err, errNoHTTPClient)

	_, cfg := newMockTransport(t)
	cfg.Backoff.MaxRetries = -1
	_, err = doRequestWithResilience(context.Background(), cfg, newCircuitBreaker("test"), getRequest)
	assert.ErrorIs(t, err, errInvalidConfig)
}

func TestDoRequestWithResilience_CancelledContext(t *testing.T) {
	mt, cfg := newMockTransport(t)
	mt.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(http.StatusOK, `ok`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := doRequestWithResilience(ctx, cfg, newCircuitBreaker("test"), getRequest)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, mt.GetTotalCallCount())
}

func TestBackoffConfig_Delay(t *testing.T) {
	b := BackoffConfig{MaxRetries: 5, InitialInterval: 500 * time.Millisecond, MaxInterval: 3 * time.Second}

	assert.Equal(t, 500*time.Millisecond, b.delay(0))
	assert.Equal(t, time.Second, b.delay(1))
	assert.Equal(t, 2*time.Second, b.delay(2))
	assert.Equal(t, 3*time.Second, b.delay(3))

	b.MaxInterval = 0
	assert.Equal(t, 4*time.Second, b.delay(3))
}

func TestStatusError(t *testing.T) {
	assert.NoError(t, statusError(http.StatusOK))
	assert.NoError(t, statusError(http.StatusNoContent))
	assert.ErrorIs(t, statusError(http.StatusTooManyRequests), errRateLimited)
	assert.ErrorIs(t, statusError(http.StatusServiceUnavailable), errServerError)
	assert.EqualError(t, statusError(http.StatusForbidden), "unexpected status code: 403")
}
