package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newLimited(t *testing.T, cfg RateLimitConfig) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return RateLimit(ctx, cfg)(okHandler())
}

func TestRateLimit_Burst(t *testing.T) {
	// A negligible refill rate makes the bucket size the whole budget.
	h := newLimited(t, RateLimitConfig{RPS: 0.001, Burst: 3})

	for i := range 3 {
		w := doRequest(h, "192.168.1.1:1234", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := doRequest(h, "192.168.1.1:1234", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":429,"message":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimit_PerClient(t *testing.T) {
	h := newLimited(t, RateLimitConfig{RPS: 0.001, Burst: 1})

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1:2", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:1", nil).Code)
}

func TestRateLimit_ForwardedFor(t *testing.T) {
	h := newLimited(t, RateLimitConfig{RPS: 0.001, Burst: 1})

	xff := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1", xff).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.9:1", xff).Code)
}

func TestRateLimit_Refill(t *testing.T) {
	h := newLimited(t, RateLimitConfig{RPS: 50, Burst: 1})

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1:1", nil).Code)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1", nil).Code)
}

func TestRateLimiter_Evict(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{RPS: 1, Burst: 1, IdleTTL: time.Minute})
	now := time.Now()

	rl.limiter("old", now.Add(-2*time.Minute))
	rl.limiter("fresh", now)
	rl.evict(now)

	assert.NotContains(t, rl.buckets, "old")
	assert.Contains(t, rl.buckets, "fresh")
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		header     map[string]string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{name: "forwarded for", remoteAddr: "10.0.0.1:1", header: map[string]string{"X-Forwarded-For": " 198.51.100.2 , 10.0.0.1"}, want: "198.51.100.2"},
		{name: "real ip", remoteAddr: "10.0.0.1:1", header: map[string]string{"X-Real-IP": "198.51.100.3"}, want: "198.51.100.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
