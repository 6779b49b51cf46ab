package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestRateLimitByIPBlocksAfterBurst verifies the burst is honored and the
// next request gets a 429 with a Retry-After hint.
func TestRateLimitByIPBlocksAfterBurst(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := Chain(okHandler(), RateLimitByIP(cfg))

	for i := 0; i < 2; i++ {
		rec := doRequest(t, h, "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i)
	}

	rec := doRequest(t, h, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), ErrorCodeRateLimited)
}

// TestRateLimitKeysAreIndependent verifies one client exhausting its budget
// does not affect another.
func TestRateLimitKeysAreIndependent(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := Chain(okHandler(), RateLimitByIP(cfg))

	require.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.1:1111").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(t, h, "10.0.0.1:2222").Code,
		"same IP, different port shares the budget")
	require.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.2:1111").Code,
		"a different IP has its own budget")
}

// TestIPKeyExtractorHonorsProxyHeaders verifies the forwarded-for chain wins
// over the socket address.
func TestIPKeyExtractorHonorsProxyHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	require.Equal(t, "127.0.0.1", IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	require.Equal(t, "203.0.113.9", IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.9")
	require.Equal(t, "198.51.100.7", IPKeyExtractor(req))
}

// TestParseRateLimitFromEnv verifies environment overrides and that garbage
// values fall back to the defaults.
func TestParseRateLimitFromEnv(t *testing.T) {
	def := RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	t.Setenv("RATELIMIT_TEST_REQUESTS", "50")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_TEST_BURST", "10")

	cfg := ParseRateLimitFromEnv("TEST", def)
	require.Equal(t, 50, cfg.RequestsPerWindow)
	require.Equal(t, 30*time.Second, cfg.Window)
	require.Equal(t, 10, cfg.Burst)

	t.Setenv("RATELIMIT_TEST_REQUESTS", "garbage")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "-1")
	cfg = ParseRateLimitFromEnv("TEST", def)
	require.Equal(t, def.RequestsPerWindow, cfg.RequestsPerWindow)
	require.Equal(t, def.Window, cfg.Window)
}

// TestChainOrder verifies middlewares wrap outermost-first, which the rate
// limiter relies on to run before the handler.
func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("first"), tag("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}
