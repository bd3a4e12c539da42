package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRateLimiterStore struct {
	counts map[string]int64
}

func newStubRateLimiterStore() *stubRateLimiterStore {
	return &stubRateLimiterStore{counts: map[string]int64{}}
}

func (s *stubRateLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.counts[key]++
	return s.counts[key], nil
}

func loginRequest(ip, email string) *http.Request {
	body := `{"email":"` + email + `","password":"secret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = ip + ":51234"
	return req
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	store := newStubRateLimiterStore()
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	hits := 0
	handler := AuthRateLimit(policy, store, testLogger())(okHandler(&hits))

	for i := 0; i < 10; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, loginRequest("10.0.0.1", "ana@example.com"))
		require.Equal(t, http.StatusOK, resp.Code)
	}
	assert.Equal(t, 10, hits)
	assert.Empty(t, store.counts)
}

func TestAuthRateLimitBlocksByIP(t *testing.T) {
	store := newStubRateLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	hits := 0
	handler := AuthRateLimit(policy, store, testLogger())(okHandler(&hits))

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, loginRequest("10.0.0.1", "ana@example.com"))
		require.Equal(t, http.StatusOK, resp.Code)
	}

	blocked := httptest.NewRecorder()
	handler.ServeHTTP(blocked, loginRequest("10.0.0.1", "ana@example.com"))
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)

	// A different address still gets through.
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, loginRequest("10.0.0.2", "ana@example.com"))
	assert.Equal(t, http.StatusOK, other.Code)
	assert.Equal(t, 3, hits)
}

func TestAuthRateLimitBlocksByEmailAcrossIPs(t *testing.T) {
	store := newStubRateLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	hits := 0
	handler := AuthRateLimit(policy, store, testLogger())(okHandler(&hits))

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, loginRequest("10.0.0.1", "Ana@Example.com"))
		require.Equal(t, http.StatusOK, resp.Code)
	}

	// Case-insensitive email match from a fresh address is still blocked.
	blocked := httptest.NewRecorder()
	handler.ServeHTTP(blocked, loginRequest("172.16.0.9", "ana@example.com"))
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, 2, hits)
}

func TestAuthRateLimitPreservesBodyForNextHandler(t *testing.T) {
	store := newStubRateLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)

	var seen string
	handler := AuthRateLimit(policy, store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 512)
		n, _ := r.Body.Read(buf)
		seen = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, loginRequest("10.0.0.1", "ana@example.com"))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, seen, "ana@example.com")
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:40000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
