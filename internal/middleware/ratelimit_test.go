package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterWindows(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	for i, want := range []bool{true, true, false} {
		if got := rl.Allow("192.0.2.1"); got != want {
			t.Errorf("request %d: Allow() = %v, want %v", i+1, got, want)
		}
	}
	if !rl.Allow("192.0.2.2") {
		t.Error("second client shares the first client's budget")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("192.0.2.1") {
		t.Error("Allow() = false after the window elapsed")
	}
}

func TestRateLimitDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for range 10 {
		if !rl.Allow("192.0.2.1") {
			t.Fatal("Allow() = false with limit disabled")
		}
	}
}

func TestRateLimitHandler(t *testing.T) {
	h := RateLimit(1, time.Minute)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	codes := []int{}
	for range 2 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/documents/bulk", nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
		h(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [204 429]", codes)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	if got := getClientIP(req); got != "203.0.113.9" {
		t.Errorf("getClientIP() = %q", got)
	}

	req.Header.Set("X-Real-IP", " 198.51.100.1 ")
	if got := getClientIP(req); got != "198.51.100.1" {
		t.Errorf("getClientIP(X-Real-IP) = %q", got)
	}
}
