package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterKeysByClientIP(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/wallet", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:4000"); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, code)
		}
	}
	if code := send("10.0.0.1:4000"); code != http.StatusTooManyRequests {
		t.Fatalf("status after burst = %d, want 429", code)
	}

	// A different client keeps its own budget.
	if code := send("10.0.0.2:4000"); code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", code)
	}
}
