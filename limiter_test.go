package folio

import (
	"testing"
	"time"
)

func TestSessionLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewSessionLimiter(2, 200*time.Millisecond)
	defer limiter.Close()
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first session to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second session to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third session to be blocked")
	}
}

func TestSessionLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewSessionLimiter(1, 150*time.Millisecond)
	defer limiter.Close()
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first session to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second session to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Allow(ip) {
		t.Fatalf("expected session after window to be allowed")
	}
}

func TestSessionLimiterIsPerIP(t *testing.T) {
	limiter := NewSessionLimiter(1, 200*time.Millisecond)
	defer limiter.Close()

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}
