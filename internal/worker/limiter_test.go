package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != defaultBurst {
		t.Errorf("expected default burst %d for negative input, got %d", defaultBurst, l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1) // 100 rps, burst 1
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different key should also work
	if err := limiter.Wait(ctx, "anthropic"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	_ = limiter.getLimiter("gemini").Allow() // consume the only token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "gemini"); err == nil {
		t.Error("expected error when context expires before a token is available")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "ollama"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1 means the token is consumed
	if limiter.getLimiter("ollama").Allow() {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.getLimiter("openai").Allow() {
		t.Errorf("expected allow for other key")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)

	for i := 0; i < 100; i++ {
		if !limiter.getLimiter("openai").Allow() {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10) // fast default

	limiter.SetRate("slow.com", 0.1, 1)

	if !limiter.getLimiter("slow.com").Allow() {
		t.Errorf("first request should pass")
	}
	if limiter.getLimiter("slow.com").Allow() {
		t.Errorf("second request should fail")
	}
	if !limiter.getLimiter("fast.com").Allow() {
		t.Errorf("other key should pass")
	}
}

func TestLimiter_SetIntervalKeepsSpentTokens(t *testing.T) {
	limiter := NewLimiter(0, 1) // unlimited default

	if !limiter.getLimiter("example.com").Allow() {
		t.Fatal("unlimited key should pass")
	}

	limiter.SetInterval("example.com", time.Hour)
	if !limiter.getLimiter("example.com").Allow() {
		t.Fatal("first request after SetInterval should pass")
	}
	if limiter.getLimiter("example.com").Allow() {
		t.Fatal("second request within the interval should fail")
	}

	// Re-applying the same interval must not refill the bucket
	limiter.SetInterval("example.com", time.Hour)
	if limiter.getLimiter("example.com").Allow() {
		t.Error("re-applied interval should not grant a new token")
	}

	limiter.SetInterval("example.com", 0)
	if !limiter.getLimiter("example.com").Allow() {
		t.Error("zero interval should lift the limit")
	}
}

func TestHostKey(t *testing.T) {
	tests := map[string]string{
		"http://example.com/terms":   "example.com",
		"HTTPS://Example.com:8443/x": "Example.com:8443",
		"contracts/nda.txt":          "",
		"-":                          "",
	}
	for ref, want := range tests {
		if got := HostKey(ref); got != want {
			t.Errorf("HostKey(%q) = %q, expected %q", ref, got, want)
		}
	}
}

func TestExtractDomain(t *testing.T) {
	domain, err := extractDomain("http://example.com/foo")
	if err != nil {
		t.Fatalf("extractDomain failed: %v", err)
	}
	if domain != "example.com" {
		t.Errorf("expected example.com, got %s", domain)
	}

	if _, err = extractDomain("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
