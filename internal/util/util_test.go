package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.internal:3128", "", "example.org,.corp")

	tests := []struct {
		target string
		want   string
	}{
		{"http://example.com/terms", "http://proxy.internal:3128"},
		{"https://example.com/terms", "http://proxy.internal:3128"},
		{"https://example.org/terms", ""},
		{"http://docs.corp/policy", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.target, nil)
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s): unexpected error %v", tt.target, err)
		}
		if tt.want == "" {
			if got != nil {
				t.Errorf("proxy(%s): expected direct connection, got %s", tt.target, got)
			}
			continue
		}
		if got == nil || got.String() != tt.want {
			t.Errorf("proxy(%s): expected %s, got %v", tt.target, tt.want, got)
		}
	}
}

func TestNewProxyFunc_SeparateHTTPS(t *testing.T) {
	proxy := NewProxyFunc("http://plain:8080", "http://secure:8443", "")

	req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	got, err := proxy(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got == nil || got.Host != "secure:8443" {
		t.Errorf("Expected https proxy secure:8443, got %v", got)
	}
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("User-agent: Legalese\nDisallow: /private/\nCrawl-delay: 2\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker("Legalese/0.1 (+https://github.com/ppiankov/legalese)", &http.Client{Timeout: 5 * time.Second})

	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/terms.html")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !allowed {
		t.Error("Expected /terms.html to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected crawl delay 2s, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(context.Background(), server.URL+"/private/contract.html")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Error("Expected /private/ to be disallowed")
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("Expected robots.txt to be fetched once, got %d", n)
	}
}

func TestRobotsChecker_MissingRobots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker("Legalese/0.1", &http.Client{Timeout: 5 * time.Second})
	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil || !allowed || delay != 0 {
		t.Errorf("Expected missing robots.txt to allow everything, got allowed=%v delay=%v err=%v", allowed, delay, err)
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"Legalese/0.1 (+https://github.com/ppiankov/legalese)": "Legalese",
		"curl/8.0": "curl",
		"plain":    "plain",
		"":         "",
	}

	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, expected %q", in, got, want)
		}
	}
}
