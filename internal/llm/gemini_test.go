package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGeminiProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-pro:generateContent" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("Expected key query parameter, got %q", r.URL.Query().Get("key"))
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if req.GenerationConfig.Temperature != DefaultTemperature {
			t.Errorf("Expected temperature %v, got %v", DefaultTemperature, req.GenerationConfig.Temperature)
		}
		if req.GenerationConfig.MaxOutputTokens != DetailedMaxTokens {
			t.Errorf("Expected max output tokens %d, got %d", DetailedMaxTokens, req.GenerationConfig.MaxOutputTokens)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != SystemPrompt {
			t.Error("Expected system instruction")
		}
		if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, "The Tenant shall pay rent.") {
			t.Errorf("Expected prompt in contents, got %+v", req.Contents)
		}

		_, _ = w.Write([]byte("{\"candidates\": [{\"content\": {\"role\": \"model\", \"parts\": [{\"text\": \"```json\\n{\\\"simplified\\\": \\\"ok\\\"}\\n```\"}]}}], " +
			"\"usageMetadata\": {\"totalTokenCount\": 42}}"))
	}))
	defer server.Close()

	config := Config{
		APIKey:           "test-key",
		BaseURL:          server.URL,
		Timeout:          5,
		DetailedAnalysis: true,
	}
	provider, err := NewGeminiProvider(config, nil)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Content != "```json\n{\"simplified\": \"ok\"}\n```" {
		t.Errorf("Unexpected content: %q", resp.Content)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
	if resp.Model != "gemini-pro" {
		t.Errorf("Unexpected model: %s", resp.Model)
	}

	analysis := ParseAnalysis(resp.Content)
	if analysis.Unstructured || analysis.Simplified != "ok" {
		t.Errorf("Expected fenced JSON to parse, got %+v", analysis)
	}
}

func TestGeminiProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Complete(context.Background(), testRequest())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Message != "API key not valid" || apiErr.Temporary() {
		t.Errorf("Unexpected API error: %+v", apiErr)
	}
}

func TestGeminiProvider_Complete_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	provider, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err = provider.Complete(context.Background(), testRequest()); err == nil {
		t.Fatal("Expected error for empty candidates, got nil")
	}
}

func TestGeminiProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1beta/models" && r.URL.Query().Get("key") == "test-key" {
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	good, _ := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: server.URL}, nil)
	if !good.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	bad, _ := NewGeminiProvider(Config{APIKey: "other", BaseURL: server.URL}, nil)
	if bad.IsAvailable(context.Background()) {
		t.Error("Expected available to be false for rejected key")
	}
}
