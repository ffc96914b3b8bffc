package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "llama3.1" {
			t.Errorf("model = %q, want llama3.1", req.Model)
		}
		if req.Stream {
			t.Error("stream = true, want false")
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  We are open Mon–Sat.  "})
	}))
	defer srv.Close()

	client := NewOllamaClient(OllamaConfig{BaseURL: srv.URL})
	got, err := client.Generate(context.Background(), "What are your hours?")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "We are open Mon–Sat." {
		t.Errorf("Generate() = %q, want trimmed completion", got)
	}
}

func TestOllamaClient_GenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewOllamaClient(OllamaConfig{BaseURL: srv.URL})
	if _, err := client.Generate(context.Background(), "hi"); err == nil {
		t.Fatal("Generate() error = nil, want failure on non-200")
	}
}
