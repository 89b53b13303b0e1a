package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

func newTestModel(t *testing.T, handler http.HandlerFunc, cfg Config) *ChatModel {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	m, err := NewChatModel(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewChatModel err: %v", err)
	}
	return m
}

func TestGenerateRequestShape(t *testing.T) {
	var captured generateRequest
	var authHeader string

	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"generations": []map[string]string{{"text": " generated feedback text "}},
		})
	}, Config{
		MaxTokens:     150,
		Temperature:   0.4,
		TopP:          0.75,
		StopSequences: []string{"\n\n"},
	})

	msg, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("You are a coach."),
		schema.UserMessage("RESPONSE: hello"),
	})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}

	if authHeader != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", authHeader)
	}
	if captured.Prompt != "You are a coach.\n\nRESPONSE: hello" {
		t.Fatalf("unexpected prompt %q", captured.Prompt)
	}
	if captured.MaxTokens != 150 {
		t.Fatalf("unexpected max_tokens %d", captured.MaxTokens)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.4 {
		t.Fatalf("unexpected temperature %v", captured.Temperature)
	}
	if len(captured.StopSequences) != 1 || captured.StopSequences[0] != "\n\n" {
		t.Fatalf("unexpected stop sequences %v", captured.StopSequences)
	}
	if captured.ReturnLikelihoods != "NONE" {
		t.Fatalf("unexpected return_likelihoods %q", captured.ReturnLikelihoods)
	}
	if msg.Content != " generated feedback text " {
		t.Fatalf("unexpected content %q", msg.Content)
	}
	if msg.Role != schema.Assistant {
		t.Fatalf("unexpected role %q", msg.Role)
	}
}

func TestGenerateOptionOverrides(t *testing.T) {
	var captured generateRequest

	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{
			"generations": []map[string]string{{"text": "ok"}},
		})
	}, Config{MaxTokens: 150, Temperature: 0.4})

	_, err := m.Generate(context.Background(),
		[]*schema.Message{schema.UserMessage("hi")},
		model.WithMaxTokens(500), model.WithTemperature(0.7))
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}

	if captured.MaxTokens != 500 {
		t.Fatalf("max_tokens override ignored: %d", captured.MaxTokens)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.7 {
		t.Fatalf("temperature override ignored: %v", captured.Temperature)
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api token"}`, http.StatusUnauthorized)
	}, Config{})

	if _, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")}); err == nil {
		t.Fatal("expected error for upstream 401")
	}
}

func TestGenerateNoGenerations(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"generations": []any{}})
	}, Config{})

	if _, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")}); err == nil {
		t.Fatal("expected error for empty generations")
	}
}

func TestNewChatModelRequiresKey(t *testing.T) {
	if _, err := NewChatModel(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
