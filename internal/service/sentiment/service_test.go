package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	analysis "github.com/ssbprep/interview-coach/backend/internal/analysis/sentiment"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewService(Config{
		BaseURL:  server.URL,
		Model:    "nlptown/bert-base-multilingual-uncased-sentiment",
		APIToken: "hf-token",
	})
}

func TestClassifyPicksBestCandidate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer hf-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		json.NewEncoder(w).Encode([][]map[string]any{{
			{"label": "3 stars", "score": 0.21},
			{"label": "4 stars", "score": 0.62},
			{"label": "5 stars", "score": 0.17},
		}})
	})

	got := svc.Classify(context.Background(), "a confident, well structured answer")
	if got.Label != "4 stars" {
		t.Fatalf("expected 4 stars, got %q", got.Label)
	}
	if got.Score != 0.62 {
		t.Fatalf("expected score 0.62, got %v", got.Score)
	}
}

func TestClassifyAcceptsFlatResponse(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{{"label": "2 stars", "score": 0.8}})
	})

	got := svc.Classify(context.Background(), "a weak answer")
	if got.Label != "2 stars" {
		t.Fatalf("expected 2 stars, got %q", got.Label)
	}
}

func TestClassifyNeutralDefaultOnUpstreamError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	})

	got := svc.Classify(context.Background(), "any answer")
	if got.Label != analysis.DefaultLabel || got.Score != analysis.DefaultScore {
		t.Fatalf("expected neutral default, got %+v", got)
	}
}

func TestClassifyNeutralDefaultOnMalformedBody(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	})

	got := svc.Classify(context.Background(), "any answer")
	if got.Label != analysis.DefaultLabel {
		t.Fatalf("expected neutral default, got %+v", got)
	}
}

func TestClassifySendsInputText(t *testing.T) {
	var captured map[string]string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode([][]map[string]any{{{"label": "3 stars", "score": 0.5}}})
	})

	svc.Classify(context.Background(), "the answer under test")
	if captured["inputs"] != "the answer under test" {
		t.Fatalf("unexpected request payload %v", captured)
	}
}
