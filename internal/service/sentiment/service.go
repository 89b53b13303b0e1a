// Package sentiment scores response text against a hosted star-rating
// classification model. Classification failures never fail a request: the
// caller always receives a usable sentiment, neutral at worst.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	analysis "github.com/ssbprep/interview-coach/backend/internal/analysis/sentiment"
	"github.com/ssbprep/interview-coach/backend/internal/model/interview"
)

// Classifier scores free text on the 5-point star scale.
type Classifier interface {
	Classify(ctx context.Context, text string) interview.Sentiment
}

// Config carries the hosted inference endpoint settings.
type Config struct {
	BaseURL  string
	Model    string
	APIToken string
	Timeout  time.Duration
}

// Service calls the Hugging Face inference API for a multilingual star-rating
// sentiment model.
type Service struct {
	cfg    Config
	client *http.Client
}

// NewService creates the classifier client. The client is shared read-only
// across requests.
func NewService(cfg Config) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the highest-scoring star rating for the text. Any failure
// is logged and replaced by the neutral default.
func (s *Service) Classify(ctx context.Context, text string) interview.Sentiment {
	result, err := s.classify(ctx, text)
	if err != nil {
		log.Printf("[sentiment] classification failed, using neutral default: %v", err)
		return interview.Sentiment{Label: analysis.DefaultLabel, Score: analysis.DefaultScore}
	}
	return result
}

func (s *Service) classify(ctx context.Context, text string) (interview.Sentiment, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return interview.Sentiment{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/models/" + s.cfg.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return interview.Sentiment{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return interview.Sentiment{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return interview.Sentiment{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return interview.Sentiment{}, fmt.Errorf("inference api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	candidates, err := parseCandidates(body)
	if err != nil {
		return interview.Sentiment{}, err
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return interview.Sentiment{Label: best.Label, Score: best.Score}, nil
}

// parseCandidates accepts both the nested ([[{label,score}]]) and flat
// ([{label,score}]) shapes the inference API produces.
func parseCandidates(body []byte) ([]candidate, error) {
	var nested [][]candidate
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	var flat []candidate
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	return nil, fmt.Errorf("inference api returned no candidates")
}
