package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/ssbprep/interview-coach/backend/internal/provider/cohere"
	sentimentservice "github.com/ssbprep/interview-coach/backend/internal/service/sentiment"
)

// Config aggregates all service configuration.
type Config struct {
	Server    ServerConfig
	Cohere    CohereConfig
	Sentiment SentimentConfig
	Storage   StorageConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Cohere:    loadCohereConfig(),
		Sentiment: loadSentimentConfig(),
		Storage:   loadStorageConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
	// MaxBodyBytes caps request bodies; requests beyond it are rejected.
	MaxBodyBytes int64
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	maxBody := int64(16 << 20)
	if override, err := parseOptionalIntEnv("MAX_CONTENT_LENGTH"); err != nil {
		return ServerConfig{}, err
	} else if override != nil && *override > 0 {
		maxBody = int64(*override)
	}

	return ServerConfig{Addr: addr, MaxBodyBytes: maxBody}, nil
}

// CohereConfig describes the hosted text-generation API.
type CohereConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Enabled reports whether generative feedback can be attempted.
func (c CohereConfig) Enabled() bool {
	return c.APIKey != ""
}

// NewImmediateModel builds the model used for per-answer feedback: a short,
// conservative completion that stops at the first blank line.
func (c CohereConfig) NewImmediateModel(ctx context.Context) (model.ChatModel, error) {
	return cohere.NewChatModel(ctx, cohere.Config{
		APIKey:           c.APIKey,
		BaseURL:          c.BaseURL,
		Model:            c.Model,
		MaxTokens:        150,
		Temperature:      0.4,
		TopP:             0.75,
		FrequencyPenalty: 0.2,
		PresencePenalty:  0.1,
		StopSequences:    []string{"\n\n"},
	})
}

// NewComprehensiveModel builds the model used for end-of-session feedback:
// a longer, freer completion with no stop sequences.
func (c CohereConfig) NewComprehensiveModel(ctx context.Context) (model.ChatModel, error) {
	return cohere.NewChatModel(ctx, cohere.Config{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		MaxTokens:   500,
		Temperature: 0.7,
	})
}

func loadCohereConfig() CohereConfig {
	return CohereConfig{
		APIKey:  strings.TrimSpace(os.Getenv("COHERE_API_KEY")),
		BaseURL: getEnvOrDefault("COHERE_BASE_URL", ""),
		Model:   getEnvOrDefault("COHERE_MODEL", ""),
	}
}

// SentimentConfig describes the hosted sentiment classification endpoint.
type SentimentConfig struct {
	BaseURL  string
	Model    string
	APIToken string
	Timeout  time.Duration
}

// ServiceConfig adapts the settings for the classifier client.
func (c SentimentConfig) ServiceConfig() sentimentservice.Config {
	return sentimentservice.Config{
		BaseURL:  c.BaseURL,
		Model:    c.Model,
		APIToken: c.APIToken,
		Timeout:  c.Timeout,
	}
}

func loadSentimentConfig() SentimentConfig {
	timeout := 30 * time.Second
	if override, err := parseOptionalIntEnv("SENTIMENT_TIMEOUT"); err == nil && override != nil && *override > 0 {
		timeout = time.Duration(*override) * time.Second
	}

	return SentimentConfig{
		BaseURL:  getEnvOrDefault("HF_BASE_URL", "https://api-inference.huggingface.co"),
		Model:    getEnvOrDefault("SENTIMENT_MODEL", "nlptown/bert-base-multilingual-uncased-sentiment"),
		APIToken: strings.TrimSpace(os.Getenv("HF_API_TOKEN")),
		Timeout:  timeout,
	}
}

// StorageConfig describes on-disk paths.
type StorageConfig struct {
	SessionsDir   string
	QuestionsPath string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		SessionsDir:   getEnvOrDefault("SESSIONS_DIR", "interview_sessions"),
		QuestionsPath: getEnvOrDefault("QUESTIONS_PATH", "data/questions.json"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
