// Package cohere adapts Cohere's text generation API to the eino chat model
// interface so feedback chains can run on it.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const defaultBaseURL = "https://api.cohere.ai"

// Config carries credentials and sampling defaults for one model instance.
// Per-call model.Option values override the sampling defaults.
type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	MaxTokens        int
	Temperature      float32
	TopK             int
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	StopSequences    []string
	Timeout          time.Duration
	HTTPClient       *http.Client
}

// ChatModel calls Cohere's generate endpoint. The endpoint is completion
// style, so chat messages are flattened into a single prompt.
type ChatModel struct {
	cfg    Config
	client *http.Client
}

// NewChatModel creates a Cohere-backed chat model.
func NewChatModel(_ context.Context, cfg Config) (*ChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("cohere: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &ChatModel{cfg: cfg, client: client}, nil
}

type generateRequest struct {
	Model             string   `json:"model,omitempty"`
	Prompt            string   `json:"prompt"`
	MaxTokens         int      `json:"max_tokens,omitempty"`
	Temperature       *float32 `json:"temperature,omitempty"`
	K                 int      `json:"k"`
	P                 float32  `json:"p,omitempty"`
	FrequencyPenalty  float32  `json:"frequency_penalty,omitempty"`
	PresencePenalty   float32  `json:"presence_penalty,omitempty"`
	StopSequences     []string `json:"stop_sequences,omitempty"`
	ReturnLikelihoods string   `json:"return_likelihoods,omitempty"`
}

type generateResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
	Message string `json:"message,omitempty"`
}

// Generate flattens the input messages and requests one completion.
func (c *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("cohere: empty message input")
	}

	temperature := c.cfg.Temperature
	options := model.GetCommonOptions(&model.Options{
		Temperature: &temperature,
	}, opts...)

	reqBody := generateRequest{
		Model:             c.cfg.Model,
		Prompt:            flattenMessages(input),
		MaxTokens:         c.cfg.MaxTokens,
		Temperature:       options.Temperature,
		K:                 c.cfg.TopK,
		P:                 c.cfg.TopP,
		FrequencyPenalty:  c.cfg.FrequencyPenalty,
		PresencePenalty:   c.cfg.PresencePenalty,
		StopSequences:     c.cfg.StopSequences,
		ReturnLikelihoods: "NONE",
	}
	if options.MaxTokens != nil {
		reqBody.MaxTokens = *options.MaxTokens
	}
	if options.Model != nil {
		reqBody.Model = *options.Model
	}
	if options.TopP != nil {
		reqBody.P = *options.TopP
	}
	if len(options.Stop) > 0 {
		reqBody.StopSequences = options.Stop
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("cohere: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("cohere: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cohere: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cohere: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cohere: api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("cohere: failed to decode response: %w", err)
	}
	if len(parsed.Generations) == 0 {
		return nil, fmt.Errorf("cohere: api returned no generations")
	}

	return schema.AssistantMessage(parsed.Generations[0].Text, nil), nil
}

// Stream satisfies the chat model interface; the generate endpoint is not
// streamed here, so the full completion is delivered as a single chunk.
func (c *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := c.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// BindTools is unsupported: the generate endpoint has no tool calling.
func (c *ChatModel) BindTools(_ []*schema.ToolInfo) error {
	return fmt.Errorf("cohere: tool binding is not supported")
}

func flattenMessages(input []*schema.Message) string {
	parts := make([]string, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n\n")
}
