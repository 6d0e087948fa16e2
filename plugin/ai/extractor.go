// Package ai provides the inference collaborator: an OpenAI-compatible chat
// client that extracts a structured booking intent from free-text input.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/hrygo/bookwise/internal/errors"
)

// ExtractorConfig holds the inference collaborator configuration.
type ExtractorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultExtractorConfig returns the default configuration.
func DefaultExtractorConfig() *ExtractorConfig {
	return &ExtractorConfig{
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 30 * time.Second,
	}
}

// Extractor calls the model with a strict JSON schema so the intent payload
// is constrained at the source. Its output is still treated as untrusted
// downstream.
type Extractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewExtractor creates an extractor from the given configuration.
func NewExtractor(cfg *ExtractorConfig) (*Extractor, error) {
	if cfg == nil {
		cfg = DefaultExtractorConfig()
	}
	if cfg.APIKey == "" {
		return nil, apperrors.LLMUnavailable("inference API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Extractor{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Extract asks the model to classify the user input. The current date and
// time are embedded in the prompt so relative expressions ("tomorrow at 3")
// can be grounded to absolute RFC3339 values.
func (e *Extractor) Extract(ctx context.Context, input string, now time.Time) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       e.model,
		MaxTokens:   200,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(extractionSystemPrompt, now.Format(time.RFC3339), now.Format("Monday")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "booking_intent",
				Strict: true,
				Schema: intentSchema,
			},
		},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", apperrors.Timeout("intent extraction timed out")
		}
		return "", apperrors.Collaborator("intent extraction request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Collaborator("empty response from model", nil)
	}

	slog.Debug("intent extraction completed",
		"latency_ms", latency.Milliseconds(),
		"tokens", resp.Usage.TotalTokens)

	return resp.Choices[0].Message.Content, nil
}

// extractionSystemPrompt mirrors the intent contract the normalizer expects.
// The two format verbs are the current datetime and the weekday.
const extractionSystemPrompt = `You are an assistant that helps users schedule appointments on their Google Calendar.
The current date and time is %s (%s).
Extract the user's intent, event summary, start time, and duration from their message.

Rules:
- intent is "booking" for creating an event, "check_availability" for asking about free time or existing events, otherwise "unknown".
- start_time is an RFC3339 datetime when the user names a date, a bare time like "15:00" when they name only a time of day, or an empty string when no time is given.
- duration_minutes defaults to 30 when the user does not state one.

Respond in this JSON format:
{
  "intent": "booking" | "check_availability" | "unknown",
  "summary": "string",
  "start_time": "RFC3339 format, bare HH:MM, or empty string",
  "duration_minutes": integer
}`

// intentSchema constrains the model output. The enum prevents intent
// hallucination; the normalizer still validates everything.
var intentSchema = &jsonSchema{
	Type: "object",
	Properties: map[string]*jsonSchema{
		"intent": {
			Type:        "string",
			Enum:        []string{"booking", "check_availability", "query_schedule", "unknown"},
			Description: "The classified intent",
		},
		"summary": {
			Type:        "string",
			Description: "Short event title, empty if not a booking",
		},
		"start_time": {
			Type:        "string",
			Description: "RFC3339 datetime, bare HH:MM time, or empty string",
		},
		"duration_minutes": {
			Type:        "number",
			Description: "Event duration in minutes",
		},
	},
	Required:             []string{"intent", "summary", "start_time", "duration_minutes"},
	AdditionalProperties: false,
}

// jsonSchema implements json.Marshaler for OpenAI's JSON Schema format.
type jsonSchema struct {
	Type                 string                 `json:"type"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Description          string                 `json:"description,omitempty"`
	AdditionalProperties bool                   `json:"additionalProperties"`
}

func (s *jsonSchema) MarshalJSON() ([]byte, error) {
	type alias jsonSchema
	return json.Marshal((*alias)(s))
}
