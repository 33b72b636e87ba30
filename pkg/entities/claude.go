package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/harun/recall/pkg/memory"
	"github.com/rs/zerolog"
)

const extractionPrompt = `Extract people's names and activities from the following text. Return ONLY a JSON object with two arrays: "people" and "activities".

Text: %q

Example response format:
{
  "people": ["Sarah", "John"],
  "activities": ["lunch", "walking"]
}

JSON response:`

// ClaudeExtractor implements memory.EntityExtractor with the Anthropic
// API. Model output is schema-validated before use; any failure falls
// back to the configured fallback extractor.
type ClaudeExtractor struct {
	client   anthropic.Client
	model    string
	fallback memory.EntityExtractor
	logger   zerolog.Logger
}

var _ memory.EntityExtractor = (*ClaudeExtractor)(nil)

// ClaudeConfig holds Claude extractor configuration.
type ClaudeConfig struct {
	APIKey   string
	Model    string
	Fallback memory.EntityExtractor // optional, defaults to HeuristicExtractor
	Logger   zerolog.Logger
}

// NewClaudeExtractor creates a Claude-backed extractor.
func NewClaudeExtractor(cfg ClaudeConfig) *ClaudeExtractor {
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = NewHeuristicExtractor()
	}
	return &ClaudeExtractor{
		client:   anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:    cfg.Model,
		fallback: fallback,
		logger:   cfg.Logger,
	}
}

// Extract asks the model for people and activities in the text.
func (e *ClaudeExtractor) Extract(ctx context.Context, text string) (memory.Entities, error) {
	response, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(extractionPrompt, text))),
		},
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("Entity extraction call failed, using fallback")
		return e.fallback.Extract(ctx, text)
	}

	content := ""
	for _, block := range response.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += b.Text
		}
	}

	entities, err := parseEntityResponse(content)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Entity extraction output unusable, using fallback")
		return e.fallback.Extract(ctx, text)
	}

	return entities, nil
}

// parseEntityResponse pulls the first JSON object out of the model's
// reply and validates it before unmarshalling.
func parseEntityResponse(content string) (memory.Entities, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return memory.Entities{}, fmt.Errorf("no JSON object in response")
	}
	doc := content[start : end+1]

	if err := validateEntityJSON(doc); err != nil {
		return memory.Entities{}, err
	}

	var entities memory.Entities
	if err := json.Unmarshal([]byte(doc), &entities); err != nil {
		return memory.Entities{}, fmt.Errorf("unmarshal entities: %w", err)
	}

	return entities, nil
}
