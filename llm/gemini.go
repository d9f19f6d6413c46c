package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash-exp"

const (
	maxRetries     = 3
	initialBackoff = time.Second
	maxPromptChars = 30000
)

var (
	ErrClientNotSet     = errors.New("gemini client not set")
	ErrGenerationFailed = errors.New("failed to generate content")
)

// GeminiGenerator generates text via the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator backed by the given client.
func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model}
}

// Generate sends the prompt to Gemini and returns the combined candidate
// text. Transient failures are retried with exponential backoff; prompts
// over the length limit are truncated before sending.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	if g.client == nil {
		return "", ErrClientNotSet
	}

	if len(prompt) > maxPromptChars {
		log.Printf("Warning: Prompt too long (%d chars), truncating to %d chars", len(prompt), maxPromptChars)
		prompt = prompt[:maxPromptChars] + "\n\n[Content truncated due to length...]"
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(temperature)

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			if attempt == maxRetries-1 {
				return "", fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if content := collectText(resp); content != "" {
			return content, nil
		}
	}

	return "", ErrGenerationFailed
}

// collectText concatenates the text parts of every candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop &&
			candidate.FinishReason != genai.FinishReasonUnspecified {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}
	return builder.String()
}
