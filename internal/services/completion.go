package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// Interactive-path token budgets.
	maxCompletionTokens = 4000
	maxTotalTokens      = 10000
)

// CompletionProvider is the slice of the OpenAI client the pipeline needs.
// *openai.Client satisfies it; tests substitute a counting fake.
type CompletionProvider interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatRequest describes one secondary chat call (suggestions, letter).
type ChatRequest struct {
	System      string
	User        string
	Temperature float32
	ForceJSON   bool
}

// CompletionService issues structured completions against the provider,
// enforcing the completion-token ceiling and reporting usage telemetry.
type CompletionService interface {
	CompleteJSON(ctx context.Context, prompt string) (openai.ChatCompletionResponse, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
	Model() string
}

type completionService struct {
	provider CompletionProvider
	model    string
}

func NewCompletionService(provider CompletionProvider, model string) CompletionService {
	if model == "" {
		model = "gpt-5-mini"
	}
	return &completionService{
		provider: provider,
		model:    model,
	}
}

func (s *completionService) Model() string {
	return s.model
}

// CompleteJSON sends exactly one constrained-JSON completion request. The
// provider is not idempotent, so callers own the retry policy.
func (s *completionService) CompleteJSON(ctx context.Context, prompt string) (openai.ChatCompletionResponse, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	setTokenCeiling(&req, s.model, maxCompletionTokens)

	start := time.Now()
	resp, err := s.provider.CreateChatCompletion(ctx, req)
	duration := time.Since(start)
	if err != nil {
		return openai.ChatCompletionResponse{}, fmt.Errorf("failed to create chat completion: %w", err)
	}

	log.Printf("[CV Analysis] %dms - Tokens: %d", duration.Milliseconds(), resp.Usage.TotalTokens)
	if resp.Usage.TotalTokens > maxTotalTokens {
		log.Printf("⚠️  [CV Analysis] réponse au-delà de la limite totale: total=%d completion=%d prompt=%d max=%d",
			resp.Usage.TotalTokens, resp.Usage.CompletionTokens, resp.Usage.PromptTokens, maxTotalTokens)
	}

	return resp, nil
}

// Chat runs one system+user exchange and returns the normalized content.
func (s *completionService) Chat(ctx context.Context, chat ChatRequest) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: chat.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chat.System},
			{Role: openai.ChatMessageRoleUser, Content: chat.User},
		},
	}
	if chat.ForceJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	setTokenCeiling(&req, s.model, maxCompletionTokens)

	start := time.Now()
	resp, err := s.provider.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	log.Printf("[LLM] %dms - Tokens: %d", time.Since(start).Milliseconds(), resp.Usage.TotalTokens)

	return ExtractContent(resp)
}

// Reasoning models (o1/o3/o4/gpt-5*) reject MaxTokens and require
// MaxCompletionTokens instead.
func setTokenCeiling(req *openai.ChatCompletionRequest, model string, ceiling int) {
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") ||
		strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = ceiling
	} else {
		req.MaxTokens = ceiling
	}
}

// ExtractContent resolves the first choice's message content, which the
// provider returns either as a plain string or as a sequence of parts. An
// empty result is a truncation condition when the finish reason says the
// token ceiling cut the response off, and an empty-response condition
// otherwise; the user-facing remedy differs.
func ExtractContent(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	choice := resp.Choices[0]
	content := choice.Message.Content
	if content == "" && len(choice.Message.MultiContent) > 0 {
		var b strings.Builder
		for _, part := range choice.Message.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText {
				b.WriteString(part.Text)
			}
		}
		content = b.String()
	}

	content = strings.TrimSpace(content)
	if content == "" {
		if choice.FinishReason == openai.FinishReasonLength {
			log.Printf("⚠️  [CV Analysis] réponse tronquée par la limite de tokens: total=%d completion=%d prompt=%d",
				resp.Usage.TotalTokens, resp.Usage.CompletionTokens, resp.Usage.PromptTokens)
			return "", &TruncatedResponseError{
				MaxCompletionTokens: maxCompletionTokens,
				TotalTokens:         resp.Usage.TotalTokens,
			}
		}
		return "", ErrEmptyResponse
	}

	return content, nil
}
