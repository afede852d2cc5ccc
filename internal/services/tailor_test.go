package services

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvboost/cv-analyzer/internal/models"
)

const validPlanJSON = `{
	"summary": "Mettre en avant l'expérience Go et les résultats mesurables.",
	"skills": {
		"add": ["Kubernetes"],
		"emphasize": ["Go", "PostgreSQL"],
		"remove": []
	},
	"experiences": [],
	"wordingFixes": []
}`

func TestGenerateSuggestions(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the parsed plan", func(t *testing.T) {
		provider := &fakeProvider{responses: []openai.ChatCompletionResponse{textResponse(validPlanJSON)}}
		tailor := NewTailorService(NewCompletionService(provider, "gpt-5-mini"))

		plan, err := tailor.GenerateSuggestions(ctx, "dix ans de Go", "backend senior")

		require.NoError(t, err)
		assert.Equal(t, []string{"Kubernetes"}, plan.Skills.Add)
		assert.NotNil(t, plan.Experiences)
		assert.NotNil(t, plan.WordingFixes)

		require.Len(t, provider.requests, 1)
		req := provider.requests[0]
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
		assert.InDelta(t, 0.2, req.Temperature, 0.001)
		assert.Contains(t, req.Messages[1].Content, "dix ans de Go")
	})

	t.Run("retries once without forced format on invalid JSON", func(t *testing.T) {
		provider := &fakeProvider{responses: []openai.ChatCompletionResponse{
			textResponse("voici le plan: pas du JSON"),
			textResponse(validPlanJSON),
		}}
		tailor := NewTailorService(NewCompletionService(provider, "gpt-5-mini"))

		plan, err := tailor.GenerateSuggestions(ctx, "cv", "offre")

		require.NoError(t, err)
		assert.NotNil(t, plan)
		require.Len(t, provider.requests, 2)
		assert.Nil(t, provider.requests[1].ResponseFormat)
		assert.Contains(t, provider.requests[1].Messages[1].Content, "Réponds uniquement en JSON conforme au schéma.")
	})

	t.Run("gives up after the fallback attempt", func(t *testing.T) {
		provider := &fakeProvider{responses: []openai.ChatCompletionResponse{
			textResponse("non"),
			textResponse("toujours pas du JSON"),
		}}
		tailor := NewTailorService(NewCompletionService(provider, "gpt-5-mini"))

		_, err := tailor.GenerateSuggestions(ctx, "cv", "offre")

		var invalidJSONErr *InvalidJSONError
		require.ErrorAs(t, err, &invalidJSONErr)
		assert.Len(t, provider.requests, 2)
	})
}

func TestGenerateLetter(t *testing.T) {
	t.Run("returns trimmed letter text", func(t *testing.T) {
		provider := &fakeProvider{responses: []openai.ChatCompletionResponse{textResponse("  Madame, Monsieur,\n\nLettre.  ")}}
		tailor := NewTailorService(NewCompletionService(provider, "gpt-5-mini"))

		letter, err := tailor.GenerateLetter(context.Background(), &models.LetterRequest{
			ResumeText: "dix ans de Go",
			JobText:    "backend senior",
			Company:    "Acme",
			Role:       "Backend Engineer",
			City:       "Paris",
		})

		require.NoError(t, err)
		assert.Equal(t, "Madame, Monsieur,\n\nLettre.", letter)

		req := provider.requests[0]
		assert.InDelta(t, 0.5, req.Temperature, 0.001)
		assert.Nil(t, req.ResponseFormat)
		assert.Contains(t, req.Messages[1].Content, "Acme")
	})
}
