package services

import (
	"context"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"cvboost/cv-analyzer/internal/models"
)

const (
	analysisPromptName = "cv-analysis"
	analysisAPI        = "chat.completions"
	analysisVersion    = "structured-v1"
)

// AnalyzerService runs the full analysis pipeline for one request:
// guard → compile → retry(complete) → normalize → validate.
type AnalyzerService interface {
	Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error)
}

type analyzerService struct {
	completion CompletionService
	prompts    PromptStore
	retrier    *retrier
}

func NewAnalyzerService(completion CompletionService, prompts PromptStore) AnalyzerService {
	return &analyzerService{
		completion: completion,
		prompts:    prompts,
		retrier:    newRetrier(),
	}
}

// Analyze implements AnalyzerService.
func (a *analyzerService) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	cvText, jobDescription, err := GuardInput(req.CVText, req.JobDescription)
	if err != nil {
		return nil, err
	}

	prompt, err := a.prompts.Get(analysisPromptName, map[string]string{
		"cvText":         cvText,
		"jobDescription": jobDescription,
		"analysisDate":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CV Analysis] Start - CV: %d chars, JD: %d chars", len(cvText), len(jobDescription))

	var completion openai.ChatCompletionResponse
	err = a.retrier.Do(ctx, func() error {
		resp, completeErr := a.completion.CompleteJSON(ctx, prompt)
		if completeErr != nil {
			return completeErr
		}
		completion = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	content, err := ExtractContent(completion)
	if err != nil {
		return nil, err
	}

	// Exceeding the total ceiling after the fact is a budgeting fault, not
	// a content fault.
	if completion.Usage.TotalTokens > maxTotalTokens {
		log.Printf("⚠️  [CV Analysis] réponse dépasse la limite totale: total=%d max=%d",
			completion.Usage.TotalTokens, maxTotalTokens)
		return nil, &ResponseTooLargeError{
			MaxTotalTokens: maxTotalTokens,
			TotalTokens:    completion.Usage.TotalTokens,
		}
	}

	analysis, err := ParseAnalysis(content)
	if err != nil {
		return nil, err
	}

	return &models.AnalyzeResponse{
		Success:   true,
		Analysis:  analysis,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Model:     a.completion.Model(),
		API:       analysisAPI,
		Version:   analysisVersion,
	}, nil
}
