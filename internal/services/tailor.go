package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"cvboost/cv-analyzer/internal/models"
)

const suggestionsSystemPrompt = "Tu es un Career Coach et Ingénieur Full-Stack. Tu aides à adapter un CV à une offre sans modifier la mise en page du PDF : tu fournis des suggestions concrètes (avant/après, compétences à ajouter/mettre en avant/retirer, micro-réécritures). Tu n'inventes pas de faits. Tu reformules, réorganises, compactes, précises des métriques si elles existent déjà ; sinon, propose des placeholders encadrés [À compléter : ...]. Réponds exclusivement en JSON valide selon le schéma."

const letterSystemPrompt = "Tu es un Rédacteur produit. Tu écris une lettre qui relie l'expérience au poste visé, sans exagération, sans inventer des faits. 200–300 mots, texte continu, style clair, phrases courtes, verbe d'action."

// TailorService produces résumé tailoring plans and cover letters. Both are
// single-shot secondary calls: cheaper prompts, no backoff loop, one
// fallback reattempt for the JSON plan.
type TailorService interface {
	GenerateSuggestions(ctx context.Context, resumeText, jobText string) (*models.TailoringPlan, error)
	GenerateLetter(ctx context.Context, req *models.LetterRequest) (string, error)
}

type tailorService struct {
	completion CompletionService
}

func NewTailorService(completion CompletionService) TailorService {
	return &tailorService{completion: completion}
}

// GenerateSuggestions implements TailorService.
func (t *tailorService) GenerateSuggestions(ctx context.Context, resumeText, jobText string) (*models.TailoringPlan, error) {
	user := fmt.Sprintf("Voici `resumeText` (---) et `jobText` (===). Renvoie STRICTEMENT le JSON demandé.\n---\n%s\n===\n%s",
		resumeText, jobText)

	content, err := t.completion.Chat(ctx, ChatRequest{
		System:      suggestionsSystemPrompt,
		User:        user,
		Temperature: 0.2,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, err
	}

	var plan models.TailoringPlan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		// One retry without the forced format; some models answer prose
		// around the JSON when constrained output misbehaves.
		log.Printf("⚠️  [Suggest] JSON invalide, nouvelle tentative sans format forcé: %v", err)
		content, err = t.completion.Chat(ctx, ChatRequest{
			System:      suggestionsSystemPrompt,
			User:        user + "\nRéponds uniquement en JSON conforme au schéma.",
			Temperature: 0.2,
		})
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(content), &plan); err != nil {
			return nil, &InvalidJSONError{Err: err}
		}
	}

	plan.ApplyDefaults()
	return &plan, nil
}

// GenerateLetter implements TailorService.
func (t *tailorService) GenerateLetter(ctx context.Context, req *models.LetterRequest) (string, error) {
	user := fmt.Sprintf(`Rédige une lettre 200–300 mots en français, selon la structure attendue.
Variables utiles:
- company: %s
- role: %s
- city: %s
Contexte CV:
%s
Contexte Offre:
%s`, req.Company, req.Role, req.City, req.ResumeText, req.JobText)

	content, err := t.completion.Chat(ctx, ChatRequest{
		System:      letterSystemPrompt,
		User:        user,
		Temperature: 0.5,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}
