package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Input guard rejection reasons.
const (
	ReasonMissingFields = "missing-fields"
	ReasonCVTooShort    = "cv-too-short"
	ReasonJobTooShort   = "job-too-short"
)

// ValidationError rejects a request before any provider call is made.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TruncatedResponseError reports a completion cut off by the token ceiling
// with no recoverable content.
type TruncatedResponseError struct {
	MaxCompletionTokens int
	TotalTokens         int
}

func (e *TruncatedResponseError) Error() string {
	return fmt.Sprintf("réponse tronquée par la limite de %d tokens de complétion (total: %d)",
		e.MaxCompletionTokens, e.TotalTokens)
}

// ResponseTooLargeError reports total token usage above the hard ceiling.
type ResponseTooLargeError struct {
	MaxTotalTokens int
	TotalTokens    int
}

func (e *ResponseTooLargeError) Error() string {
	return fmt.Sprintf("la réponse complète dépasse %d tokens (total: %d)", e.MaxTotalTokens, e.TotalTokens)
}

// InvalidJSONError means the model did not return JSON at all.
type InvalidJSONError struct {
	Err error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("réponse JSON invalide du modèle: %v", e.Err)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// SchemaViolationError means the model returned JSON that breaks the
// CVAnalysis contract.
type SchemaViolationError struct {
	Err error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("réponse du modèle non conforme au contrat: %v", e.Err)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Err
}

var (
	ErrEmptyResponse       = errors.New("aucune réponse de l'IA")
	ErrNoTextContent       = errors.New("aucun texte exploitable dans le document")
	ErrUnsupportedFileType = errors.New("type de fichier non supporté")
)

type classifierRule struct {
	patterns []string
	status   int
	message  string
}

// Ordered: first match wins.
var classifierRules = []classifierRule{
	{
		patterns: []string{"api key", "apikey", "authentication"},
		status:   http.StatusInternalServerError,
		message:  "Vérifiez OPENAI_API_KEY.",
	},
	{
		patterns: []string{"quota", "billing", "rate limit", "rate_limit", "rate-limit", "ratelimit"},
		status:   http.StatusPaymentRequired,
		message:  "Quota dépassé ou limite de taux atteinte.",
	},
	{
		patterns: []string{"model", "unsupported", "gpt-5-mini"},
		status:   http.StatusServiceUnavailable,
		message:  "Modèle indisponible. Réessayez plus tard ou basculez sur un fallback.",
	},
	{
		patterns: []string{"context_length", "token"},
		status:   http.StatusBadRequest,
		message:  "Le CV ou l'offre est trop long(ue). Réduisez la taille.",
	},
}

// Classify maps any pipeline failure to a transport status and a
// user-facing message. Typed conditions are dispatched first, then the
// ordered pattern rules run as case-insensitive substring matches over the
// error's message and code.
func Classify(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	var truncatedErr *TruncatedResponseError
	if errors.As(err, &truncatedErr) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf(
			"La réponse de l'IA a dépassé %d tokens de complétion. Réduisez la taille du CV ou des suggestions, ou relancez.",
			truncatedErr.MaxCompletionTokens)
	}

	var tooLargeErr *ResponseTooLargeError
	if errors.As(err, &tooLargeErr) {
		return http.StatusRequestEntityTooLarge, fmt.Sprintf(
			"La réponse complète dépasse %d tokens. Réduisez le CV, l'offre ou laissez l'IA fournir moins de suggestions.",
			tooLargeErr.MaxTotalTokens)
	}

	var invalidJSONErr *InvalidJSONError
	if errors.As(err, &invalidJSONErr) {
		return http.StatusBadGateway, "Réponse JSON invalide du modèle."
	}

	var schemaErr *SchemaViolationError
	if errors.As(err, &schemaErr) {
		return http.StatusBadGateway, "Réponse du modèle inattendue. Merci de réessayer."
	}

	signal := strings.ToLower(errorSignal(err))
	for _, rule := range classifierRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(signal, pattern) {
				return rule.status, rule.message
			}
		}
	}

	return http.StatusInternalServerError, "Erreur lors de l'analyse du CV"
}

// errorSignal concatenates the error message with the provider error's code
// and type when present, so pattern rules see both fields.
func errorSignal(err error) string {
	if err == nil {
		return ""
	}

	signal := err.Error()

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code != "" {
			signal += " " + code
		}
		if apiErr.Type != "" {
			signal += " " + apiErr.Type
		}
	}

	return signal
}
