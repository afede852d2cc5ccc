package services

import "log"

// Input size ceilings in characters. Oversized inputs are truncated, not
// rejected; undersized inputs are rejected.
const (
	minCVChars  = 50
	maxCVChars  = 3500
	minJobChars = 20
	maxJobChars = 2500
)

// GuardInput validates and bounds both inputs before any provider call.
// It rejects missing or too-short fields and silently truncates oversized
// ones, appending a visible marker so the model knows the text is partial.
func GuardInput(cvText, jobDescription string) (string, string, error) {
	if cvText == "" || jobDescription == "" {
		return "", "", &ValidationError{
			Reason:  ReasonMissingFields,
			Message: "CV et description du poste requis",
		}
	}
	if len(cvText) < minCVChars {
		return "", "", &ValidationError{
			Reason:  ReasonCVTooShort,
			Message: "Le CV semble trop court",
		}
	}
	if len(jobDescription) < minJobChars {
		return "", "", &ValidationError{
			Reason:  ReasonJobTooShort,
			Message: "La description du poste semble trop courte",
		}
	}

	cvText = TruncateText(cvText, maxCVChars, "CV")
	jobDescription = TruncateText(jobDescription, maxJobChars, "fiche de poste")

	return cvText, jobDescription, nil
}

// TruncateText caps text at max characters, appending a labeled marker when
// it cuts. The kept prefix is exactly max characters, so re-truncating an
// already truncated text yields the same result.
func TruncateText(text string, max int, label string) string {
	if len(text) <= max {
		return text
	}
	log.Printf("⚠️  [CV Analysis] %s tronqué de %d à %d caractères", label, len(text), max)
	return text[:max] + "\n\n[Texte tronqué pour " + label + "]"
}
