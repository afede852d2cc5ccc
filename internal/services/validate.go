package services

import (
	"encoding/json"
	"errors"

	"cvboost/cv-analyzer/internal/models"
)

// ParseAnalysis parses the normalized completion content and validates it
// against the CVAnalysis contract. A syntax failure means the model did not
// return JSON at all; a type mismatch or contract violation means it
// returned the wrong JSON. Both are upstream contract faults, but they get
// distinct conditions because logs need to tell them apart.
func ParseAnalysis(content string) (*models.CVAnalysis, error) {
	var analysis models.CVAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaViolationError{Err: err}
		}
		return nil, &InvalidJSONError{Err: err}
	}

	if err := analysis.Validate(); err != nil {
		return nil, &SchemaViolationError{Err: err}
	}

	return &analysis, nil
}
