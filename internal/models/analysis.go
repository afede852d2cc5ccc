package models

import (
	"fmt"
)

type SuggestionType string

const (
	SuggestionAdd     SuggestionType = "add"
	SuggestionRemove  SuggestionType = "remove"
	SuggestionImprove SuggestionType = "improve"
	SuggestionRewrite SuggestionType = "rewrite"
	SuggestionCorrect SuggestionType = "correct"
)

type SuggestionPriority string

const (
	PriorityCritique   SuggestionPriority = "critique"
	PriorityImportant  SuggestionPriority = "important"
	PriorityRecommande SuggestionPriority = "recommandé"
	PriorityOptionnel  SuggestionPriority = "optionnel"
)

// Display order: critique < important < recommandé < optionnel.
var priorityRank = map[SuggestionPriority]int{
	PriorityCritique:   0,
	PriorityImportant:  1,
	PriorityRecommande: 2,
	PriorityOptionnel:  3,
}

// Rank returns the display rank of the priority, most urgent first.
// Unknown priorities sort last.
func (p SuggestionPriority) Rank() int {
	if rank, ok := priorityRank[p]; ok {
		return rank
	}
	return len(priorityRank)
}

// Less reports whether p should be displayed before q.
func (p SuggestionPriority) Less(q SuggestionPriority) bool {
	return p.Rank() < q.Rank()
}

type AnalyzeRequest struct {
	CVText         string `json:"cvText"`
	JobDescription string `json:"jobDescription"`
}

type AnalyzeResponse struct {
	Success   bool        `json:"success"`
	Analysis  *CVAnalysis `json:"analysis"`
	Timestamp string      `json:"timestamp"`
	Model     string      `json:"model"`
	API       string      `json:"api"`
	Version   string      `json:"version"`
}

type CVSuggestion struct {
	Type             SuggestionType     `json:"type"`
	Section          string             `json:"section"`
	Text             string             `json:"text"`
	Suggestion       string             `json:"suggestion"`
	Priority         SuggestionPriority `json:"priority"`
	Rationale        *string            `json:"rationale,omitempty"`
	Impact           *string            `json:"impact,omitempty"`
	ExactReplacement *string            `json:"exactReplacement,omitempty"`
}

type JobMatch struct {
	TechnicalMatch  float64 `json:"technicalMatch"`
	ExperienceMatch float64 `json:"experienceMatch"`
	SoftSkillsMatch float64 `json:"softSkillsMatch"`
}

type MetricDetail struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Comment  string  `json:"comment"`
}

type DetailedMetrics struct {
	Experience      MetricDetail `json:"experience"`
	Education       MetricDetail `json:"education"`
	SoftSkills      MetricDetail `json:"softSkills"`
	TechnicalSkills MetricDetail `json:"technicalSkills"`
}

// CVAnalysis is the structured critique the model must return. Validate
// enforces the exact contract; anything out of range or missing is
// rejected, never repaired.
type CVAnalysis struct {
	Score                float64          `json:"score"`
	Summary              string           `json:"summary"`
	Strengths            []string         `json:"strengths"`
	Weaknesses           []string         `json:"weaknesses"`
	Suggestions          []CVSuggestion   `json:"suggestions"`
	MissingSkills        []string         `json:"missingSkills"`
	ImprovementPotential float64          `json:"improvementPotential"`
	AnalysisDate         *string          `json:"analysisDate"`
	JobMatch             *JobMatch        `json:"jobMatch,omitempty"`
	DetailedMetrics      *DetailedMetrics `json:"detailedMetrics,omitempty"`
}

const (
	minSummaryChars    = 20
	minSuggestionChars = 10
	maxSuggestions     = 10
)

// Validate checks the full analysis contract. The only mutation it performs
// is applying the documented default for an absent missingSkills list.
func (a *CVAnalysis) Validate() error {
	if a.Score < 0 || a.Score > 100 {
		return fmt.Errorf("score must be between 0 and 100, got %v", a.Score)
	}
	if len(a.Summary) < minSummaryChars {
		return fmt.Errorf("summary must be at least %d characters", minSummaryChars)
	}
	if err := validateStringList("strengths", a.Strengths); err != nil {
		return err
	}
	if err := validateStringList("weaknesses", a.Weaknesses); err != nil {
		return err
	}
	if len(a.Suggestions) == 0 {
		return fmt.Errorf("at least one suggestion is required")
	}
	if len(a.Suggestions) > maxSuggestions {
		return fmt.Errorf("maximum %d suggestions allowed, got %d", maxSuggestions, len(a.Suggestions))
	}
	for i := range a.Suggestions {
		if err := a.Suggestions[i].Validate(); err != nil {
			return fmt.Errorf("suggestions[%d]: %w", i, err)
		}
	}
	if a.MissingSkills == nil {
		a.MissingSkills = []string{}
	}
	for i, skill := range a.MissingSkills {
		if skill == "" {
			return fmt.Errorf("missingSkills[%d] must not be empty", i)
		}
	}
	if a.ImprovementPotential < 0 || a.ImprovementPotential > 100 {
		return fmt.Errorf("improvement potential must be between 0 and 100, got %v", a.ImprovementPotential)
	}
	if a.JobMatch != nil {
		if err := a.JobMatch.Validate(); err != nil {
			return fmt.Errorf("jobMatch: %w", err)
		}
	}
	if a.DetailedMetrics != nil {
		if err := a.DetailedMetrics.Validate(); err != nil {
			return fmt.Errorf("detailedMetrics: %w", err)
		}
	}
	return nil
}

func (s *CVSuggestion) Validate() error {
	switch s.Type {
	case SuggestionAdd, SuggestionRemove, SuggestionImprove, SuggestionRewrite, SuggestionCorrect:
	default:
		return fmt.Errorf("invalid suggestion type %q", s.Type)
	}
	if s.Section == "" {
		return fmt.Errorf("section is required")
	}
	if s.Text == "" {
		return fmt.Errorf("text is required")
	}
	if len(s.Suggestion) < minSuggestionChars {
		return fmt.Errorf("suggestion must be at least %d characters", minSuggestionChars)
	}
	switch s.Priority {
	case PriorityCritique, PriorityImportant, PriorityRecommande, PriorityOptionnel:
	default:
		return fmt.Errorf("invalid priority %q", s.Priority)
	}
	return nil
}

func (m *JobMatch) Validate() error {
	for _, match := range []struct {
		name  string
		value float64
	}{
		{"technicalMatch", m.TechnicalMatch},
		{"experienceMatch", m.ExperienceMatch},
		{"softSkillsMatch", m.SoftSkillsMatch},
	} {
		if match.value < 0 || match.value > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %v", match.name, match.value)
		}
	}
	return nil
}

func (d *DetailedMetrics) Validate() error {
	for _, axis := range []struct {
		name   string
		metric MetricDetail
	}{
		{"experience", d.Experience},
		{"education", d.Education},
		{"softSkills", d.SoftSkills},
		{"technicalSkills", d.TechnicalSkills},
	} {
		if axis.metric.Score < 0 || axis.metric.Score > 10 {
			return fmt.Errorf("%s.score must be between 0 and 10, got %v", axis.name, axis.metric.Score)
		}
		if axis.metric.MaxScore != 10 {
			return fmt.Errorf("%s.maxScore must be 10, got %v", axis.name, axis.metric.MaxScore)
		}
		if axis.metric.Comment == "" {
			return fmt.Errorf("%s.comment is required", axis.name)
		}
	}
	return nil
}

func validateStringList(name string, list []string) error {
	if len(list) == 0 {
		return fmt.Errorf("at least one %s entry is required", name)
	}
	for i, item := range list {
		if item == "" {
			return fmt.Errorf("%s[%d] must not be empty", name, i)
		}
	}
	return nil
}
