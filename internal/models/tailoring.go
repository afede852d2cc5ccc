package models

// TailoringPlan is the structured rewrite plan returned by the suggestion
// endpoint: concrete before/after edits that adapt a résumé to one job
// posting without touching its layout.
type TailoringPlan struct {
	Summary      string              `json:"summary,omitempty"`
	Skills       SkillsPlan          `json:"skills"`
	Experiences  []ExperienceRewrite `json:"experiences"`
	WordingFixes []WordingFix        `json:"wordingFixes"`
}

type SkillsPlan struct {
	Add       []string `json:"add"`
	Emphasize []string `json:"emphasize"`
	Remove    []string `json:"remove"`
}

type ExperienceRewrite struct {
	SectionTitle string   `json:"sectionTitle"`
	Before       []string `json:"before"`
	After        []string `json:"after"`
	Rationale    string   `json:"rationale,omitempty"`
}

type WordingFix struct {
	Before string `json:"before"`
	After  string `json:"after"`
	Reason string `json:"reason,omitempty"`
}

// ApplyDefaults replaces absent lists by empty ones so the serialized plan
// always carries the full shape.
func (p *TailoringPlan) ApplyDefaults() {
	if p.Skills.Add == nil {
		p.Skills.Add = []string{}
	}
	if p.Skills.Emphasize == nil {
		p.Skills.Emphasize = []string{}
	}
	if p.Skills.Remove == nil {
		p.Skills.Remove = []string{}
	}
	if p.Experiences == nil {
		p.Experiences = []ExperienceRewrite{}
	}
	if p.WordingFixes == nil {
		p.WordingFixes = []WordingFix{}
	}
}

type TailoringRequest struct {
	ResumeText string `json:"resumeText"`
	JobText    string `json:"jobText"`
}

type LetterRequest struct {
	ResumeText string `json:"resumeText"`
	JobText    string `json:"jobText"`
	Company    string `json:"company,omitempty"`
	Role       string `json:"role,omitempty"`
	City       string `json:"city,omitempty"`
}

type LetterResponse struct {
	Text string `json:"text"`
}
