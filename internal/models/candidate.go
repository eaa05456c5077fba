package models

// Enrichments carries the best-effort output of the enrichment collaborator.
// Missing fields stay as empty slices / empty strings; the scorer must tolerate
// every field being absent.
type Enrichments struct {
	Entities   map[string][]string `json:"entities"`
	Skills     []string            `json:"skills"`
	Education  []string            `json:"education"`
	Experience []string            `json:"experience"`
	Summary    string              `json:"summary"`
}

// ProcessedResume is a parsed, enriched resume scoped to a single request.
type ProcessedResume struct {
	Name        string
	Filename    string
	RawText     string
	Enrichments Enrichments
}

type Candidate struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Filename         string            `json:"filename"`
	Score            float64           `json:"score"`
	MatchPercentage  int               `json:"matchPercentage"`
	SemanticScore    float64           `json:"semanticScore"`
	SkillMatchRatio  float64           `json:"skillMatchRatio"`
	ExperienceSignal float64           `json:"experienceSignal"`
	Summary          string            `json:"summary"`
	Skills           []string          `json:"extractedSkills"`
	Experience       []string          `json:"extractedExperience"`
	Education        []string          `json:"extractedEducation"`
	Feedback         string            `json:"feedback"`
	Evidence         []string          `json:"evidence"`
	Improvements     []string          `json:"improvements"`
	JDSkills         []string          `json:"jdSkills"`
	MissingSkills    []string          `json:"missingSkills"`
	SkillEvidence    map[string]string `json:"skillEvidence"`
	RawText          string            `json:"rawText"`
}

type ScreenResponse struct {
	Candidates     []Candidate `json:"candidates"`
	JobDescription string      `json:"jobDescription"`
	AnalysisTime   float64     `json:"analysisTime"`
}
