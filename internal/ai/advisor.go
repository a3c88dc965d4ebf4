// Package ai defines the narrative-analysis contract consumed by the report
// service and the data shapes LLM providers fill in. The matching core does
// not depend on this package; ranked cases are returned whether or not a
// narrative is later generated from them.
package ai

import (
	"context"

	"github.com/suanho/compass/internal/casebook"
)

// CompetitivenessAnalysis summarizes the candidate's overall standing.
type CompetitivenessAnalysis struct {
	Strengths  string `json:"strengths"`
	Weaknesses string `json:"weaknesses"`
	Summary    string `json:"summary"`
}

// SchoolRecommendation is one suggested university/program pair.
type SchoolRecommendation struct {
	University string `json:"university"`
	Program    string `json:"program"`
	Reason     string `json:"reason"`
}

// SchoolRecommendations groups suggestions into the three classic bands.
type SchoolRecommendations struct {
	Reach        []SchoolRecommendation `json:"reach"`
	Target       []SchoolRecommendation `json:"target"`
	Safety       []SchoolRecommendation `json:"safety"`
	CaseInsights string                 `json:"case_insights"`
}

// CaseComparison contrasts the candidate against one historical case.
type CaseComparison struct {
	GPA        string `json:"gpa"`
	University string `json:"university"`
	Experience string `json:"experience"`
}

// CaseAnalysis is the narrative breakdown of one similar case.
type CaseAnalysis struct {
	CaseID             int64          `json:"case_id"`
	AdmittedUniversity string         `json:"admitted_university"`
	AdmittedProgram    string         `json:"admitted_program"`
	GPA                string         `json:"gpa"`
	LanguageScore      string         `json:"language_score"`
	LanguageTestType   string         `json:"language_test_type,omitempty"`
	KeyExperiences     string         `json:"key_experiences,omitempty"`
	UndergradInfo      string         `json:"undergraduate_info"`
	Comparison         CaseComparison `json:"comparison"`
	SuccessFactors     string         `json:"success_factors"`
	Takeaways          string         `json:"takeaways"`
}

// ActionPlan is one step of a background-improvement plan.
type ActionPlan struct {
	Timeframe string `json:"timeframe"`
	Action    string `json:"action"`
	Goal      string `json:"goal"`
}

// BackgroundImprovement is a concrete plan addressing the candidate's
// weaknesses.
type BackgroundImprovement struct {
	ActionPlan      []ActionPlan `json:"action_plan"`
	StrategySummary string       `json:"strategy_summary"`
}

// AnalysisReport is the full generated report. Competitiveness and school
// recommendations are required; case analyses and the improvement plan are
// best-effort extras.
type AnalysisReport struct {
	Competitiveness       *CompetitivenessAnalysis `json:"competitiveness"`
	SchoolRecommendations *SchoolRecommendations   `json:"school_recommendations"`
	SimilarCases          []*CaseAnalysis          `json:"similar_cases"`
	BackgroundImprovement *BackgroundImprovement   `json:"background_improvement,omitempty"`
}

// Advisor generates the narrative sections of an analysis report. Every call
// honors context cancellation; implementations return an error rather than a
// partially-filled struct.
type Advisor interface {
	AnalyzeCompetitiveness(ctx context.Context, candidate *casebook.CandidateProfile) (*CompetitivenessAnalysis, error)
	RecommendSchools(ctx context.Context, candidate *casebook.CandidateProfile, matches []casebook.ScoredMatch) (*SchoolRecommendations, error)
	AnalyzeCase(ctx context.Context, candidate *casebook.CandidateProfile, match casebook.ScoredMatch) (*CaseAnalysis, error)
	SuggestImprovements(ctx context.Context, candidate *casebook.CandidateProfile, weaknesses string) (*BackgroundImprovement, error)
}
