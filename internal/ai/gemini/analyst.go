package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/suanho/compass/internal/ai"
	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompts/competitiveness.md
var competitivenessTemplate string

//go:embed prompts/schools.md
var schoolsTemplate string

//go:embed prompts/case.md
var caseTemplate string

//go:embed prompts/improvement.md
var improvementTemplate string

const defaultMaxLogLength = 200

// Analyst implements ai.Advisor on top of a Gemini content generator. Each
// method renders an embedded prompt template with JSON payloads, requests a
// JSON response and decodes it into the typed report section.
type Analyst struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewAnalyst creates the Gemini-backed advisor.
func NewAnalyst(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyst {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyst{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Analyst) AnalyzeCompetitiveness(ctx context.Context, candidate *casebook.CandidateProfile) (*ai.CompetitivenessAnalysis, error) {
	prompt, err := renderPrompt(competitivenessTemplate, map[string]any{
		"{{PROFILE_JSON}}": candidate,
	})
	if err != nil {
		return nil, err
	}

	var analysis ai.CompetitivenessAnalysis
	if err := a.generateInto(ctx, "competitiveness", prompt, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (a *Analyst) RecommendSchools(ctx context.Context, candidate *casebook.CandidateProfile, matches []casebook.ScoredMatch) (*ai.SchoolRecommendations, error) {
	prompt, err := renderPrompt(schoolsTemplate, map[string]any{
		"{{PROFILE_JSON}}": candidate,
		"{{CASES_JSON}}":   summarizeMatches(matches),
	})
	if err != nil {
		return nil, err
	}

	var recs ai.SchoolRecommendations
	if err := a.generateInto(ctx, "school recommendations", prompt, &recs); err != nil {
		return nil, err
	}
	return &recs, nil
}

func (a *Analyst) AnalyzeCase(ctx context.Context, candidate *casebook.CandidateProfile, match casebook.ScoredMatch) (*ai.CaseAnalysis, error) {
	prompt, err := renderPrompt(caseTemplate, map[string]any{
		"{{PROFILE_JSON}}": candidate,
		"{{CASE_JSON}}":    match,
	})
	if err != nil {
		return nil, err
	}

	// The model supplies only the narrative fields; the structural ones come
	// from the match itself.
	var narrative struct {
		Comparison     ai.CaseComparison `json:"comparison"`
		SuccessFactors string            `json:"success_factors"`
		Takeaways      string            `json:"takeaways"`
	}
	if err := a.generateInto(ctx, "case analysis", prompt, &narrative); err != nil {
		return nil, err
	}

	c := match.Case
	gpa := "unknown"
	if c.GPA > 0 {
		gpa = fmt.Sprintf("%.2f/4.0", c.GPA)
	}
	language := ""
	if c.LanguageTotalScore > 0 {
		language = fmt.Sprintf("%d", c.LanguageTotalScore)
	}

	return &ai.CaseAnalysis{
		CaseID:             c.CaseID,
		AdmittedUniversity: c.AdmittedUniversity,
		AdmittedProgram:    c.AdmittedProgram,
		GPA:                gpa,
		LanguageScore:      language,
		LanguageTestType:   string(c.LanguageTestType),
		KeyExperiences:     c.ExperienceText,
		UndergradInfo:      fmt.Sprintf("%s, %s", c.UndergradUniversity, c.UndergradMajor),
		Comparison:         narrative.Comparison,
		SuccessFactors:     narrative.SuccessFactors,
		Takeaways:          narrative.Takeaways,
	}, nil
}

func (a *Analyst) SuggestImprovements(ctx context.Context, candidate *casebook.CandidateProfile, weaknesses string) (*ai.BackgroundImprovement, error) {
	prompt, err := renderPrompt(improvementTemplate, map[string]any{
		"{{PROFILE_JSON}}": candidate,
		"{{WEAKNESSES}}":   weaknesses,
	})
	if err != nil {
		return nil, err
	}

	var plan ai.BackgroundImprovement
	if err := a.generateInto(ctx, "background improvement", prompt, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (a *Analyst) generateInto(ctx context.Context, task, prompt string, out any) error {
	a.logger.Debug("gemini generate content request",
		zap.String("task", task),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return err
	}

	a.logger.Debug("gemini generate content response",
		zap.String("task", task),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	cleaned := extractJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("parse %s response: %w", task, err)
	}
	return nil
}

// renderPrompt substitutes placeholders with indented JSON of the values.
// String values are substituted verbatim.
func renderPrompt(template string, values map[string]any) (string, error) {
	prompt := template
	for placeholder, value := range values {
		var text string
		if s, ok := value.(string); ok {
			text = s
		} else {
			data, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return "", fmt.Errorf("marshal prompt payload: %w", err)
			}
			text = string(data)
		}
		prompt = strings.ReplaceAll(prompt, placeholder, text)
	}
	return prompt, nil
}

// matchSummary trims a match down to the fields the schools prompt needs,
// keeping the overall prompt size bounded.
type matchSummary struct {
	CaseID             int64   `json:"case_id"`
	Similarity         float64 `json:"similarity"`
	AdmittedUniversity string  `json:"admitted_university"`
	AdmittedProgram    string  `json:"admitted_program"`
	AdmittedCountry    string  `json:"admitted_country"`
	DegreeType         string  `json:"degree_type"`
	GPA                float64 `json:"gpa_4_scale,omitempty"`
	Tier               string  `json:"university_tier"`
	MajorCategory      string  `json:"major_category"`
}

func summarizeMatches(matches []casebook.ScoredMatch) []matchSummary {
	summaries := make([]matchSummary, 0, len(matches))
	for _, m := range matches {
		summaries = append(summaries, matchSummary{
			CaseID:             m.CaseID,
			Similarity:         m.TotalSimilarity,
			AdmittedUniversity: m.Case.AdmittedUniversity,
			AdmittedProgram:    m.Case.AdmittedProgram,
			AdmittedCountry:    m.Case.AdmittedCountry,
			DegreeType:         string(m.Case.AdmittedDegreeType),
			GPA:                m.Case.GPA,
			Tier:               string(m.Case.Tier),
			MajorCategory:      m.Case.MajorCategory,
		})
	}
	return summaries
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	// Some models wrap the JSON in prose; cut to the outermost braces.
	if start := strings.Index(raw, "{"); start != -1 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
