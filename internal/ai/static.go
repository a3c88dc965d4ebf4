package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/suanho/compass/internal/casebook"
)

// Static is a deterministic advisor used as the failover target when no LLM
// is reachable. Its reports are templated from the candidate's structured
// attributes and the matched cases, so the API stays renderable in degraded
// mode.
type Static struct{}

// NewStatic returns the deterministic fallback advisor.
func NewStatic() *Static {
	return &Static{}
}

func (s *Static) AnalyzeCompetitiveness(_ context.Context, candidate *casebook.CandidateProfile) (*CompetitivenessAnalysis, error) {
	strengths := []string{}
	weaknesses := []string{}

	if candidate.GPA > 0 {
		strengths = append(strengths, fmt.Sprintf("a reported GPA of %.2f on the %s scale", candidate.GPA, candidate.GPAScale))
	}
	if candidate.LanguageTotalScore > 0 {
		strengths = append(strengths, fmt.Sprintf("a completed %s test", candidate.LanguageTestType))
	} else {
		weaknesses = append(weaknesses, "no language test score on record")
	}
	if len(candidate.ResearchExperiences) > 0 {
		strengths = append(strengths, fmt.Sprintf("%d research experience(s)", len(candidate.ResearchExperiences)))
	}
	if len(candidate.InternshipExperiences) > 0 {
		strengths = append(strengths, fmt.Sprintf("%d internship(s)", len(candidate.InternshipExperiences)))
	}
	if len(candidate.ResearchExperiences)+len(candidate.InternshipExperiences) == 0 {
		weaknesses = append(weaknesses, "no documented research or internship experience")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "a complete application profile")
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, "no standout differentiator relative to comparable applicants")
	}

	return &CompetitivenessAnalysis{
		Strengths:  "The profile shows " + strings.Join(strengths, ", ") + ".",
		Weaknesses: "The main gaps are: " + strings.Join(weaknesses, "; ") + ".",
		Summary: fmt.Sprintf("Applicant from %s majoring in %s, targeting a %s in %s.",
			candidate.UndergradUniversity, candidate.UndergradMajor,
			candidate.TargetDegreeType, strings.Join(candidate.TargetCountries, ", ")),
	}, nil
}

func (s *Static) RecommendSchools(_ context.Context, candidate *casebook.CandidateProfile, matches []casebook.ScoredMatch) (*SchoolRecommendations, error) {
	recs := &SchoolRecommendations{
		CaseInsights: fmt.Sprintf("Recommendations derive directly from the %d most similar historical admissions.", len(matches)),
	}

	seen := map[string]struct{}{}
	for _, m := range matches {
		key := m.Case.AdmittedUniversity + "/" + m.Case.AdmittedProgram
		if m.Case.AdmittedUniversity == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec := SchoolRecommendation{
			University: m.Case.AdmittedUniversity,
			Program:    m.Case.AdmittedProgram,
			Reason:     fmt.Sprintf("Admitted a comparable applicant (similarity %.2f).", m.TotalSimilarity),
		}
		// Band by similarity: the closest matches are realistic targets,
		// weaker ones stretch upward or cushion downward.
		switch {
		case m.TotalSimilarity >= 0.8 && len(recs.Target) < 5:
			recs.Target = append(recs.Target, rec)
		case m.TotalSimilarity >= 0.65 && len(recs.Safety) < 3:
			recs.Safety = append(recs.Safety, rec)
		case len(recs.Reach) < 3:
			recs.Reach = append(recs.Reach, rec)
		}
	}
	return recs, nil
}

func (s *Static) AnalyzeCase(_ context.Context, candidate *casebook.CandidateProfile, match casebook.ScoredMatch) (*CaseAnalysis, error) {
	c := match.Case
	gpa := "unknown"
	if c.GPA > 0 {
		gpa = fmt.Sprintf("%.2f/4.0", c.GPA)
	}
	language := "not reported"
	if c.LanguageTotalScore > 0 {
		language = fmt.Sprintf("%d", c.LanguageTotalScore)
	}

	return &CaseAnalysis{
		CaseID:             c.CaseID,
		AdmittedUniversity: c.AdmittedUniversity,
		AdmittedProgram:    c.AdmittedProgram,
		GPA:                gpa,
		LanguageScore:      language,
		LanguageTestType:   string(c.LanguageTestType),
		KeyExperiences:     c.ExperienceText,
		UndergradInfo:      fmt.Sprintf("%s, %s (%s tier)", c.UndergradUniversity, c.UndergradMajor, c.Tier),
		Comparison: CaseComparison{
			GPA:        fmt.Sprintf("GPA component similarity %.2f", match.Components.GPA),
			University: fmt.Sprintf("University tier similarity %.2f", match.Components.Tier),
			Experience: fmt.Sprintf("Experience similarity %.2f", match.Components.Experience),
		},
		SuccessFactors: fmt.Sprintf("Overall similarity %.2f, driven chiefly by the major-field match (%.2f).",
			match.TotalSimilarity, match.Components.Major),
		Takeaways: "Align the application narrative with the aspects this case scored highly on.",
	}, nil
}

func (s *Static) SuggestImprovements(_ context.Context, _ *casebook.CandidateProfile, weaknesses string) (*BackgroundImprovement, error) {
	return &BackgroundImprovement{
		ActionPlan: []ActionPlan{
			{
				Timeframe: "0-3 months",
				Action:    "Address the identified gaps: " + weaknesses,
				Goal:      "Close the most visible weaknesses before the application cycle.",
			},
			{
				Timeframe: "3-6 months",
				Action:    "Add one substantial research or internship experience in the target field.",
				Goal:      "Strengthen the experience component of the profile.",
			},
			{
				Timeframe: "6-12 months",
				Action:    "Retake or complete standardized and language tests as needed.",
				Goal:      "Reach the median scores of admitted applicants at target programs.",
			},
		},
		StrategySummary: "Work the gaps in order of weight: field focus first, then academics, then test scores and experience.",
	}, nil
}
