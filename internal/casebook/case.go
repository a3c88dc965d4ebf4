package casebook

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Tier is the prestige classification of an undergraduate university.
type Tier string

const (
	TierC9       Tier = "C9"
	Tier985      Tier = "985"
	Tier211      Tier = "211"
	TierOrdinary Tier = "Ordinary"
	TierUnknown  Tier = "Unknown"
)

// Rank returns the position of the tier in the total order used for
// similarity scoring. Higher is more prestigious.
func (t Tier) Rank() int {
	switch t {
	case TierC9:
		return 5
	case Tier985:
		return 4
	case Tier211:
		return 3
	case TierOrdinary:
		return 2
	default:
		return 1
	}
}

// DegreeType is the admitted or targeted degree level.
type DegreeType string

const (
	DegreeMaster DegreeType = "Master"
	DegreePhD    DegreeType = "PhD"
)

// LanguageTest identifies the language exam a score belongs to.
type LanguageTest string

const (
	TestTOEFL LanguageTest = "TOEFL"
	TestIELTS LanguageTest = "IELTS"
	TestNone  LanguageTest = ""
)

// HistoricalCase is one past admitted applicant. Instances are immutable once
// loaded into a store snapshot.
//
// Numeric fields use zero as the "unknown" sentinel; scoring must treat the
// sentinel as neutral, never as maximal dissimilarity.
//
// LanguageTotalScore shares one comparison scale across exams: TOEFL totals
// are stored as-is and IELTS band totals are stored pre-multiplied by ten
// (7.0 becomes 70). All conversions out of this unit go through
// normalize.LanguageScoreToTOEFLScale; nothing else multiplies or divides
// by ten.
type HistoricalCase struct {
	CaseID   int64 `json:"case_id"`
	SourceID int64 `json:"source_id"`

	GPA          float64 `json:"gpa_4_scale"`
	GPAOriginal  string  `json:"gpa_original,omitempty"`
	GPAScaleType string  `json:"gpa_scale_type,omitempty"`

	UndergradUniversity string `json:"undergraduate_university"`
	Tier                Tier   `json:"undergraduate_university_tier"`
	UndergradMajor      string `json:"undergraduate_major"`
	MajorCategory       string `json:"undergraduate_major_category"`

	LanguageTestType   LanguageTest `json:"language_test_type"`
	LanguageTotalScore int          `json:"language_total_score"`
	LanguageReading    int          `json:"language_reading,omitempty"`
	LanguageListening  int          `json:"language_listening,omitempty"`
	LanguageSpeaking   int          `json:"language_speaking,omitempty"`
	LanguageWriting    int          `json:"language_writing,omitempty"`

	GRETotal  int `json:"gre_total,omitempty"`
	GMATTotal int `json:"gmat_total,omitempty"`

	ResearchCount   int     `json:"research_experience_count"`
	InternshipCount int     `json:"internship_experience_count"`
	WorkYears       float64 `json:"work_experience_years"`

	AdmittedUniversity string     `json:"admitted_university"`
	AdmittedProgram    string     `json:"admitted_program"`
	AdmittedCountry    string     `json:"admitted_country"`
	AdmittedDegreeType DegreeType `json:"admitted_degree_type"`

	ExperienceText string `json:"experience_text"`
}

// ExperienceEntry is one free-text experience record submitted by a
// candidate. Field presence varies by entry kind: research and other entries
// carry a name, internships carry a company and position.
type ExperienceEntry struct {
	Name        string `json:"name,omitempty" mapstructure:"name"`
	Company     string `json:"company,omitempty" mapstructure:"company"`
	Position    string `json:"position,omitempty" mapstructure:"position"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// Text concatenates the populated fields of the entry into one blob.
func (e ExperienceEntry) Text() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{e.Name, e.Company, e.Position, e.Description} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// DecodeExperienceEntries converts loosely-shaped key/value records, as they
// arrive from API payloads or config files, into typed entries.
func DecodeExperienceEntries(raw []map[string]any) ([]ExperienceEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var entries []ExperienceEntry
	if err := mapstructure.Decode(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CandidateProfile is the matching request input. It lives for exactly one
// request and is never persisted.
type CandidateProfile struct {
	UndergradUniversity string  `json:"undergraduate_university"`
	UndergradMajor      string  `json:"undergraduate_major"`
	GPA                 float64 `json:"gpa"`
	GPAScale            string  `json:"gpa_scale"`
	GraduationYear      int     `json:"graduation_year"`

	LanguageTestType   LanguageTest `json:"language_test_type,omitempty"`
	LanguageTotalScore int          `json:"language_total_score,omitempty"`
	LanguageReading    int          `json:"language_reading,omitempty"`
	LanguageListening  int          `json:"language_listening,omitempty"`
	LanguageSpeaking   int          `json:"language_speaking,omitempty"`
	LanguageWriting    int          `json:"language_writing,omitempty"`

	GRETotal   int     `json:"gre_total,omitempty"`
	GREVerbal  int     `json:"gre_verbal,omitempty"`
	GREQuant   int     `json:"gre_quantitative,omitempty"`
	GREWriting float64 `json:"gre_writing,omitempty"`
	GMATTotal  int     `json:"gmat_total,omitempty"`

	TargetCountries  []string   `json:"target_countries"`
	TargetMajors     []string   `json:"target_majors"`
	TargetDegreeType DegreeType `json:"target_degree_type"`

	ResearchExperiences   []ExperienceEntry `json:"research_experiences,omitempty"`
	InternshipExperiences []ExperienceEntry `json:"internship_experiences,omitempty"`
	OtherExperiences      []ExperienceEntry `json:"other_experiences,omitempty"`
}

// ExperienceBlob joins every experience entry into a single text used for
// TF-IDF comparison against historical experience summaries.
func (p *CandidateProfile) ExperienceBlob() string {
	var parts []string
	for _, group := range [][]ExperienceEntry{
		p.ResearchExperiences,
		p.InternshipExperiences,
		p.OtherExperiences,
	} {
		for _, entry := range group {
			if text := entry.Text(); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " ")
}

// ComponentScores holds the five per-attribute similarity values feeding the
// weighted total. Each value is independently in [0,1].
type ComponentScores struct {
	Major      float64 `json:"major"`
	GPA        float64 `json:"gpa"`
	Tier       float64 `json:"tier"`
	Language   float64 `json:"language"`
	Experience float64 `json:"experience"`
}

// ScoredMatch is one ranked result of a matching request.
type ScoredMatch struct {
	CaseID          int64           `json:"case_id"`
	TotalSimilarity float64         `json:"similarity_score"`
	Components      ComponentScores `json:"component_scores"`
	Case            HistoricalCase  `json:"case_data"`
}
