package etl

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/normalize"
)

var phdKeywords = []string{"phd", "博士", "doctorate"}

// Sink accepts processed cases, normally the processed_cases table.
type Sink interface {
	Insert(ctx context.Context, c casebook.HistoricalCase) error
}

// Processor converts raw scraped cases into processed rows.
type Processor struct {
	tables *normalize.Tables
	logger *zap.Logger
}

func NewProcessor(tables *normalize.Tables, logger *zap.Logger) *Processor {
	if tables == nil {
		tables = normalize.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{tables: tables, logger: logger}
}

// Process extracts structured fields from one raw case. It never rejects a
// row; fields that cannot be extracted fall back to their sentinel values.
func (p *Processor) Process(raw SourceCase) casebook.HistoricalCase {
	gpa4, gpaOriginal, gpaScale := ExtractGPA(raw.GPA)
	testType, totalScore := ExtractLanguageScore(raw.LanguageScore, raw.StudentBackground)
	greTotal, gmatTotal := ExtractTestScores(raw.StudentBackground)
	research, internship, workYears := ExtractExperience(raw.KeyExperience)

	degree := casebook.DegreeMaster
	program := strings.ToLower(raw.AdmittedProgram)
	for _, keyword := range phdKeywords {
		if strings.Contains(program, keyword) {
			degree = casebook.DegreePhD
			break
		}
	}

	return casebook.HistoricalCase{
		SourceID:            raw.ID,
		GPA:                 gpa4,
		GPAOriginal:         gpaOriginal,
		GPAScaleType:        gpaScale,
		UndergradUniversity: raw.UndergradUniversity,
		Tier:                p.tables.UniversityTier(raw.UndergradUniversity),
		UndergradMajor:      raw.UndergradMajor,
		MajorCategory:       p.tables.MajorCategory(raw.UndergradMajor),
		LanguageTestType:    testType,
		LanguageTotalScore:  totalScore,
		GRETotal:            greTotal,
		GMATTotal:           gmatTotal,
		ResearchCount:       research,
		InternshipCount:     internship,
		WorkYears:           workYears,
		AdmittedUniversity:  raw.AdmittedUniversity,
		AdmittedProgram:     raw.AdmittedProgram,
		AdmittedCountry:     CountryFromUniversity(raw.AdmittedUniversity),
		AdmittedDegreeType:  degree,
		ExperienceText:      raw.KeyExperience,
	}
}

// Run reads every raw case, processes it and writes it to the sink. Rows
// that fail to insert are counted and skipped, not fatal.
func (p *Processor) Run(ctx context.Context, source *SourceReader, sink Sink) (processed, failed int, err error) {
	raws, err := source.FetchAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	p.logger.Info("loaded raw cases", zap.Int("count", len(raws)))

	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return processed, failed, err
		}
		c := p.Process(raw)
		if err := sink.Insert(ctx, c); err != nil {
			p.logger.Warn("insert failed", zap.Int64("source_id", raw.ID), zap.Error(err))
			failed++
			continue
		}
		processed++
		if processed%100 == 0 {
			p.logger.Info("processing cases", zap.Int("processed", processed))
		}
	}

	p.logger.Info("etl completed", zap.Int("processed", processed), zap.Int("failed", failed))
	return processed, failed, nil
}
