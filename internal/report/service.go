// Package report assembles the full analysis report: ranked similar cases
// plus the narrative sections generated by an advisor. Narrative tasks run
// as a bounded task list with aggregated results; individual failures
// degrade the report instead of aborting it.
package report

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/suanho/compass/internal/ai"
	"github.com/suanho/compass/internal/casebook"
)

// ErrNoCases is returned when matching produced nothing to report on.
var ErrNoCases = errors.New("no similar cases available")

// ErrNarrativeFailed is returned when neither required narrative section
// could be generated.
var ErrNarrativeFailed = errors.New("narrative generation failed")

// Matcher is the slice of the matching engine the service needs.
type Matcher interface {
	FindSimilarCases(ctx context.Context, candidate *casebook.CandidateProfile, topN int) ([]casebook.ScoredMatch, error)
}

const (
	defaultTopN         = 30
	defaultCaseAnalyses = 10
	defaultWorkers      = 4
)

// Service generates analysis reports.
type Service struct {
	matcher Matcher
	advisor ai.Advisor
	logger  *zap.Logger

	topN         int
	caseAnalyses int
	workers      int
}

// Option adjusts service behavior.
type Option func(*Service)

// WithTopN sets how many similar cases are retrieved for the report.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithCaseAnalyses sets how many of the best matches get a narrative
// analysis.
func WithCaseAnalyses(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.caseAnalyses = n
		}
	}
}

// WithWorkers bounds the number of concurrent narrative tasks.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewService wires a report service.
func NewService(matcher Matcher, advisor ai.Advisor, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		matcher:      matcher,
		advisor:      advisor,
		logger:       logger,
		topN:         defaultTopN,
		caseAnalyses: defaultCaseAnalyses,
		workers:      defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces the full analysis report for a candidate. It fails only
// when there are no cases to report on or when both required narrative
// sections are missing; partial narrative failures produce a degraded but
// complete report.
func (s *Service) Generate(ctx context.Context, candidate *casebook.CandidateProfile) (*ai.AnalysisReport, error) {
	matches, err := s.matcher.FindSimilarCases(ctx, candidate, s.topN)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNoCases
	}
	s.logger.Info("similar cases found", zap.Int("count", len(matches)))

	analyzed := matches
	if len(analyzed) > s.caseAnalyses {
		analyzed = analyzed[:s.caseAnalyses]
	}

	results := s.runNarrativeTasks(ctx, candidate, matches, analyzed)

	if results.competitiveness == nil && results.schools == nil {
		return nil, ErrNarrativeFailed
	}

	report := &ai.AnalysisReport{
		Competitiveness:       results.competitiveness,
		SchoolRecommendations: results.schools,
		SimilarCases:          results.cases,
	}

	// The improvement plan needs the weaknesses text, so it runs after the
	// fan-out rather than inside it.
	if results.competitiveness != nil && results.competitiveness.Weaknesses != "" {
		plan, err := s.advisor.SuggestImprovements(ctx, candidate, results.competitiveness.Weaknesses)
		if err != nil {
			s.logger.Warn("background improvement generation failed", zap.Error(err))
		} else {
			report.BackgroundImprovement = plan
		}
	}

	return report, nil
}

type narrativeResults struct {
	competitiveness *ai.CompetitivenessAnalysis
	schools         *ai.SchoolRecommendations
	cases           []*ai.CaseAnalysis
}

func (s *Service) runNarrativeTasks(ctx context.Context, candidate *casebook.CandidateProfile, matches, analyzed []casebook.ScoredMatch) narrativeResults {
	var (
		mu      sync.Mutex
		results narrativeResults
	)
	results.cases = make([]*ai.CaseAnalysis, len(analyzed))

	tasks := make([]func(), 0, len(analyzed)+2)
	tasks = append(tasks, func() {
		analysis, err := s.advisor.AnalyzeCompetitiveness(ctx, candidate)
		if err != nil {
			s.logger.Warn("competitiveness analysis failed", zap.Error(err))
			return
		}
		mu.Lock()
		results.competitiveness = analysis
		mu.Unlock()
	})
	tasks = append(tasks, func() {
		recs, err := s.advisor.RecommendSchools(ctx, candidate, matches)
		if err != nil {
			s.logger.Warn("school recommendation failed", zap.Error(err))
			return
		}
		mu.Lock()
		results.schools = recs
		mu.Unlock()
	})
	for i, match := range analyzed {
		i, match := i, match
		tasks = append(tasks, func() {
			analysis, err := s.advisor.AnalyzeCase(ctx, candidate, match)
			if err != nil {
				s.logger.Warn("case analysis failed",
					zap.Int64("case_id", match.CaseID),
					zap.Error(err),
				)
				return
			}
			mu.Lock()
			results.cases[i] = analysis
			mu.Unlock()
		})
	}

	queue := make(chan func())
	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				task()
			}
		}()
	}
	for _, task := range tasks {
		queue <- task
	}
	close(queue)
	wg.Wait()

	// Drop the failed slots, preserving rank order.
	kept := results.cases[:0]
	for _, analysis := range results.cases {
		if analysis != nil {
			kept = append(kept, analysis)
		}
	}
	results.cases = kept

	return results
}
