package ai

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/suanho/compass/internal/casebook"
)

// DefaultMaxConsecutiveFailures is the trip threshold when none is
// configured.
const DefaultMaxConsecutiveFailures = 3

// Failover serves from a primary advisor until it trips, then from the
// fallback for the rest of the process lifetime. Tripping happens after a
// run of consecutive failures, or immediately on a quota error since those
// will not recover within a request's lifetime. A single success resets the
// failure run.
type Failover struct {
	primary        Advisor
	fallback       Advisor
	maxConsecutive int
	logger         *zap.Logger

	mu          sync.Mutex
	consecutive int
	tripped     bool
}

// NewFailover wraps primary with fallback. A maxConsecutive of zero or below
// falls back to the default threshold.
func NewFailover(primary, fallback Advisor, maxConsecutive int, logger *zap.Logger) *Failover {
	if maxConsecutive <= 0 {
		maxConsecutive = DefaultMaxConsecutiveFailures
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Failover{
		primary:        primary,
		fallback:       fallback,
		maxConsecutive: maxConsecutive,
		logger:         logger,
	}
}

// Tripped reports whether the primary has been abandoned.
func (f *Failover) Tripped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tripped
}

func (f *Failover) useFallback() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tripped
}

func (f *Failover) recordSuccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consecutive = 0
}

func (f *Failover) recordFailure(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tripped {
		return
	}

	f.consecutive++
	if isQuotaError(err) {
		f.tripped = true
		f.logger.Warn("primary advisor hit a quota limit, switching to fallback", zap.Error(err))
		return
	}
	if f.consecutive >= f.maxConsecutive {
		f.tripped = true
		f.logger.Warn("primary advisor exceeded the consecutive-failure threshold, switching to fallback",
			zap.Int("failures", f.consecutive),
			zap.Error(err),
		)
	}
}

// isQuotaError matches the rate-limit shapes LLM backends return.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429")
}

func failoverCall[T any](ctx context.Context, f *Failover, primary, fallback func(context.Context) (T, error)) (T, error) {
	if f.useFallback() {
		return fallback(ctx)
	}

	result, err := primary(ctx)
	if err == nil {
		f.recordSuccess()
		return result, nil
	}

	f.recordFailure(err)
	if f.useFallback() {
		return fallback(ctx)
	}
	return result, err
}

func (f *Failover) AnalyzeCompetitiveness(ctx context.Context, candidate *casebook.CandidateProfile) (*CompetitivenessAnalysis, error) {
	return failoverCall(ctx, f,
		func(ctx context.Context) (*CompetitivenessAnalysis, error) {
			return f.primary.AnalyzeCompetitiveness(ctx, candidate)
		},
		func(ctx context.Context) (*CompetitivenessAnalysis, error) {
			return f.fallback.AnalyzeCompetitiveness(ctx, candidate)
		},
	)
}

func (f *Failover) RecommendSchools(ctx context.Context, candidate *casebook.CandidateProfile, matches []casebook.ScoredMatch) (*SchoolRecommendations, error) {
	return failoverCall(ctx, f,
		func(ctx context.Context) (*SchoolRecommendations, error) {
			return f.primary.RecommendSchools(ctx, candidate, matches)
		},
		func(ctx context.Context) (*SchoolRecommendations, error) {
			return f.fallback.RecommendSchools(ctx, candidate, matches)
		},
	)
}

func (f *Failover) AnalyzeCase(ctx context.Context, candidate *casebook.CandidateProfile, match casebook.ScoredMatch) (*CaseAnalysis, error) {
	return failoverCall(ctx, f,
		func(ctx context.Context) (*CaseAnalysis, error) {
			return f.primary.AnalyzeCase(ctx, candidate, match)
		},
		func(ctx context.Context) (*CaseAnalysis, error) {
			return f.fallback.AnalyzeCase(ctx, candidate, match)
		},
	)
}

func (f *Failover) SuggestImprovements(ctx context.Context, candidate *casebook.CandidateProfile, weaknesses string) (*BackgroundImprovement, error) {
	return failoverCall(ctx, f,
		func(ctx context.Context) (*BackgroundImprovement, error) {
			return f.primary.SuggestImprovements(ctx, candidate, weaknesses)
		},
		func(ctx context.Context) (*BackgroundImprovement, error) {
			return f.fallback.SuggestImprovements(ctx, candidate, weaknesses)
		},
	)
}
