package matching

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/normalize"
)

// DefaultTopN is the result count used when a caller does not request a
// specific limit.
const DefaultTopN = 30

// Engine orchestrates filtering, scoring, weighting and ranking over the
// case store. It is stateless between requests and safe for concurrent use.
type Engine struct {
	store   *casebook.Store
	tables  *normalize.Tables
	weights Weights
	logger  *zap.Logger
}

// NewEngine wires an engine. Nil tables fall back to the built-in
// normalization tables, a nil logger to a no-op one.
func NewEngine(store *casebook.Store, tables *normalize.Tables, weights Weights, logger *zap.Logger) *Engine {
	if tables == nil {
		tables = normalize.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:   store,
		tables:  tables,
		weights: weights,
		logger:  logger,
	}
}

// FindSimilarCases ranks the stored cases against the candidate and returns
// the topN best matches with their component breakdowns. An empty store is a
// valid "no data" outcome and yields an empty slice, not an error.
func (e *Engine) FindSimilarCases(ctx context.Context, candidate *casebook.CandidateProfile, topN int) ([]casebook.ScoredMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	e.store.EnsureLoaded(ctx)
	snap := e.store.Snapshot()
	if len(snap.Cases) == 0 {
		e.logger.Warn("no cases available for similarity matching")
		return []casebook.ScoredMatch{}, nil
	}

	kept := e.prefilter(snap.Cases, candidate)

	// Candidate attributes are derived once per request, with the same
	// classification tables historical rows were processed with.
	tier := e.tables.UniversityTier(candidate.UndergradUniversity)
	category := e.tables.MajorCategory(candidate.UndergradMajor)
	gpa := normalize.GPATo4Scale(candidate.GPA, candidate.GPAScale)

	blob := candidate.ExperienceBlob()
	candidateVec := snap.Vectorizer.Transform(blob)
	// Neutral text policy: no candidate text, or a corpus with nothing to
	// vectorize, must not penalize any case.
	neutralText := blob == "" || !snap.HasText()

	matches := make([]casebook.ScoredMatch, 0, len(kept))
	for _, idx := range kept {
		c := snap.Cases[idx]

		experience := NeutralScore
		if !neutralText {
			experience = ExperienceSimilarity(candidateVec, snap.Vectors[idx])
		}

		components := casebook.ComponentScores{
			Major:      MajorSimilarity(category, c.MajorCategory),
			GPA:        GPASimilarity(gpa, c.GPA),
			Tier:       TierSimilarity(tier, c.Tier),
			Language:   LanguageSimilarity(candidate.LanguageTotalScore, candidate.LanguageTestType, c.LanguageTotalScore, c.LanguageTestType),
			Experience: experience,
		}

		matches = append(matches, casebook.ScoredMatch{
			CaseID:          c.CaseID,
			TotalSimilarity: e.weights.combine(components),
			Components:      components,
			Case:            c,
		})
	}

	// Stable sort keeps store order for equal scores; there is no secondary
	// ranking key.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].TotalSimilarity > matches[j].TotalSimilarity
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}

	e.logger.Debug("similarity matching completed",
		zap.Int("candidates_scored", len(kept)),
		zap.Int("returned", len(matches)),
	)
	return matches, nil
}

// prefilter applies the hard country and degree filters and returns the
// indices of surviving cases. When the filters eliminate everything, the
// full unfiltered set is used instead: some answer beats correct-but-empty.
func (e *Engine) prefilter(cases []casebook.HistoricalCase, candidate *casebook.CandidateProfile) []int {
	countries := make(map[string]struct{}, len(candidate.TargetCountries))
	for _, country := range candidate.TargetCountries {
		countries[country] = struct{}{}
	}

	kept := make([]int, 0, len(cases))
	for i, c := range cases {
		if len(countries) > 0 {
			if _, ok := countries[c.AdmittedCountry]; !ok {
				continue
			}
		}
		if candidate.TargetDegreeType != "" && c.AdmittedDegreeType != candidate.TargetDegreeType {
			continue
		}
		kept = append(kept, i)
	}

	if len(kept) == 0 {
		e.logger.Info("country/degree filter eliminated every case, falling back to the full set",
			zap.Int("initial", len(cases)),
			zap.Strings("target_countries", candidate.TargetCountries),
			zap.String("target_degree", string(candidate.TargetDegreeType)),
		)
		kept = kept[:0]
		for i := range cases {
			kept = append(kept, i)
		}
		return kept
	}

	e.logger.Debug("hard filter applied",
		zap.Int("initial", len(cases)),
		zap.Int("dropped", len(cases)-len(kept)),
		zap.Int("left", len(kept)),
	)
	return kept
}

// GetCaseDetails is a pass-through lookup by id, used to hydrate full case
// records for detail views. Unknown ids are dropped; an empty store yields
// an empty result.
func (e *Engine) GetCaseDetails(ctx context.Context, ids []int64) []casebook.HistoricalCase {
	e.store.EnsureLoaded(ctx)
	return e.store.GetByIDs(ids)
}

func (w Weights) combine(c casebook.ComponentScores) float64 {
	return w.Major*c.Major +
		w.GPA*c.GPA +
		w.Tier*c.Tier +
		w.Language*c.Language +
		w.Experience*c.Experience
}
