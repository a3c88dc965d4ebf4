package casebook

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/suanho/compass/internal/textsim"
)

const defaultFetchTimeout = 30 * time.Second

// Repository fetches historical cases from the external case database.
// Absent fields map to the documented sentinel values; implementations never
// return partial rows.
type Repository interface {
	FetchAll(ctx context.Context) ([]HistoricalCase, error)
}

// Snapshot is one immutable view of the loaded corpus: the cases, the TF-IDF
// vectorizer fitted over their experience texts, and the per-case vectors
// aligned with Cases by index. Readers hold a snapshot for the duration of a
// request and are unaffected by concurrent refreshes.
type Snapshot struct {
	Cases      []HistoricalCase
	Vectorizer *textsim.Vectorizer
	Vectors    []textsim.Vector
	LoadedAt   time.Time

	byID map[int64]int
}

// HasText reports whether the snapshot corpus produced a usable vocabulary.
func (s *Snapshot) HasText() bool {
	return s.Vectorizer != nil && s.Vectorizer.VocabularySize() > 0
}

// Store owns the in-memory collection of historical cases for the process
// lifetime. The snapshot is replaced wholesale by a single pointer swap;
// there is no per-field mutation, so concurrent readers always observe a
// fully-consistent old-or-new view.
type Store struct {
	repo         Repository
	logger       *zap.Logger
	fetchTimeout time.Duration

	loaded atomic.Bool
	snap   atomic.Pointer[Snapshot]
}

// NewStore creates an unloaded store. A fetchTimeout of zero or below falls
// back to the default.
func NewStore(repo Repository, fetchTimeout time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	s := &Store{
		repo:         repo,
		logger:       logger,
		fetchTimeout: fetchTimeout,
	}
	s.snap.Store(emptySnapshot())
	return s
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Vectorizer: textsim.Fit(nil, 0),
		byID:       map[int64]int{},
	}
}

// EnsureLoaded hydrates the store on first use. Subsequent calls are no-ops.
// The check-then-fetch is idempotent and safe to race: two concurrent first
// calls at most duplicate the fetch, with the loser's snapshot harmlessly
// replaced by an equivalent one. A failed fetch is logged and leaves the
// store unloaded; the empty snapshot itself is the degraded-mode signal.
func (s *Store) EnsureLoaded(ctx context.Context) {
	if s.loaded.Load() {
		return
	}
	if err := s.reload(ctx); err != nil {
		s.logger.Error("loading case corpus failed, matching degrades to empty results", zap.Error(err))
		return
	}
	s.loaded.Store(true)
}

// Refresh unconditionally repeats the fetch and vectorizer fit, swapping in
// the new snapshot atomically. On failure the previous snapshot stays in
// place and the error is returned to the caller that requested the refresh.
func (s *Store) Refresh(ctx context.Context) error {
	if err := s.reload(ctx); err != nil {
		return err
	}
	s.loaded.Store(true)
	return nil
}

func (s *Store) reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	cases, err := s.repo.FetchAll(ctx)
	if err != nil {
		return err
	}

	corpus := make([]string, len(cases))
	for i, c := range cases {
		corpus[i] = c.ExperienceText
	}

	vectorizer := textsim.Fit(corpus, textsim.DefaultMaxFeatures)
	next := &Snapshot{
		Cases:      cases,
		Vectorizer: vectorizer,
		Vectors:    vectorizer.TransformAll(corpus),
		LoadedAt:   time.Now(),
		byID:       make(map[int64]int, len(cases)),
	}
	for i, c := range cases {
		next.byID[c.CaseID] = i
	}

	s.snap.Store(next)
	s.logger.Info("case corpus loaded",
		zap.Int("cases", len(cases)),
		zap.Int("vocabulary", vectorizer.VocabularySize()),
	)
	return nil
}

// Snapshot returns the current corpus view. The result must be treated as
// read-only.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// AllCases returns the cases of the current snapshot.
func (s *Store) AllCases() []HistoricalCase {
	return s.Snapshot().Cases
}

// Count reports the number of cases in the current snapshot.
func (s *Store) Count() int {
	return len(s.Snapshot().Cases)
}

// GetByIDs returns the cases matching the given identifiers in caller-given
// order. Unknown ids are silently skipped; an empty store yields an empty
// result, never an error.
func (s *Store) GetByIDs(ids []int64) []HistoricalCase {
	snap := s.Snapshot()
	found := make([]HistoricalCase, 0, len(ids))
	for _, id := range ids {
		if idx, ok := snap.byID[id]; ok {
			found = append(found, snap.Cases[idx])
		}
	}
	return found
}
