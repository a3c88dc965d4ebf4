package casebook

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type countingRepo struct {
	mu      sync.Mutex
	calls   int
	batches [][]HistoricalCase
	err     error
}

func (r *countingRepo) FetchAll(_ context.Context) ([]HistoricalCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		r.calls++
		return nil, r.err
	}
	batch := r.batches[0]
	if len(r.batches) > 1 {
		r.batches = r.batches[1:]
	}
	r.calls++
	return batch, nil
}

func (r *countingRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func sampleCases() []HistoricalCase {
	return []HistoricalCase{
		{CaseID: 10, ExperienceText: "machine learning research"},
		{CaseID: 20, ExperienceText: "finance internship"},
	}
}

func TestEnsureLoadedIdempotent(t *testing.T) {
	repo := &countingRepo{batches: [][]HistoricalCase{sampleCases()}}
	store := NewStore(repo, 0, nil)

	ctx := context.Background()
	store.EnsureLoaded(ctx)
	store.EnsureLoaded(ctx)
	store.EnsureLoaded(ctx)

	if got := repo.callCount(); got != 1 {
		t.Fatalf("expected a single fetch, got %d", got)
	}
	if store.Count() != 2 {
		t.Fatalf("expected 2 cases loaded, got %d", store.Count())
	}
}

func TestEnsureLoadedFetchFailure(t *testing.T) {
	repo := &countingRepo{err: errors.New("connection refused")}
	store := NewStore(repo, 0, nil)

	store.EnsureLoaded(context.Background())

	if store.Count() != 0 {
		t.Fatalf("expected empty snapshot after failed load, got %d cases", store.Count())
	}

	// A failed first load leaves the store unloaded, so the next call
	// retries rather than caching the failure.
	store.EnsureLoaded(context.Background())
	if got := repo.callCount(); got != 2 {
		t.Fatalf("expected a retry after failure, got %d calls", got)
	}
}

func TestRefreshSwapsSnapshot(t *testing.T) {
	first := sampleCases()
	second := []HistoricalCase{{CaseID: 30, ExperienceText: "robotics project"}}
	repo := &countingRepo{batches: [][]HistoricalCase{first, second}}
	store := NewStore(repo, 0, nil)

	ctx := context.Background()
	store.EnsureLoaded(ctx)
	before := store.Snapshot()

	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("unexpected refresh error: %v", err)
	}

	after := store.Snapshot()
	if before == after {
		t.Fatal("expected refresh to swap in a new snapshot")
	}
	if len(after.Cases) != 1 || after.Cases[0].CaseID != 30 {
		t.Fatalf("expected refreshed data, got %v", after.Cases)
	}

	// The old snapshot is untouched for readers still holding it.
	if len(before.Cases) != 2 {
		t.Fatalf("expected old snapshot unchanged, got %d cases", len(before.Cases))
	}
}

func TestRefreshKeepsOldSnapshotOnFailure(t *testing.T) {
	repo := &countingRepo{batches: [][]HistoricalCase{sampleCases()}}
	store := NewStore(repo, 0, nil)

	ctx := context.Background()
	store.EnsureLoaded(ctx)

	repo.mu.Lock()
	repo.err = errors.New("database gone")
	repo.mu.Unlock()

	if err := store.Refresh(ctx); err == nil {
		t.Fatal("expected refresh error")
	}

	if store.Count() != 2 {
		t.Fatalf("expected previous snapshot kept on failure, got %d cases", store.Count())
	}
}

func TestConcurrentReadersDuringRefresh(t *testing.T) {
	repo := &countingRepo{batches: [][]HistoricalCase{sampleCases()}}
	store := NewStore(repo, 0, nil)
	store.EnsureLoaded(context.Background())

	var inconsistent atomic.Bool
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			snap := store.Snapshot()
			// A snapshot is internally consistent: vectors always align
			// with cases.
			if len(snap.Vectors) != len(snap.Cases) {
				inconsistent.Store(true)
				return
			}
		}
	}()

	for i := 0; i < 20; i++ {
		if err := store.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh %d failed: %v", i, err)
		}
	}
	close(stop)
	wg.Wait()

	if inconsistent.Load() {
		t.Fatal("reader observed an inconsistent snapshot during refresh")
	}
}

func TestGetByIDs(t *testing.T) {
	repo := &countingRepo{batches: [][]HistoricalCase{sampleCases()}}
	store := NewStore(repo, 0, nil)
	store.EnsureLoaded(context.Background())

	got := store.GetByIDs([]int64{20, 99, 10})
	if len(got) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(got))
	}
	if got[0].CaseID != 20 || got[1].CaseID != 10 {
		t.Fatalf("expected caller order, got %d then %d", got[0].CaseID, got[1].CaseID)
	}

	empty := NewStore(&countingRepo{batches: [][]HistoricalCase{nil}}, 0, nil)
	if res := empty.GetByIDs([]int64{1}); len(res) != 0 {
		t.Fatalf("expected empty result from empty store, got %v", res)
	}
}

func TestSnapshotHasText(t *testing.T) {
	repo := &countingRepo{batches: [][]HistoricalCase{{{CaseID: 1}, {CaseID: 2}}}}
	store := NewStore(repo, 0, nil)
	store.EnsureLoaded(context.Background())

	if store.Snapshot().HasText() {
		t.Fatal("corpus without experience text should report no usable vocabulary")
	}

	textual := &countingRepo{batches: [][]HistoricalCase{sampleCases()}}
	store = NewStore(textual, 0, nil)
	store.EnsureLoaded(context.Background())

	if !store.Snapshot().HasText() {
		t.Fatal("expected usable vocabulary from textual corpus")
	}
}
