package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tatianab/rigged-rps/internal/models"
)

type fakeStore struct {
	mu    sync.Mutex
	incs  map[string]int
	sets  []Document
	err   error
	block chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{incs: map[string]int{}}
}

func (f *fakeStore) Increment(ctx context.Context, key, field string) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.incs[key+"/"+field]++
	return nil
}

func (f *fakeStore) Set(_ context.Context, _ string, fields Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = append(f.sets, fields)
	return f.err
}

func (f *fakeStore) Subscribe(_ context.Context, _ string, onUpdate func(Document), _ func(error)) (func(), error) {
	onUpdate(nil)
	return func() {}, nil
}

func (f *fakeStore) count(field string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.incs["global/"+field]
}

func TestRecordGameOutcome(t *testing.T) {
	cases := []struct {
		outcome models.Outcome
		total   int
		cpu     int
	}{
		{models.Lose, 1, 1},
		{models.Win, 1, 0},
		{models.Draw, 1, 0},
	}

	for _, tc := range cases {
		store := newFakeStore()
		n := NewNotifier(store, "global")
		n.RecordGameOutcome(tc.outcome)
		n.Wait()

		if got := store.count(FieldTotalGames); got != tc.total {
			t.Errorf("%s: expected %d totalGames increments, got %d", tc.outcome, tc.total, got)
		}
		if got := store.count(FieldCPUWins); got != tc.cpu {
			t.Errorf("%s: expected %d cpuWins increments, got %d", tc.outcome, tc.cpu, got)
		}
	}
}

func TestRecordGameOutcomeDoesNotBlock(t *testing.T) {
	store := newFakeStore()
	store.block = make(chan struct{})
	n := NewNotifier(store, "global")

	done := make(chan struct{})
	go func() {
		n.RecordGameOutcome(models.Lose)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RecordGameOutcome blocked on a slow store")
	}

	close(store.block)
	n.Wait()
	if got := store.count(FieldCPUWins); got != 1 {
		t.Errorf("Expected the increment to land eventually, got %d", got)
	}
}

func TestRecordGameOutcomeSwallowsErrors(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("network down")
	n := NewNotifier(store, "global")

	n.RecordGameOutcome(models.Lose)
	n.RecordGameOutcome(models.Win)
	n.Wait()

	if got := store.count(FieldTotalGames); got != 0 {
		t.Errorf("Expected no successful increments, got %d", got)
	}
}

func TestRecordVisitOnce(t *testing.T) {
	store := newFakeStore()
	n := NewNotifier(store, "global")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.RecordVisit()
		}()
	}
	wg.Wait()
	n.Wait()

	if got := store.count(FieldVisitorCount); got != 1 {
		t.Errorf("Expected exactly one visit, got %d", got)
	}
}

func TestWatchInitialisesMissingRecord(t *testing.T) {
	store := newFakeStore()
	n := NewNotifier(store, "global")

	var got []models.GlobalStats
	stop, err := n.Watch(context.Background(), func(s models.GlobalStats) {
		got = append(got, s)
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer stop()
	n.Wait()

	if len(got) != 1 || got[0] != (models.GlobalStats{}) {
		t.Errorf("Expected zero counters for a missing record, got %v", got)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.sets) != 1 {
		t.Fatalf("Expected one initialisation, got %d", len(store.sets))
	}
	if v, ok := store.sets[0][FieldCPUWins]; !ok || v != 0 {
		t.Errorf("Expected cpuWins initialised to 0, got %v", store.sets[0])
	}
}

func TestWatchWithMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	n := NewNotifier(store, "global")

	updates := make(chan models.GlobalStats, 16)
	stop, err := n.Watch(context.Background(), func(s models.GlobalStats) {
		updates <- s
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer stop()

	n.RecordGameOutcome(models.Lose)
	n.Wait()

	deadline := time.After(time.Second)
	for {
		select {
		case s := <-updates:
			if s.TotalGames == 1 && s.CPUWins == 1 {
				return
			}
		case <-deadline:
			t.Fatalf("Never saw the increment, store holds %v", store.Get("global"))
		}
	}
}
