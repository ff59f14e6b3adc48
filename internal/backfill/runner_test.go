package backfill

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rfoster/ge-market-data/internal/model"
)

func ptr(v int64) *int64 { return &v }

type fakeSource struct {
	ids []int64
	err error
}

func (s *fakeSource) ItemIDs(ctx context.Context) ([]int64, error) {
	return s.ids, s.err
}

type fakeFetcher struct {
	histories map[int64][]model.RawRecord
	errs      map[int64]error

	// onFetch, when set, runs before each fetch. Used to trigger
	// cancellation mid-run.
	onFetch func(itemID int64)
}

func (f *fakeFetcher) ItemHistory(ctx context.Context, itemID int64) ([]model.RawRecord, error) {
	if f.onFetch != nil {
		f.onFetch(itemID)
	}
	if err := f.errs[itemID]; err != nil {
		return nil, err
	}
	return f.histories[itemID], nil
}

// fakeStore emulates the insert-or-ignore contract: a (item, date) key is
// written at most once across the store's lifetime.
type fakeStore struct {
	mu   sync.Mutex
	seen map[[2]int64]bool // (itemID, unix day) -> present
	errs map[int64]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: make(map[[2]int64]bool)}
}

func (s *fakeStore) InsertObservations(ctx context.Context, itemID int64, obs []model.Observation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.errs[itemID]; err != nil {
		return 0, err
	}

	var inserted int64
	for _, o := range obs {
		key := [2]int64{o.ItemID, o.Date.Unix()}
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		inserted++
	}
	return inserted, nil
}

func (s *fakeStore) rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func dayMillis(day int) int64 {
	return time.Date(2023, 11, day, 12, 0, 0, 0, time.UTC).UnixMilli()
}

func history(days ...int) []model.RawRecord {
	records := make([]model.RawRecord, 0, len(days))
	for _, d := range days {
		records = append(records, model.RawRecord{
			Timestamp: ptr(dayMillis(d)),
			Price:     ptr(int64(100 + d)),
		})
	}
	return records
}

func testConfig() Config {
	return Config{Workers: 3, RateLimit: time.Millisecond, ReportInterval: 100}
}

func TestRunEmptyItemSet(t *testing.T) {
	r := New(testConfig(), &fakeSource{}, &fakeFetcher{}, newFakeStore(), nil, nil, nil)

	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Total != 0 || summary.Processed != 0 || summary.Errors != 0 {
		t.Errorf("summary = %+v, want zero-work summary", summary)
	}
	if got := summary.ItemsPerSec(); got != 0 {
		t.Errorf("ItemsPerSec() = %v, want 0 for empty run", got)
	}
}

func TestRunSourceFailureIsFatal(t *testing.T) {
	src := &fakeSource{err: errors.New("store unreachable")}
	r := New(testConfig(), src, &fakeFetcher{}, newFakeStore(), nil, nil, nil)

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want setup failure")
	}
}

func TestRunAggregatesCounts(t *testing.T) {
	src := &fakeSource{ids: []int64{2, 6, 8}}
	fetcher := &fakeFetcher{
		histories: map[int64][]model.RawRecord{
			2: history(1, 2, 3),
			6: history(1, 2),
			8: history(1),
		},
	}
	store := newFakeStore()

	r := New(testConfig(), src, fetcher, store, nil, nil, nil)
	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Processed != 3 {
		t.Errorf("Processed = %d, want 3", summary.Processed)
	}
	if summary.Errors != 0 {
		t.Errorf("Errors = %d, want 0", summary.Errors)
	}
	if summary.Records != 6 {
		t.Errorf("Records = %d, want 6", summary.Records)
	}
	if summary.Inserted != 6 {
		t.Errorf("Inserted = %d, want 6", summary.Inserted)
	}
	if store.rows() != 6 {
		t.Errorf("store rows = %d, want 6", store.rows())
	}
}

func TestRunIsolatesItemFailures(t *testing.T) {
	src := &fakeSource{ids: []int64{2, 6, 8}}
	fetcher := &fakeFetcher{
		histories: map[int64][]model.RawRecord{
			6: history(1, 2),
			8: history(1),
		},
		errs: map[int64]error{2: errors.New("connection timed out")},
	}
	store := newFakeStore()

	r := New(testConfig(), src, fetcher, store, nil, nil, nil)
	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Processed != 3 {
		t.Errorf("Processed = %d, want 3", summary.Processed)
	}
	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want exactly the one failed item", summary.Errors)
	}
	if summary.Inserted != 3 {
		t.Errorf("Inserted = %d, want 3 from the surviving items", summary.Inserted)
	}
}

func TestRunIsolatesPersistFailures(t *testing.T) {
	src := &fakeSource{ids: []int64{2, 6}}
	fetcher := &fakeFetcher{
		histories: map[int64][]model.RawRecord{
			2: history(1),
			6: history(1),
		},
	}
	store := newFakeStore()
	store.errs = map[int64]error{6: errors.New("write error")}

	r := New(testConfig(), src, fetcher, store, nil, nil, nil)
	summary, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", summary.Errors)
	}
	if summary.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", summary.Inserted)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	src := &fakeSource{ids: []int64{2, 6}}
	fetcher := &fakeFetcher{
		histories: map[int64][]model.RawRecord{
			2: history(1, 2, 3),
			6: history(1, 2),
		},
	}
	store := newFakeStore()

	first, err := New(testConfig(), src, fetcher, store, nil, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.Inserted != 5 {
		t.Fatalf("first run Inserted = %d, want 5", first.Inserted)
	}

	second, err := New(testConfig(), src, fetcher, store, nil, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Inserted != 0 {
		t.Errorf("second run Inserted = %d, want 0 for already-covered dates", second.Inserted)
	}
	if store.rows() != 5 {
		t.Errorf("store rows = %d, want 5 after both runs", store.rows())
	}
}

func TestRunCountsDroppedRecords(t *testing.T) {
	records := history(1, 2, 3, 4, 5, 6, 7)
	records = append(records,
		model.RawRecord{Timestamp: ptr(dayMillis(8))},
		model.RawRecord{Timestamp: ptr(dayMillis(9))},
		model.RawRecord{Price: ptr(100)},
	)

	src := &fakeSource{ids: []int64{2}}
	fetcher := &fakeFetcher{histories: map[int64][]model.RawRecord{2: records}}
	store := newFakeStore()

	summary, err := New(testConfig(), src, fetcher, store, nil, nil, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Records != 10 {
		t.Errorf("Records = %d, want 10", summary.Records)
	}
	if summary.Dropped != 3 {
		t.Errorf("Dropped = %d, want 3", summary.Dropped)
	}
	if summary.Inserted != 7 {
		t.Errorf("Inserted = %d, want 7", summary.Inserted)
	}
}

func TestRunStopsDispatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ids := make([]int64, 50)
	histories := make(map[int64][]model.RawRecord, 50)
	for i := range ids {
		ids[i] = int64(i + 1)
		histories[int64(i+1)] = history(1)
	}

	fetcher := &fakeFetcher{
		histories: histories,
		// Cancel during the very first fetch; the long rate-limit delay
		// guarantees workers observe it before taking another item.
		onFetch: func(int64) { cancel() },
	}

	cfg := Config{Workers: 1, RateLimit: time.Hour, ReportInterval: 100}
	r := New(cfg, &fakeSource{ids: ids}, fetcher, newFakeStore(), nil, nil, nil)

	summary, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !summary.Interrupted {
		t.Error("Interrupted = false, want true")
	}
	if summary.Processed >= summary.Total {
		t.Errorf("Processed = %d, want fewer than %d after cancellation", summary.Processed, summary.Total)
	}
	// The item already in flight still committed.
	if summary.Processed < 1 {
		t.Errorf("Processed = %d, want at least the in-flight item", summary.Processed)
	}
}

func TestSummaryItemsPerSec(t *testing.T) {
	s := Summary{Processed: 120, Elapsed: time.Minute}
	if got := s.ItemsPerSec(); got != 2 {
		t.Errorf("ItemsPerSec() = %v, want 2", got)
	}

	zero := Summary{}
	if got := zero.ItemsPerSec(); got != 0 {
		t.Errorf("ItemsPerSec() = %v, want 0 for zero summary", got)
	}
}
