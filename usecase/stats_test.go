package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anagroupsupplies/shop/model"
)

// fakeStatsStore implements the count interfaces with injectable failures
// and per-query call tracking.
type fakeStatsStore struct {
	mu sync.Mutex

	users          int64
	activeUsers    int64
	recentUsers    int64
	products       int64
	recentProducts int64
	categories     int64
	orders         int64
	byStatus       map[model.OrderStatus]int64
	delivered      []float64

	errs  map[string]error
	calls map[string]int
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{
		byStatus: map[model.OrderStatus]int64{},
		errs:     map[string]error{},
		calls:    map[string]int{},
	}
}

func (f *fakeStatsStore) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeStatsStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeStatsStore) failWith(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, name)
	} else {
		f.errs[name] = err
	}
}

func (f *fakeStatsStore) CountUsers(ctx context.Context) (int64, error) {
	return f.users, f.record("users")
}

func (f *fakeStatsStore) CountActiveUsers(ctx context.Context) (int64, error) {
	return f.activeUsers, f.record("active_users")
}

func (f *fakeStatsStore) CountUsersCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return f.recentUsers, f.record("recent_users")
}

func (f *fakeStatsStore) CountProducts(ctx context.Context) (int64, error) {
	return f.products, f.record("products")
}

func (f *fakeStatsStore) CountProductsCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return f.recentProducts, f.record("recent_products")
}

func (f *fakeStatsStore) CountCategories(ctx context.Context) (int64, error) {
	return f.categories, f.record("categories")
}

func (f *fakeStatsStore) CountOrders(ctx context.Context) (int64, error) {
	return f.orders, f.record("orders")
}

func (f *fakeStatsStore) CountOrdersByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	return f.byStatus[status], f.record("orders_" + string(status))
}

func (f *fakeStatsStore) DeliveredOrderTotals(ctx context.Context) ([]float64, error) {
	return f.delivered, f.record("delivered_totals")
}

type fakeSnapshotStore struct {
	mu    sync.Mutex
	entry *model.StatsCacheEntry
}

func (f *fakeSnapshotStore) Get(ctx context.Context) (*model.StatsCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entry == nil {
		return nil, nil
	}
	copied := *f.entry
	return &copied, nil
}

func (f *fakeSnapshotStore) Set(ctx context.Context, entry *model.StatsCacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *entry
	f.entry = &copied
	return nil
}

type testHarness struct {
	agg     *StatsAggregator
	store   *fakeStatsStore
	cache   *fakeSnapshotStore
	clock   *time.Time
	delays  *[]time.Duration
	pending *func()
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	store := newFakeStatsStore()
	cache := &fakeSnapshotStore{}
	agg := NewStatsAggregator(store, store, store, store, cache)

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	delays := []time.Duration{}
	var pending func()

	h := &testHarness{agg: agg, store: store, cache: cache, clock: &clock, delays: &delays, pending: &pending}

	agg.now = func() time.Time { return *h.clock }
	agg.spawn = func(f func()) { f() } // detached work runs inline in tests
	agg.afterFunc = func(d time.Duration, f func()) *time.Timer {
		*h.delays = append(*h.delays, d)
		*h.pending = f
		return time.NewTimer(time.Hour)
	}

	t.Cleanup(agg.Close)
	return h
}

func (h *testHarness) seedExample() {
	h.store.users = 25
	h.store.activeUsers = 5
	h.store.products = 10
	h.store.categories = 3
	h.store.orders = 4
	h.store.byStatus[model.OrderPending] = 2
	h.store.byStatus[model.OrderDelivered] = 2
	h.store.delivered = []float64{1000, 500}
	h.store.recentUsers = 4
	h.store.recentProducts = 1
}

func TestGetStatsComputesSnapshot(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	snap, err := h.agg.GetStats(context.Background(), false)
	if err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	if snap.TotalUsers != 25 || snap.ActiveUsers != 5 {
		t.Errorf("user counts = %d/%d, want 25/5", snap.TotalUsers, snap.ActiveUsers)
	}
	if snap.TotalProducts != 10 {
		t.Errorf("TotalProducts = %d, want 10", snap.TotalProducts)
	}
	if snap.TotalOrders != 4 || snap.PendingOrders != 2 || snap.CompletedOrders != 2 {
		t.Errorf("order counts = %d/%d/%d, want 4/2/2",
			snap.TotalOrders, snap.PendingOrders, snap.CompletedOrders)
	}
	if snap.TotalRevenue != 1500 {
		t.Errorf("TotalRevenue = %v, want 1500", snap.TotalRevenue)
	}

	// Recent deltas arrive via the detached merge; the cached snapshot has
	// them by the next read.
	snap, err = h.agg.GetStats(context.Background(), false)
	if err != nil {
		t.Fatalf("second GetStats returned error: %v", err)
	}
	if snap.RecentUsers != 4 || snap.RecentProducts != 1 {
		t.Errorf("recent deltas = %d/%d, want 4/1", snap.RecentUsers, snap.RecentProducts)
	}
}

func TestGetStatsServedFromCacheWithinTTL(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	first, err := h.agg.GetStats(context.Background(), false)
	if err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	h.store.mu.Lock()
	h.store.calls = map[string]int{}
	h.store.mu.Unlock()

	*h.clock = h.clock.Add(2 * time.Minute)

	second, err := h.agg.GetStats(context.Background(), false)
	if err != nil {
		t.Fatalf("cached GetStats returned error: %v", err)
	}

	if got := h.store.callCount(); got != 0 {
		t.Errorf("cached call issued %d remote queries, want 0", got)
	}

	// Identical data modulo the merged recent deltas.
	first.RecentUsers, first.RecentProducts = second.RecentUsers, second.RecentProducts
	if first != second {
		t.Errorf("cached snapshot differs: %+v vs %+v", first, second)
	}
}

func TestGetStatsRefetchesAfterTTL(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	if _, err := h.agg.GetStats(context.Background(), false); err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	h.store.users = 30
	*h.clock = h.clock.Add(6 * time.Minute)

	snap, err := h.agg.GetStats(context.Background(), false)
	if err != nil {
		t.Fatalf("GetStats after TTL returned error: %v", err)
	}
	if snap.TotalUsers != 30 {
		t.Errorf("TotalUsers after TTL = %d, want refetched 30", snap.TotalUsers)
	}

	entry, _ := h.cache.Get(context.Background())
	if entry == nil || !entry.Timestamp.Equal(*h.clock) {
		t.Errorf("cache timestamp not updated after TTL refetch")
	}
}

func TestForceRefreshBypassesCache(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	if _, err := h.agg.GetStats(context.Background(), false); err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	h.store.products = 12
	snap, err := h.agg.GetStats(context.Background(), true)
	if err != nil {
		t.Fatalf("forced GetStats returned error: %v", err)
	}
	if snap.TotalProducts != 12 {
		t.Errorf("forced refresh TotalProducts = %d, want 12", snap.TotalProducts)
	}
}

func TestPersistedCacheHitSkipsQueries(t *testing.T) {
	h := newTestHarness(t)

	seeded := model.StatsSnapshot{TotalUsers: 7, TotalProducts: 3}
	h.cache.Set(context.Background(), &model.StatsCacheEntry{
		Timestamp: h.clock.Add(-time.Minute),
		Data:      seeded,
	})

	snap, err := h.agg.GetStats(context.Background(), false)
	if err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}
	if snap != seeded {
		t.Errorf("snapshot = %+v, want persisted %+v", snap, seeded)
	}
	if got := h.store.callCount(); got != 0 {
		t.Errorf("persisted hit issued %d remote queries, want 0", got)
	}
}

func TestPartialFailureRetainsPreviousValue(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	if _, err := h.agg.GetStats(context.Background(), false); err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	h.store.failWith("products", errors.New("socket reset"))
	h.store.users = 26

	snap, err := h.agg.GetStats(context.Background(), true)
	if err != nil {
		t.Fatalf("partial refresh returned error: %v", err)
	}
	if snap.TotalProducts != 10 {
		t.Errorf("TotalProducts = %d, want previous value 10 retained", snap.TotalProducts)
	}
	if snap.TotalUsers != 26 {
		t.Errorf("TotalUsers = %d, want fresh 26", snap.TotalUsers)
	}
}

func TestRevenueFailureRetainsPreviousValue(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	if _, err := h.agg.GetStats(context.Background(), false); err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	h.store.failWith("delivered_totals", errors.New("timeout"))

	snap, err := h.agg.GetStats(context.Background(), true)
	if err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	if snap.TotalRevenue != 1500 {
		t.Errorf("TotalRevenue = %v, want previous 1500 retained", snap.TotalRevenue)
	}
}

func TestAllQueriesFailedSurfacesError(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	if _, err := h.agg.GetStats(context.Background(), false); err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	cause := errors.New("network down")
	for _, name := range []string{"users", "active_users", "products", "categories",
		"orders", "orders_pending", "orders_delivered", "delivered_totals"} {
		h.store.failWith(name, cause)
	}

	snap, err := h.agg.GetStats(context.Background(), true)
	if err == nil {
		t.Fatal("expected error when every query fails")
	}
	if snap.TotalUsers != 25 {
		t.Errorf("last good snapshot not preserved: TotalUsers = %d, want 25", snap.TotalUsers)
	}
}

func TestQuotaBackoffSchedule(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	// Establish a good snapshot first.
	if _, err := h.agg.GetStats(context.Background(), false); err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	h.store.failWith("users", model.ErrQuotaExhausted)

	// Three quota failures: the first from a direct call, the next two from
	// the scheduled retries.
	snap, err := h.agg.GetStats(context.Background(), true)
	if err != nil {
		t.Fatalf("quota failure should not surface before retries exhaust, got %v", err)
	}
	if snap.TotalUsers != 25 {
		t.Errorf("quota failure lost last good snapshot: TotalUsers = %d", snap.TotalUsers)
	}

	(*h.pending)()
	(*h.pending)()

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*h.delays) != len(want) {
		t.Fatalf("scheduled %d retries (%v), want %d", len(*h.delays), *h.delays, len(want))
	}
	for i, d := range want {
		if (*h.delays)[i] != d {
			t.Errorf("retry %d delay = %v, want %v", i+1, (*h.delays)[i], d)
		}
	}

	// Fourth failure: retries exhausted, error surfaces, data preserved.
	snap, err = h.agg.GetStats(context.Background(), true)
	if err == nil {
		t.Fatal("expected surfaced error after retries exhausted")
	}
	if !errors.Is(err, model.ErrQuotaExhausted) {
		t.Errorf("surfaced error = %v, want quota exhaustion", err)
	}
	if snap.TotalUsers != 25 {
		t.Errorf("exhausted retries lost last good snapshot: TotalUsers = %d", snap.TotalUsers)
	}
	if len(*h.delays) != len(want) {
		t.Errorf("fourth failure scheduled another retry: %v", *h.delays)
	}
}

func TestRetryStateResetsOnSuccess(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	if _, err := h.agg.GetStats(context.Background(), false); err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	h.store.failWith("users", model.ErrQuotaExhausted)
	if _, err := h.agg.GetStats(context.Background(), true); err != nil {
		t.Fatalf("first quota failure surfaced early: %v", err)
	}
	(*h.pending)() // second failure, 4s scheduled

	// Quota recovers; the scheduled retry succeeds and resets backoff.
	h.store.failWith("users", nil)
	(*h.pending)()

	// A fresh quota failure starts the sequence over at 2s.
	h.store.failWith("users", model.ErrQuotaExhausted)
	if _, err := h.agg.GetStats(context.Background(), true); err != nil {
		t.Fatalf("fresh quota failure surfaced early: %v", err)
	}

	delays := *h.delays
	if last := delays[len(delays)-1]; last != 2*time.Second {
		t.Errorf("delay after reset = %v, want 2s", last)
	}
}

func TestPollingPauseAndClose(t *testing.T) {
	h := newTestHarness(t)
	h.seedExample()

	h.agg.StartPolling(10 * time.Millisecond)
	h.agg.PausePolling()

	h.store.mu.Lock()
	h.store.calls = map[string]int{}
	h.store.mu.Unlock()

	time.Sleep(35 * time.Millisecond)
	if got := h.store.callCount(); got != 0 {
		t.Errorf("paused poller issued %d queries, want 0", got)
	}

	// Resuming past the TTL lets the poller refresh again.
	*h.clock = h.clock.Add(6 * time.Minute)
	h.agg.ResumePolling()

	deadline := time.Now().Add(time.Second)
	for h.store.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if h.store.callCount() == 0 {
		t.Error("resumed poller issued no queries")
	}

	h.agg.Close()
}
