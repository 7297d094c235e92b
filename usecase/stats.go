package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/utils"
)

// Collaborator interfaces are satisfied by the mongo-backed repositories;
// tests substitute fakes.

type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
	CountActiveUsers(ctx context.Context) (int64, error)
	CountUsersCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type ProductCounter interface {
	CountProducts(ctx context.Context) (int64, error)
	CountProductsCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type CategoryCounter interface {
	CountCategories(ctx context.Context) (int64, error)
}

type OrderCounter interface {
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
	DeliveredOrderTotals(ctx context.Context) ([]float64, error)
}

// SnapshotStore is the persisted cache; entries survive process restarts.
type SnapshotStore interface {
	Get(ctx context.Context) (*model.StatsCacheEntry, error)
	Set(ctx context.Context, entry *model.StatsCacheEntry) error
}

const (
	// DefaultSnapshotTTL is the freshness window; staleness is the only
	// eviction trigger.
	DefaultSnapshotTTL = 5 * time.Minute

	// RecentWindow bounds the "new in the last week" dashboard deltas.
	RecentWindow = 7 * 24 * time.Hour
)

// StatsAggregator produces dashboard snapshots while minimizing billed
// count queries against the store. All cache and retry state is owned here;
// handlers never touch it directly.
type StatsAggregator struct {
	users      UserCounter
	products   ProductCounter
	categories CategoryCounter
	orders     OrderCounter
	persisted  SnapshotStore

	ttl       time.Duration
	now       func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer
	spawn     func(f func())

	mu         sync.Mutex
	memory     *model.StatsCacheEntry
	retry      model.RetryState
	inFlight   bool
	retryTimer *time.Timer
	closed     bool

	pollQuit   chan struct{}
	pollPaused bool
}

func NewStatsAggregator(
	users UserCounter,
	products ProductCounter,
	categories CategoryCounter,
	orders OrderCounter,
	persisted SnapshotStore,
) *StatsAggregator {
	return &StatsAggregator{
		users:      users,
		products:   products,
		categories: categories,
		orders:     orders,
		persisted:  persisted,
		ttl:        DefaultSnapshotTTL,
		now:        time.Now,
		afterFunc:  time.AfterFunc,
		spawn:      func(f func()) { go f() },
		retry:      model.NewRetryState(),
	}
}

// GetStats returns the dashboard snapshot, serving from cache while fresh.
// A non-nil error always comes with the last good snapshot; no failure path
// leaves the caller without data.
func (a *StatsAggregator) GetStats(ctx context.Context, forceRefresh bool) (model.StatsSnapshot, error) {
	a.mu.Lock()

	if !forceRefresh {
		if a.memory != nil && a.memory.Fresh(a.now(), a.ttl) {
			snap := a.memory.Data
			a.mu.Unlock()
			utils.TrackStatsCache("memory_hit")
			return snap, nil
		}
		if entry := a.loadPersisted(ctx); entry != nil && entry.Fresh(a.now(), a.ttl) {
			a.memory = entry
			snap := entry.Data
			a.mu.Unlock()
			utils.TrackStatsCache("persisted_hit")
			return snap, nil
		}
		utils.TrackStatsCache("miss")
	} else {
		utils.TrackStatsCache("forced")
	}

	// In-flight guard: one full refresh at a time. Concurrent callers keep
	// the last known snapshot.
	if a.inFlight {
		snap := a.lastSnapshotLocked(ctx)
		a.mu.Unlock()
		return snap, nil
	}
	a.inFlight = true
	previous := a.lastSnapshotLocked(ctx)
	a.mu.Unlock()

	snapshot, err := a.refresh(ctx, previous)

	a.mu.Lock()
	a.inFlight = false
	a.mu.Unlock()

	return snapshot, err
}

// loadPersisted reads the persisted cache, tolerating its failure. Callers
// must hold the mutex.
func (a *StatsAggregator) loadPersisted(ctx context.Context) *model.StatsCacheEntry {
	if a.persisted == nil {
		return nil
	}
	entry, err := a.persisted.Get(ctx)
	if err != nil {
		log.Printf("Warning: persisted snapshot cache read failed: %v", err)
		return nil
	}
	return entry
}

// lastSnapshotLocked returns the newest snapshot we have from either cache,
// or a zero snapshot. Callers must hold the mutex.
func (a *StatsAggregator) lastSnapshotLocked(ctx context.Context) model.StatsSnapshot {
	if a.memory != nil {
		return a.memory.Data
	}
	if entry := a.loadPersisted(ctx); entry != nil {
		return entry.Data
	}
	return model.StatsSnapshot{}
}

// countResult carries one count query's outcome into the merge step.
type countResult struct {
	apply func(*model.StatsSnapshot, int64)
	value int64
	err   error
	name  string
}

// refresh recomputes the snapshot. Count queries run concurrently and fail
// independently: a failed count leaves its field at the previous value. Only
// a quota signal aborts into the backoff path.
func (a *StatsAggregator) refresh(ctx context.Context, previous model.StatsSnapshot) (model.StatsSnapshot, error) {
	type query struct {
		name  string
		run   func(context.Context) (int64, error)
		apply func(*model.StatsSnapshot, int64)
	}

	queries := []query{
		{"total_users", a.users.CountUsers,
			func(s *model.StatsSnapshot, v int64) { s.TotalUsers = v }},
		{"active_users", a.users.CountActiveUsers,
			func(s *model.StatsSnapshot, v int64) { s.ActiveUsers = v }},
		{"total_products", a.products.CountProducts,
			func(s *model.StatsSnapshot, v int64) { s.TotalProducts = v }},
		{"total_categories", a.categories.CountCategories,
			func(s *model.StatsSnapshot, v int64) { s.TotalCategories = v }},
		{"total_orders", a.orders.CountOrders,
			func(s *model.StatsSnapshot, v int64) { s.TotalOrders = v }},
		{"pending_orders", func(ctx context.Context) (int64, error) {
			return a.orders.CountOrdersByStatus(ctx, model.OrderPending)
		}, func(s *model.StatsSnapshot, v int64) { s.PendingOrders = v }},
		{"completed_orders", func(ctx context.Context) (int64, error) {
			return a.orders.CountOrdersByStatus(ctx, model.OrderDelivered)
		}, func(s *model.StatsSnapshot, v int64) { s.CompletedOrders = v }},
	}

	results := make([]countResult, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q query) {
			defer wg.Done()
			v, err := q.run(ctx)
			results[i] = countResult{apply: q.apply, value: v, err: err, name: q.name}
		}(i, q)
	}
	wg.Wait()

	snapshot := previous
	failed := 0
	for _, res := range results {
		if res.err != nil {
			if errors.Is(res.err, model.ErrQuotaExhausted) {
				return a.handleQuota(previous, res.err)
			}
			// Partial failure: the field keeps its previous value.
			log.Printf("Warning: stats count %s failed, keeping previous value: %v", res.name, res.err)
			failed++
			continue
		}
		res.apply(&snapshot, res.value)
	}

	// Revenue needs the delivered order documents; the store has no
	// server-side sum. A failure here retains the previous figure too.
	totals, err := a.orders.DeliveredOrderTotals(ctx)
	switch {
	case err == nil:
		var revenue float64
		for _, t := range totals {
			revenue += t
		}
		snapshot.TotalRevenue = revenue
	case errors.Is(err, model.ErrQuotaExhausted):
		return a.handleQuota(previous, err)
	default:
		log.Printf("Warning: revenue scan failed, keeping previous value: %v", err)
		failed++
	}

	if failed == len(queries)+1 {
		// Nothing succeeded; surface for a manual refresh instead of
		// pretending the retained snapshot is new.
		utils.TrackStatsRefresh("error")
		return previous, errors.New("stats refresh failed: all queries errored")
	}

	entry := &model.StatsCacheEntry{Timestamp: a.now(), Data: snapshot}

	a.mu.Lock()
	a.retry.Reset()
	a.memory = entry
	a.mu.Unlock()

	if a.persisted != nil {
		if err := a.persisted.Set(ctx, entry); err != nil {
			log.Printf("Warning: persisted snapshot cache write failed: %v", err)
		}
	}

	if failed > 0 {
		utils.TrackStatsRefresh("partial")
	} else {
		utils.TrackStatsRefresh("success")
	}

	// Recent-activity deltas arrive late by design: the caller is never
	// kept waiting on them.
	a.spawn(func() { a.fetchRecent() })

	return snapshot, nil
}

// handleQuota implements the backoff policy: up to three scheduled retries
// with doubling delay, then a surfaced error with the last good snapshot
// kept. No fallback to an unbounded scan; that would compound the quota
// problem.
func (a *StatsAggregator) handleQuota(previous model.StatsSnapshot, cause error) (model.StatsSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	utils.TrackStatsRefresh("quota")

	if a.closed || a.retry.Exhausted() {
		return previous, cause
	}

	delay := a.retry.Advance()
	log.Printf("Stats refresh hit quota, retrying in %s (attempt %d)", delay, a.retry.AttemptCount)
	a.retryTimer = a.afterFunc(delay, func() {
		if _, err := a.GetStats(context.Background(), true); err != nil {
			log.Printf("Warning: scheduled stats retry failed: %v", err)
		}
	})

	return previous, nil
}

// fetchRecent computes the 7-day deltas and merges them into the cached
// snapshot through the same merge path the UI reads.
func (a *StatsAggregator) fetchRecent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	since := a.now().Add(-RecentWindow)

	recentUsers, uErr := a.users.CountUsersCreatedSince(ctx, since)
	recentProducts, pErr := a.products.CountProductsCreatedSince(ctx, since)
	if uErr != nil {
		log.Printf("Warning: recent users count failed: %v", uErr)
	}
	if pErr != nil {
		log.Printf("Warning: recent products count failed: %v", pErr)
	}
	if uErr != nil && pErr != nil {
		return
	}

	a.mergeRecent(ctx, recentUsers, uErr == nil, recentProducts, pErr == nil)
}

func (a *StatsAggregator) mergeRecent(ctx context.Context, recentUsers int64, usersOK bool, recentProducts int64, productsOK bool) {
	a.mu.Lock()
	if a.memory == nil {
		a.mu.Unlock()
		return
	}
	if usersOK {
		a.memory.Data.RecentUsers = recentUsers
	}
	if productsOK {
		a.memory.Data.RecentProducts = recentProducts
	}
	entry := *a.memory
	a.mu.Unlock()

	if a.persisted != nil {
		if err := a.persisted.Set(ctx, &entry); err != nil {
			log.Printf("Warning: persisted snapshot cache write failed: %v", err)
		}
	}
}

// StartPolling refreshes the snapshot on a fixed interval until Close.
// PausePolling suspends the refresh while the dashboard is backgrounded; the
// ticker keeps running but skips its work.
func (a *StatsAggregator) StartPolling(interval time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pollQuit != nil || a.closed {
		return
	}
	a.pollQuit = make(chan struct{})
	quit := a.pollQuit

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				a.mu.Lock()
				paused := a.pollPaused
				a.mu.Unlock()
				if paused {
					continue
				}
				if _, err := a.GetStats(context.Background(), false); err != nil {
					log.Printf("Warning: polled stats refresh failed: %v", err)
				}
			}
		}
	}()
}

func (a *StatsAggregator) PausePolling() {
	a.mu.Lock()
	a.pollPaused = true
	a.mu.Unlock()
}

func (a *StatsAggregator) ResumePolling() {
	a.mu.Lock()
	a.pollPaused = false
	a.mu.Unlock()
}

// Close cancels the retry timer and the polling loop.
func (a *StatsAggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.retryTimer != nil {
		a.retryTimer.Stop()
		a.retryTimer = nil
	}
	if a.pollQuit != nil {
		close(a.pollQuit)
		a.pollQuit = nil
	}
}
