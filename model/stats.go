package model

import "time"

// StatsSnapshot is the admin dashboard counter set. Fields default to zero
// or to the previous snapshot's value when a sub-fetch fails; the UI never
// sees a missing field.
type StatsSnapshot struct {
	TotalUsers      int64   `json:"total_users" bson:"total_users"`
	TotalProducts   int64   `json:"total_products" bson:"total_products"`
	TotalCategories int64   `json:"total_categories" bson:"total_categories"`
	ActiveUsers     int64   `json:"active_users" bson:"active_users"`
	TotalOrders     int64   `json:"total_orders" bson:"total_orders"`
	PendingOrders   int64   `json:"pending_orders" bson:"pending_orders"`
	CompletedOrders int64   `json:"completed_orders" bson:"completed_orders"`
	TotalRevenue    float64 `json:"total_revenue" bson:"total_revenue"`
	RecentUsers     int64   `json:"recent_users" bson:"recent_users"`
	RecentProducts  int64   `json:"recent_products" bson:"recent_products"`
}

// StatsCacheEntry pairs a snapshot with the instant it was computed. An
// entry is fresh while now-Timestamp < TTL; staleness is the only eviction
// trigger.
type StatsCacheEntry struct {
	Timestamp time.Time     `json:"_ts"`
	Data      StatsSnapshot `json:"data"`
}

// Fresh reports whether the entry is younger than ttl at the given instant.
func (e *StatsCacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) < ttl
}

// RetryState tracks quota backoff for the stats pipeline. Reset on every
// successful aggregation; advanced on each quota failure.
type RetryState struct {
	AttemptCount int
	NextDelay    time.Duration
}

const (
	RetryInitialDelay = 2 * time.Second
	RetryMaxDelay     = 60 * time.Second
	RetryMaxAttempts  = 3
)

func NewRetryState() RetryState {
	return RetryState{AttemptCount: 0, NextDelay: RetryInitialDelay}
}

// Exhausted reports whether no further retries may be scheduled.
func (r *RetryState) Exhausted() bool {
	return r.AttemptCount >= RetryMaxAttempts
}

// Advance consumes one attempt and returns the delay to wait before the
// retry. The delay doubles each time, capped at RetryMaxDelay.
func (r *RetryState) Advance() time.Duration {
	delay := r.NextDelay
	r.AttemptCount++
	r.NextDelay *= 2
	if r.NextDelay > RetryMaxDelay {
		r.NextDelay = RetryMaxDelay
	}
	return delay
}

// Reset returns the state to its initial value after a success.
func (r *RetryState) Reset() {
	*r = NewRetryState()
}
