package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anagroupsupplies/shop/model"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "admin:stats_snapshot"

// SnapshotCache is the persisted half of the dashboard cache. Entries
// survive process restarts; the in-memory half lives in the aggregator.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// snapshotBlob flattens the snapshot fields next to a "_ts" stamp, matching
// the serialized cache format the dashboard has always used.
type snapshotBlob struct {
	model.StatsSnapshot
	TS int64 `json:"_ts"`
}

func NewSnapshotCache(redisURL string, ttl time.Duration) (*SnapshotCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SnapshotCache{client: client, ttl: ttl}, nil
}

// Get returns the cached entry, or nil on a miss.
func (sc *SnapshotCache) Get(ctx context.Context) (*model.StatsCacheEntry, error) {
	data, err := sc.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	var blob snapshotBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &model.StatsCacheEntry{
		Timestamp: time.UnixMilli(blob.TS),
		Data:      blob.StatsSnapshot,
	}, nil
}

// Set stores the entry. The Redis expiry is double the freshness TTL so a
// stale-but-present snapshot is still available as last-good data.
func (sc *SnapshotCache) Set(ctx context.Context, entry *model.StatsCacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cannot cache nil entry")
	}

	data, err := json.Marshal(snapshotBlob{
		StatsSnapshot: entry.Data,
		TS:            entry.Timestamp.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := sc.client.Set(ctx, snapshotKey, data, 2*sc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	return nil
}

func (sc *SnapshotCache) IsConnected() bool {
	if sc == nil || sc.client == nil {
		return false
	}
	return sc.client.Ping(context.Background()).Err() == nil
}

func (sc *SnapshotCache) Close() error {
	return sc.client.Close()
}
