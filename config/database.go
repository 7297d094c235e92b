package config

import (
	"time"

	"github.com/anagroupsupplies/shop/utils"
)

type DatabaseConfig struct {
	URI             string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	DatabaseName    string
	RetryWrites     bool
}

func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
		MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
		MaxConnIdleTime: time.Duration(utils.GetEnvAsInt("MONGO_MAX_CONN_IDLE_TIME", 60)) * time.Second,
		DatabaseName:    utils.GetEnvAsString("MONGO_DB", "anashop"),
		RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
	}
}

type CacheConfig struct {
	RedisURL    string
	SnapshotTTL time.Duration
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		RedisURL:    utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		SnapshotTTL: utils.GetEnvAsDuration("STATS_SNAPSHOT_TTL", 5*time.Minute),
	}
}

type AssistantConfig struct {
	UpstreamURL string
	APIKey      string
	Timeout     time.Duration
}

func LoadAssistantConfig() AssistantConfig {
	return AssistantConfig{
		UpstreamURL: utils.GetEnvAsString("ASSISTANT_UPSTREAM_URL", ""),
		APIKey:      utils.GetEnvAsString("ASSISTANT_API_KEY", ""),
		Timeout:     utils.GetEnvAsDuration("ASSISTANT_TIMEOUT", 30*time.Second),
	}
}
