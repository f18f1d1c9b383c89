// Package cache memoizes intermediate tabular and JSON results in Redis.
// The cache is an optimization, never a correctness source: every failure
// degrades to "proceed uncached" and disables caching for the rest of the
// process.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"

	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/config"
	"github.com/BhushanSonar10/ecommerce-data-warehouse/etl/utils"
)

// MaxBlobSize is the ceiling for a single cached payload. Larger blobs are
// refused rather than stored (the Redis hard limit is 512 MiB; 100 MiB
// keeps bulk intermediate results from crowding out everything else).
const MaxBlobSize = 100 * 1024 * 1024

const (
	connectAttempts   = 3
	connectRetryDelay = 2 * time.Second
)

// sleep is swapped out in tests to observe the connect retry delay.
var sleep = time.Sleep

// Manager is the cache layer over a Redis backend. A nil or disabled
// manager is safe to use; every operation becomes a no-op.
type Manager struct {
	client     *redis.Client
	logger     *utils.ETLLogger
	enabled    bool
	defaultTTL time.Duration
}

// NewManager connects to Redis and returns a cache manager. Connection is
// attempted a fixed number of times; if the backend stays unreachable the
// manager comes back disabled and the pipeline runs uncached.
func NewManager(cfg config.RedisConfig, defaultTTL time.Duration, enabled bool, logger *utils.ETLLogger) *Manager {
	m := &Manager{
		logger:     logger,
		defaultTTL: defaultTTL,
	}

	if !enabled {
		logger.Info("Caching disabled by configuration")
		return m
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis connection attempt %d failed: %v", attempt, err)
			if attempt < connectAttempts {
				sleep(connectRetryDelay)
			}
			continue
		}
		logger.Info("Redis connection established")
		m.client = client
		m.enabled = true
		return m
	}

	logger.Error("Failed to connect to Redis after %d attempts, caching disabled", connectAttempts)
	client.Close()
	return m
}

// Enabled reports whether caching is currently active.
func (m *Manager) Enabled() bool {
	return m != nil && m.enabled
}

// disable turns caching off for the remainder of the process. The backend
// itself is never retried.
func (m *Manager) disable(op string, err error) {
	m.logger.Error("Cache %s failed, disabling caching for this process: %v", op, err)
	m.enabled = false
}

// GetBlob returns the cached payload for key, or nil on a miss or when
// caching is unavailable.
func (m *Manager) GetBlob(ctx context.Context, key string) []byte {
	if !m.Enabled() {
		return nil
	}

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		m.logger.Debug("Cache miss for key: %s", key)
		return nil
	}
	if err != nil {
		m.disable("get", err)
		return nil
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		m.logger.Error("Failed to decompress cached payload for key %s: %v", key, err)
		return nil
	}

	m.logger.Debug("Cache hit for key: %s", key)
	return decoded
}

// PutBlob stores a payload under key with the given TTL (the default TTL
// when ttl is zero). Payloads over MaxBlobSize after compression are
// refused and false is returned; callers must treat false as "proceed
// uncached", never as fatal.
func (m *Manager) PutBlob(ctx context.Context, key string, blob []byte, ttl time.Duration) bool {
	if !m.Enabled() {
		return false
	}

	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	encoded := snappy.Encode(nil, blob)
	if len(encoded) > MaxBlobSize {
		m.logger.Warn("Payload too large to cache: %d bytes for key %s", len(encoded), key)
		return false
	}

	if err := m.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		m.disable("set", err)
		return false
	}

	m.logger.Debug("Cached %d bytes under key %s, TTL %v", len(encoded), key, ttl)
	return true
}

// GetJSON decodes the cached JSON document for key into v, reporting
// whether a document was found.
func (m *Manager) GetJSON(ctx context.Context, key string, v interface{}) bool {
	blob := m.GetBlob(ctx, key)
	if blob == nil {
		return false
	}

	if err := json.Unmarshal(blob, v); err != nil {
		m.logger.Error("Failed to decode cached JSON for key %s: %v", key, err)
		return false
	}

	return true
}

// PutJSON stores v as a JSON document under key.
func (m *Manager) PutJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) bool {
	blob, err := json.Marshal(v)
	if err != nil {
		m.logger.Error("Failed to encode JSON for key %s: %v", key, err)
		return false
	}

	return m.PutBlob(ctx, key, blob, ttl)
}

// Invalidate deletes every key matching pattern and returns the number of
// entries removed.
func (m *Manager) Invalidate(ctx context.Context, pattern string) int {
	if !m.Enabled() {
		return 0
	}

	keys, err := m.client.Keys(ctx, pattern).Result()
	if err != nil {
		m.disable("keys", err)
		return 0
	}
	if len(keys) == 0 {
		return 0
	}

	deleted, err := m.client.Del(ctx, keys...).Result()
	if err != nil {
		m.disable("del", err)
		return 0
	}

	m.logger.Info("Invalidated %d cache entries matching pattern: %s", deleted, pattern)
	return int(deleted)
}

// Stats summarizes backend cache statistics.
type Stats struct {
	Enabled          bool    `json:"cache_enabled"`
	Keys             int64   `json:"keys"`
	UsedMemory       int64   `json:"used_memory"`
	KeyspaceHits     int64   `json:"keyspace_hits"`
	KeyspaceMisses   int64   `json:"keyspace_misses"`
	HitRate          float64 `json:"hit_rate"`
	ConnectedClients int64   `json:"connected_clients"`
}

// Stats returns backend statistics, or a zero value with Enabled false when
// caching is unavailable.
func (m *Manager) Stats(ctx context.Context) Stats {
	if !m.Enabled() {
		return Stats{}
	}

	stats := Stats{Enabled: true}

	if keys, err := m.client.DBSize(ctx).Result(); err == nil {
		stats.Keys = keys
	}

	info, err := m.client.Info(ctx, "stats", "memory", "clients").Result()
	if err != nil {
		m.disable("info", err)
		return Stats{}
	}

	fields := parseInfo(info)
	stats.UsedMemory = fields["used_memory"]
	stats.KeyspaceHits = fields["keyspace_hits"]
	stats.KeyspaceMisses = fields["keyspace_misses"]
	stats.ConnectedClients = fields["connected_clients"]

	if total := stats.KeyspaceHits + stats.KeyspaceMisses; total > 0 {
		stats.HitRate = float64(stats.KeyspaceHits) / float64(total) * 100
	}

	return stats
}

func parseInfo(info string) map[string]int64 {
	fields := map[string]int64{}
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			fields[name] = n
		}
	}
	return fields
}

// Close releases the backend connection.
func (m *Manager) Close() {
	if m != nil && m.client != nil {
		m.client.Close()
		m.logger.Info("Redis connection closed")
	}
}
