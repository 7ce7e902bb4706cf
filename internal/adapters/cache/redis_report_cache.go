package cache

import (
	"context"
	"delivery-day-simulator/internal/domain"
	"delivery-day-simulator/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	reportKeyPrefix = "report:"
	// DefaultReportTTL keeps a status report for a day. An execution never
	// changes once finished.
	DefaultReportTTL = 24 * time.Hour
)

// RedisReportCache stores point-in-time status reports of finished runs
// as JSON, keyed by execution id and query time.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &RedisReportCache{client: client, ttl: ttl}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %q: %w", addr, err)
	}
	return client, nil
}

func reportKey(execID string, at time.Time) string {
	return fmt.Sprintf("%s%s:%d", reportKeyPrefix, execID, at.Unix())
}

// GetStatus returns the cached report, or ok=false on a miss.
func (c *RedisReportCache) GetStatus(
	ctx context.Context,
	execID string,
	at time.Time,
) (_ []domain.PackageSnapshot, _ bool, err error) {
	defer obs.Time(ctx, "report.cache.GetStatus")(&err)

	if c.client == nil {
		return nil, false, errors.New("report cache: client is nil")
	}

	data, err := c.client.Get(ctx, reportKey(execID, at)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get report cache: redis get: %w", err)
	}

	var snaps []domain.PackageSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, false, fmt.Errorf("get report cache: decode: %w", err)
	}
	return snaps, true, nil
}

// PutStatus stores a report with the cache TTL.
func (c *RedisReportCache) PutStatus(
	ctx context.Context,
	execID string,
	at time.Time,
	snaps []domain.PackageSnapshot,
) error {
	if c.client == nil {
		return errors.New("report cache: client is nil")
	}
	if execID == "" {
		return errors.New("put report cache: execution id must not be empty")
	}

	data, err := json.Marshal(snaps)
	if err != nil {
		return fmt.Errorf("put report cache: encode: %w", err)
	}

	if err := c.client.Set(ctx, reportKey(execID, at), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("put report cache: redis set: %w", err)
	}
	return nil
}
