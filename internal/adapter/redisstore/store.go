// Package redisstore persists the most recent assessment in Redis so the
// HTTP surface and other service instances can read it without replaying
// the sink topic.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	httpadapter "github.com/emberwatch/smoke-threat-etl/internal/adapter/http"
	"github.com/emberwatch/smoke-threat-etl/internal/domain"
)

const latestKey = "smoke-threat:assessment:latest"

// Store implements pipeline.SnapshotStore and http.LatestProvider on Redis.
// Snapshots expire after the configured TTL so a stalled pipeline does not
// keep serving stale threat data.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection with a ping.
// A zero ttl defaults to 30 minutes.
func New(addr, password string, db int, ttl time.Duration) (*Store, error) {
	if addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if db < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}
	if ttl == 0 {
		ttl = 30 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}

	return &Store{client: client, ttl: ttl}, nil
}

// SaveLatest stores the assessment under the shared latest-snapshot key.
func (s *Store) SaveLatest(ctx context.Context, a domain.Assessment) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling assessment %q: %w", a.RequestID, err)
	}
	if err := s.client.Set(ctx, latestKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing assessment snapshot: %w", err)
	}
	return nil
}

// Latest returns the newest stored assessment, or http.ErrNoSnapshot if the
// key is absent or expired.
func (s *Store) Latest(ctx context.Context) (domain.Assessment, error) {
	data, err := s.client.Get(ctx, latestKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Assessment{}, httpadapter.ErrNoSnapshot
		}
		return domain.Assessment{}, fmt.Errorf("reading assessment snapshot: %w", err)
	}

	var a domain.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return domain.Assessment{}, fmt.Errorf("unmarshaling assessment snapshot: %w", err)
	}
	return a, nil
}

// Ping checks the Redis connection health.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client. Safe to call multiple times and safe to
// race with in-flight operations: the client is never nil-ed, so a snapshot
// write racing shutdown gets a "client is closed" error instead of a panic.
func (s *Store) Close() error {
	err := s.client.Close()
	if err != nil && err.Error() == "redis: client is closed" {
		return nil
	}
	return err
}
