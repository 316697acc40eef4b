package timeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"caseline/internal/complaint/models"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

const (
	timelineKeyPrefix = "case:timeline:"
	markerValue       = "1"
)

// RedisStore persists timeline logs as one Redis list of JSON entries per
// complaint. RPUSH/LRANGE give insertion order for free; a marker key makes
// log existence explicit so appends to never-created complaints fail instead
// of silently materializing a log.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed timeline store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func entriesKey(id domain.ComplaintID) string { return timelineKeyPrefix + id.String() + ":entries" }
func markerKey(id domain.ComplaintID) string  { return timelineKeyPrefix + id.String() }

// EnsureLog creates the complaint's log marker if absent. Idempotent
// (SETNX).
func (s *RedisStore) EnsureLog(ctx context.Context, id domain.ComplaintID) error {
	if err := s.client.SetNX(ctx, markerKey(id), markerValue, 0).Err(); err != nil {
		return fmt.Errorf("ensure timeline log: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Append adds an entry at the tail of the complaint's log.
func (s *RedisStore) Append(ctx context.Context, entry models.TimelineEntry) error {
	exists, err := s.client.Exists(ctx, markerKey(entry.ComplaintID)).Result()
	if err != nil {
		return fmt.Errorf("check timeline log: %w: %w", sentinel.ErrUnavailable, err)
	}
	if exists == 0 {
		return sentinel.ErrNotFound
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode timeline entry: %w", err)
	}
	if err := s.client.RPush(ctx, entriesKey(entry.ComplaintID), payload).Err(); err != nil {
		return fmt.Errorf("append timeline entry: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// List returns all entries in insertion order.
func (s *RedisStore) List(ctx context.Context, id domain.ComplaintID) ([]models.TimelineEntry, error) {
	exists, err := s.client.Exists(ctx, markerKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("check timeline log: %w: %w", sentinel.ErrUnavailable, err)
	}
	if exists == 0 {
		return nil, sentinel.ErrNotFound
	}

	raw, err := s.client.LRange(ctx, entriesKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read timeline log: %w: %w", sentinel.ErrUnavailable, err)
	}

	out := make([]models.TimelineEntry, 0, len(raw))
	for _, item := range raw {
		var entry models.TimelineEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("decode timeline entry: %w", err)
		}
		out = append(out, entry)
	}
	return out, nil
}
