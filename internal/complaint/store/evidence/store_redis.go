package evidence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"caseline/internal/complaint/models"
	"caseline/pkg/domain"
	"caseline/pkg/platform/sentinel"
)

const evidenceKeyPrefix = "case:evidence:"

// RedisStore persists evidence collections as one Redis list of JSON items
// per complaint.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed evidence store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func itemsKey(id domain.ComplaintID) string { return evidenceKeyPrefix + id.String() }

// Append adds an evidence item at the tail of the complaint's collection.
func (s *RedisStore) Append(ctx context.Context, item models.EvidenceItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode evidence item: %w", err)
	}
	if err := s.client.RPush(ctx, itemsKey(item.ComplaintID), payload).Err(); err != nil {
		return fmt.Errorf("append evidence item: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// List returns all evidence items in insertion order.
func (s *RedisStore) List(ctx context.Context, id domain.ComplaintID) ([]models.EvidenceItem, error) {
	raw, err := s.client.LRange(ctx, itemsKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read evidence items: %w: %w", sentinel.ErrUnavailable, err)
	}

	out := make([]models.EvidenceItem, 0, len(raw))
	for _, item := range raw {
		var e models.EvidenceItem
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("decode evidence item: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
