package radiograph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/radiographapp/backend/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// DetailCache holds rendered record details (with follow-ups resolved) for a
// short TTL. It is advisory: any Redis failure falls back to the store.
type DetailCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDetailCache(client *redis.Client, ttl time.Duration) *DetailCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &DetailCache{client: client, ttl: ttl}
}

func detailKey(ownerID, id uuid.UUID) string {
	return fmt.Sprintf("radiograph:detail:%s:%s", ownerID, id)
}

func (c *DetailCache) Get(ctx context.Context, ownerID, id uuid.UUID) (*Record, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, detailKey(ownerID, id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Debug("detail cache read failed")
		}
		return nil, false
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		logger.Log.WithError(err).Warn("detail cache entry corrupt")
		return nil, false
	}
	return &rec, true
}

func (c *DetailCache) Set(ctx context.Context, ownerID uuid.UUID, rec *Record) {
	if c == nil || rec == nil {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, detailKey(ownerID, rec.ID), raw, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Debug("detail cache write failed")
	}
}

func (c *DetailCache) Invalidate(ctx context.Context, ownerID uuid.UUID, ids ...uuid.UUID) {
	if c == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, detailKey(ownerID, id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).Debug("detail cache invalidation failed")
	}
}
