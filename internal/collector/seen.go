package collector

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenCache remembers ids that already reached a terminal outcome so
// overlapping re-sweeps skip the remote fetch entirely.
type SeenCache interface {
	Seen(ctx context.Context, id int64) (bool, error)
	Mark(ctx context.Context, id int64) error
}

const (
	seenKey = "vacancy:seen"
	seenTTL = 7 * 24 * time.Hour
)

// RedisSeen is a Redis-set-backed SeenCache shared between runs.
type RedisSeen struct {
	client *redis.Client
}

func NewRedisSeen(client *redis.Client) *RedisSeen {
	return &RedisSeen{client: client}
}

func (s *RedisSeen) Seen(ctx context.Context, id int64) (bool, error) {
	return s.client.SIsMember(ctx, seenKey, strconv.FormatInt(id, 10)).Result()
}

func (s *RedisSeen) Mark(ctx context.Context, id int64) error {
	if err := s.client.SAdd(ctx, seenKey, strconv.FormatInt(id, 10)).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, seenKey, seenTTL).Err()
}
