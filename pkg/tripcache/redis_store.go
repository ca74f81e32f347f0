package tripcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trip-assistant-be/pkg/travel"
)

const redisKeyPrefix = "tripcache:user:"

// RedisStore keeps each document as one JSON string value
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(userID string) string {
	return redisKeyPrefix + userID
}

func (s *RedisStore) Load(ctx context.Context, userID string) (*TripCache, error) {
	raw, err := s.rdb.Get(ctx, redisKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", userID, travel.ErrPersistence, err)
	}
	var c TripCache
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", userID, ErrCorrupt, err)
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *TripCache) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w: %w", c.UserID, travel.ErrPersistence, err)
	}
	if err := s.rdb.Set(ctx, redisKey(c.UserID), raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w: %w", c.UserID, travel.ErrPersistence, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("del %s: %w: %w", userID, travel.ErrPersistence, err)
	}
	return nil
}

// DeleteAll scans the key prefix so unrelated keys are left alone
func (s *RedisStore) DeleteAll(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("del batch: %w: %w", travel.ErrPersistence, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan: %w: %w", travel.ErrPersistence, err)
	}
	if len(batch) > 0 {
		if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("del batch: %w: %w", travel.ErrPersistence, err)
		}
	}
	return nil
}
