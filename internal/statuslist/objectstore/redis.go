package objectstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "statuslist:object:"

const (
	fieldBody        = "body"
	fieldContentType = "content_type"
)

// RedisStore keeps each object in a hash with body and content_type fields.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps a configured client. Usage: pass the platform Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Put replaces the whole hash in one transaction so a reader never sees a
// body paired with a stale content type.
func (s *RedisStore) Put(ctx context.Context, container, key string, body []byte, contentType string) error {
	k := redisKey(container, key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, fieldBody, body, fieldContentType, contentType)
		return nil
	})
	if err != nil {
		return storageError(err, "put redis "+k)
	}
	return nil
}

// Get returns the stored body and content type. Missing objects return
// redis.Nil.
func (s *RedisStore) Get(ctx context.Context, container, key string) ([]byte, string, error) {
	vals, err := s.client.HMGet(ctx, redisKey(container, key), fieldBody, fieldContentType).Result()
	if err != nil {
		return nil, "", err
	}
	body, ok := vals[0].(string)
	if !ok {
		return nil, "", redis.Nil
	}
	ct, _ := vals[1].(string)
	return []byte(body), ct, nil
}

func redisKey(container, key string) string {
	return redisKeyPrefix + container + "/" + key
}
