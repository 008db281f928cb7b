package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache key prefixes and TTLs for the read-through cache.
const (
	CacheKeyPatientPrefix     = "patient:"
	CacheKeyAppointmentPrefix = "appointment:"

	CacheTTLPatient     = 30 * time.Minute
	CacheTTLAppointment = 15 * time.Minute
)

// CacheService is a cache-aside read-through wrapper over Redis. Cache
// failures are logged and fall through to the loader; the cache never turns a
// read into an error.
type CacheService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewCacheService(redisClient *redis.Client, log *logrus.Logger) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		log:         log,
	}
}

// GetOrLoad fills dest from the cached JSON value under key if present.
// Otherwise it invokes load, which must fill dest, and stores the result with
// the given TTL. dest must be a pointer.
func (s *CacheService) GetOrLoad(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func() error) error {
	cached, err := s.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(cached, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry, drop it and reload.
		s.redisClient.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warnf("Cache read failed for %s: %+v", key, err)
	}

	if err := load(); err != nil {
		return err
	}

	data, err := json.Marshal(dest)
	if err != nil {
		s.log.Warnf("Failed to marshal cache value for %s: %+v", key, err)
		return nil
	}
	if err := s.redisClient.Set(ctx, key, data, ttl).Err(); err != nil {
		s.log.Warnf("Cache write failed for %s: %+v", key, err)
	}
	return nil
}

// Invalidate removes keys after a write; failures are logged, never fatal.
func (s *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Cache invalidation failed for %v: %+v", keys, err)
	}
}
