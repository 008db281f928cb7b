package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis returns a client pointing at a closed port, so every cache
// operation fails. GetOrLoad must still serve reads via the loader.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestGetOrLoadFallsThroughWhenCacheUnavailable(t *testing.T) {
	cache := NewCacheService(unreachableRedis(), silentLogger())

	var dest string
	err := cache.GetOrLoad(context.Background(), "patient:x", CacheTTLPatient, &dest, func() error {
		dest = "loaded"
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "loaded", dest)
}

func TestGetOrLoadPropagatesLoaderError(t *testing.T) {
	cache := NewCacheService(unreachableRedis(), silentLogger())
	wantErr := errors.New("not found")

	var dest string
	err := cache.GetOrLoad(context.Background(), "patient:x", CacheTTLPatient, &dest, func() error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
}

func TestInvalidateToleratesCacheFailure(t *testing.T) {
	cache := NewCacheService(unreachableRedis(), silentLogger())

	// Must not panic or block; failures are only logged.
	cache.Invalidate(context.Background(), "patient:x", "appointment:y")
	cache.Invalidate(context.Background())
}
