package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrDoctorLocked is returned when another request currently holds the
// scheduling lock for the same doctor.
var ErrDoctorLocked = errors.New("doctor schedule is locked by another request")

// DoctorLockService serializes the conflict-check-then-insert section of
// scheduling per doctor. The database transaction alone does not prevent
// write skew on the overlap predicate at READ COMMITTED, so the usecase takes
// this advisory lock for the duration of the check and write.
type DoctorLockService struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewDoctorLockService(redisClient *redis.Client, ttl time.Duration) *DoctorLockService {
	return &DoctorLockService{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

// unlockScript releases the lock only when the caller still owns it, so an
// expired lock taken over by another request is never deleted.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// DoctorLockKey builds the Redis key guarding a doctor's schedule.
func DoctorLockKey(doctorID uuid.UUID) string {
	return fmt.Sprintf("lock:doctor:%s", doctorID)
}

// WithDoctorLock runs fn while holding the doctor's scheduling lock. The lock
// context carries the lock TTL as a deadline, so fn cannot outlive the lock.
// Contention surfaces as ErrDoctorLocked rather than blocking.
func (s *DoctorLockService) WithDoctorLock(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context) error) error {
	key := DoctorLockKey(doctorID)
	token := uuid.NewString()

	ok, err := s.redisClient.SetNX(ctx, key, token, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire doctor lock: %w", err)
	}
	if !ok {
		return ErrDoctorLocked
	}

	defer func() {
		_ = s.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, s.ttl)
	defer cancel()

	return fn(lockCtx)
}

func (s *DoctorLockService) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, s.redisClient, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release doctor lock: %w", err)
	}
	return nil
}
