package userlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

const (
	defaultLeaseTTL     = 15 * time.Second
	defaultPollInterval = 50 * time.Millisecond
	keyPrefix           = "speaking-practice:userlock:"
)

// unlockScript deletes the key only while it still carries our token, so an
// expired lease re-acquired by another holder is never released by us.
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisConfig struct {
	TTL          time.Duration
	PollInterval time.Duration
}

type redisLocker struct {
	rdb  goredis.UniversalClient
	log  *logger.Logger
	ttl  time.Duration
	poll time.Duration
}

// NewRedis returns a Locker backed by SET NX PX leases. A holder that outlives
// the TTL loses the lock, so TTL must exceed the longest critical section.
func NewRedis(rdb goredis.UniversalClient, log *logger.Logger, cfg RedisConfig) Locker {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultLeaseTTL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &redisLocker{rdb: rdb, log: log.With("component", "RedisUserLock"), ttl: cfg.TTL, poll: cfg.PollInterval}
}

func (l *redisLocker) Lock(ctx context.Context, userID uuid.UUID) (func(), error) {
	if l.rdb == nil {
		return nil, errors.New("userlock: redis client is nil")
	}
	key := keyPrefix + userID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("userlock: acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release must not depend on the request context, which may already be done
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := unlockScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
				l.log.Warn("userlock release failed", "key", key, "error", err)
			}
		})
	}, nil
}
