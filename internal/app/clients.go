package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
	"github.com/yungbote/speaking-practice-backend/internal/platform/openai"
)

type Clients struct {
	// Redis is nil unless REDIS_ADDR is set.
	Redis      goredis.UniversalClient
	AudioStore AudioStore
	// Scoring is nil when no scoring API key is configured.
	Scoring openai.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var rdb goredis.UniversalClient
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		c, err := newRedisClient(ctx, cfg)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		rdb = c
	}

	store, err := resolveAudioStore(ctx, log, cfg)
	if err != nil {
		closeRedis(rdb)
		return Clients{}, fmt.Errorf("init audio storage: %w", err)
	}

	var scoring openai.Client
	if cfg.Scoring.Configured() {
		c, err := openai.NewClient(log, cfg.Scoring)
		if err != nil {
			_ = store.Close()
			closeRedis(rdb)
			return Clients{}, fmt.Errorf("init scoring client: %w", err)
		}
		scoring = c
	} else {
		log.Warn("Scoring API key not set; assessments will be marked unavailable")
	}

	return Clients{
		Redis:      rdb,
		AudioStore: store,
		Scoring:    scoring,
	}, nil
}

func newRedisClient(ctx context.Context, cfg Config) (goredis.UniversalClient, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        strings.TrimSpace(cfg.RedisAddr),
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func closeRedis(rdb goredis.UniversalClient) {
	if rdb != nil {
		_ = rdb.Close()
	}
}

func (c Clients) Close() error {
	var errs []error
	if c.AudioStore != nil {
		errs = append(errs, c.AudioStore.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	return errors.Join(errs...)
}
