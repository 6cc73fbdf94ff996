package cache

import (
	"context"

	"github.com/stockroom/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns a redis store when redis is enabled and reachable. Otherwise it
// falls back to process memory and logs why.
func New(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) Store {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		log.Info("redis disabled, using in-memory cache")
		return NewMemoryStore()
	}
	store, err := NewRedisStore(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory cache; "+
			"profile changes will only be seen by this instance after the cache TTL",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewMemoryStore()
	}
	log.Info("using redis cache", zap.String("addr", cfg.Addr()))
	return store
}
