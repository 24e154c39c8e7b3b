package cache

import (
	"context"
	"log/slog"
	"time"

	"membership/config"
	"membership/internal/domain/lifecycle"
	"membership/internal/domain/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// noopMemberListCache always misses.
type noopMemberListCache struct{}

// NewNoopMemberListCache returns a cache that stores nothing.
func NewNoopMemberListCache() service.MemberListCache {
	return noopMemberListCache{}
}

func (noopMemberListCache) Generation(context.Context, string) (int64, error) {
	return 0, nil
}

func (noopMemberListCache) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (noopMemberListCache) Set(context.Context, string, string, int64, []byte, time.Duration) error {
	return nil
}

func (noopMemberListCache) InvalidateNamespace(context.Context, string) error {
	return nil
}

// Params holds dependencies for the member list cache, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New picks the redis cache when cache.enabled is set and the no-op cache otherwise.
// An unreachable redis at start is logged, not fatal: the listing falls back to the store.
func New(params Params) service.MemberListCache {
	cfg := params.Config.Cache
	logger := params.Logger

	if cfg == nil || !cfg.Enabled {
		logger.Info("Member list cache disabled")

		return NewNoopMemberListCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis unreachable, member listing will read through to the store",
					slog.String("addr", cfg.Addr),
					slog.Any("error", err),
				)
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	logger.Info("Using redis member list cache",
		slog.String("addr", cfg.Addr),
		slog.Duration("ttl", cfg.TTL),
	)

	return NewRedisMemberListCache(client, cfg.Prefix)
}

// Module provides the cache FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(New),
)
