package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/formguard/pkg/config"
	"github.com/dmitrymomot/formguard/pkg/logger"
	"github.com/dmitrymomot/formguard/pkg/mongo"
	"github.com/dmitrymomot/formguard/pkg/pg"
	"github.com/dmitrymomot/formguard/pkg/redis"
	"github.com/dmitrymomot/formguard/pkg/validation"
)

// stateBackend is the option-set store selected by STATE_BACKEND together
// with its readiness probe and cleanup.
type stateBackend struct {
	name  string
	store validation.StateStore
	check func(context.Context) error
	purge func(context.Context, time.Duration) (int64, error)
	close func()
}

func openState(ctx context.Context, cfg appConfig, log *slog.Logger) (*stateBackend, error) {
	switch cfg.StateBackend {
	case "", "memory":
		return &stateBackend{name: "memory", store: validation.NewMemoryStateStore(), close: func() {}}, nil

	case "redis":
		var rc redis.Config
		if err := config.Load(&rc); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return nil, err
		}
		return &stateBackend{
			name:  "redis",
			store: redis.NewStateStore(client, rc),
			check: redis.Healthcheck(client),
			close: func() {
				if err := client.Close(); err != nil {
					log.Error("close redis client", logger.Error(err))
				}
			},
		}, nil

	case "postgres":
		var pc pg.Config
		if err := config.Load(&pc); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pc)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, pc, log); err != nil {
			pool.Close()
			return nil, err
		}
		store := pg.NewStateStore(pool)
		return &stateBackend{
			name:  "postgres",
			store: store,
			check: pg.Healthcheck(pool),
			purge: func(ctx context.Context, age time.Duration) (int64, error) {
				return store.PurgeOlderThan(ctx, age.Seconds())
			},
			close: pool.Close,
		}, nil

	case "mongo":
		var mc mongo.Config
		if err := config.Load(&mc); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, mc)
		if err != nil {
			return nil, err
		}
		return &stateBackend{
			name:  "mongo",
			store: mongo.NewStateStore(mongo.Collection(client, mc)),
			check: mongo.Healthcheck(client),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error("disconnect mongo client", logger.Error(err))
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}
