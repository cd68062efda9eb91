package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/config"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/kvstore"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/storage/postgres"
	"github.com/redis/go-redis/v9"
)

// OpenStore opens the key-value backend selected by cfg.Storage.Backend.
func OpenStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return kvstore.NewMemoryStore(cfg.Storage.MemoryQuotaBytes), nil

	case config.BackendRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return kvstore.NewRedisStore(client, cfg.Redis.ChangeChannel), nil

	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		store := kvstore.NewPostgresStore(db, cfg.Database.Table,
			kvstore.WithNotifyChannel(cfg.Database.NotifyChannel),
			kvstore.WithListenDSN(postgres.DSN(&cfg.Database)),
		)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// OpenRedis connects to redis and verifies the connection.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
