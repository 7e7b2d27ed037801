package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/hatebu/internal/bookmark"
	"github.com/MrSnakeDoc/hatebu/internal/config"
	"github.com/MrSnakeDoc/hatebu/internal/dates"
	"github.com/MrSnakeDoc/hatebu/internal/idgen"
	"github.com/MrSnakeDoc/hatebu/internal/kv"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
	"github.com/MrSnakeDoc/hatebu/internal/redis"
	redisstore "github.com/MrSnakeDoc/hatebu/internal/store/redis"
)

// Backend is an opened KV store plus the repository built on it.
type Backend struct {
	Store      kv.Store
	Repository *bookmark.Repository
	Dates      *dates.Normalizer

	close func() error
}

// Close releases the underlying store connection.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend connects the store selected by cfg.Store and builds the
// bookmark repository on top of it.
func OpenBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backend, error) {
	normalizer, err := dates.NewInZone(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid HATEBU_TIMEZONE: %w", err)
	}

	mode, err := idgen.ParseMode(cfg.IDMode)
	if err != nil {
		return nil, fmt.Errorf("invalid HATEBU_ID_MODE: %w", err)
	}

	b := &Backend{Dates: normalizer}

	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store, bookmarks are lost on exit")
		mem := kv.NewMemory()
		b.Store, b.close = mem, mem.Close

	case config.StoreRedis:
		log.Info("connecting to redis", logger.String("addr", cfg.RedisAddr))
		client, err := redis.Connect(ctx, redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		b.Store, b.close = redisstore.NewStore(client, cfg.RedisScanCount), client.Close

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	b.Repository = bookmark.NewRepository(b.Store, normalizer,
		bookmark.WithIDGenerator(idgen.New(mode)),
		bookmark.WithLogger(log.With(logger.String("component", "bookmark"))),
	)

	return b, nil
}
