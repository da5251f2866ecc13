package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/ideabox-api/internal/config"
	"github.com/jwalitptl/ideabox-api/internal/repository"
	"github.com/jwalitptl/ideabox-api/internal/repository/memory"
	"github.com/jwalitptl/ideabox-api/internal/repository/mongodb"
	"github.com/jwalitptl/ideabox-api/internal/repository/postgres"
	redisrepo "github.com/jwalitptl/ideabox-api/internal/repository/redis"
	"github.com/jwalitptl/ideabox-api/pkg/logger"
)

// bootstrap loads configuration and installs the process logger.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	l := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})
	log.Logger = l.Zerolog()
	return cfg, l, nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*repository.Store, error) {
	switch cfg.Driver {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Name,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		return mongodb.NewStore(client, db), nil
	case "postgres":
		db, err := postgres.NewDB(ctx, postgresConfig(cfg.Postgres))
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	case "memory":
		log.Warn().Msg("using in-memory store, data will not survive a restart")
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func postgresConfig(cfg config.PostgresConfig) postgres.Config {
	return postgres.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Name:     cfg.Name,
		SSLMode:  cfg.SSLMode,
	}
}

// redisDeps is the token denylist plus what serve needs to probe and close
// its backend.
type redisDeps struct {
	revocations repository.RevocationStore
	pinger      repository.Pinger
	close       func() error
}

// openRevocations falls back to a per-process denylist without Redis; pinger
// is nil then.
func openRevocations(ctx context.Context, cfg config.RedisConfig) (*redisDeps, error) {
	if !cfg.Enabled {
		return &redisDeps{
			revocations: memory.NewRevocationStore(),
			close:       func() error { return nil },
		}, nil
	}

	client, err := redisrepo.NewClient(ctx, redisrepo.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})
	if err != nil {
		return nil, err
	}
	return &redisDeps{
		revocations: redisrepo.NewRevocationStore(client),
		pinger: repository.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}),
		close: client.Close,
	}, nil
}
