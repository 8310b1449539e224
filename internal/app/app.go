package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"celebrisaludos/internal/assist"
	"celebrisaludos/internal/cache"
	"celebrisaludos/internal/catalog"
	"celebrisaludos/internal/config"
	"celebrisaludos/internal/database"
	"celebrisaludos/internal/events"
	"celebrisaludos/internal/repository"
	"celebrisaludos/internal/repository/kv"
	"celebrisaludos/internal/service"
	"celebrisaludos/internal/storage"
)

// Runtime holds the opened backends. DB and Redis are nil when the
// configuration does not need them.
type Runtime struct {
	Accounts  repository.AccountStore
	Requests  repository.RequestStore
	Publisher events.Publisher
	DB        *pgxpool.Pool
	Redis     *redis.Client
}

// Open connects the persistence driver and, when events are enabled, the stream.
func Open(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*Runtime, error) {
	rt := &Runtime{}

	if cfg.Persistence.Driver == config.DriverRedis || cfg.Events.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		rt.Redis = client
	}

	switch cfg.Persistence.Driver {
	case config.DriverMemory:
		rt.useKV(kv.NewMemoryBackend(), cfg)
	case config.DriverRedis:
		rt.useKV(kv.NewRedisBackend(rt.Redis), cfg)
	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			rt.Close(log)
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.DB = pool
		if err := database.Migrate(ctx, pool, log); err != nil {
			rt.Close(log)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		rt.Accounts = repository.NewAccountRepository(pool)
		rt.Requests = repository.NewRequestRepository(pool)
	default:
		rt.Close(log)
		return nil, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}

	if cfg.Events.Enabled {
		rt.Publisher = events.NewStreamPublisher(rt.Redis, cfg.Events.Stream)
	}

	log.Info().
		Str("driver", cfg.Persistence.Driver).
		Bool("events", cfg.Events.Enabled).
		Msg("persistence ready")
	return rt, nil
}

func (rt *Runtime) useKV(backend kv.Backend, cfg *config.AppConfig) {
	opts := kv.Options{
		Namespace: cfg.Persistence.Namespace,
		Latency:   cfg.Persistence.SimulatedLatency,
	}
	rt.Accounts = kv.NewAccountStore(backend, opts)
	rt.Requests = kv.NewRequestStore(backend, opts)
}

func (rt *Runtime) Close(log zerolog.Logger) {
	if rt.DB != nil {
		rt.DB.Close()
	}
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
	}
}

type Services struct {
	Auth     *service.AuthService
	Requests *service.RequestService
	Assist   *assist.Gateway
	Catalog  *catalog.Catalog
}

// BuildServices seeds the admin account and wires the assist gateway.
// Concept images are uploaded only when storage is configured.
func BuildServices(ctx context.Context, cfg *config.AppConfig, rt *Runtime, log zerolog.Logger) (Services, error) {
	admin, err := service.NewAdminAccount(cfg.Admin.ID, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password)
	if err != nil {
		return Services{}, err
	}

	auth := service.NewAuthService(rt.Accounts, admin, log.With().Str("component", "auth").Logger())
	if err := auth.Init(ctx); err != nil {
		return Services{}, err
	}

	packages := catalog.FromConfig(cfg.Catalog.Packages)
	requests := service.NewRequestService(rt.Requests, packages, rt.Publisher, log.With().Str("component", "requests").Logger())

	var images assist.ImageStore
	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			return Services{}, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Warn().Err(err).Msg("ensure concept bucket failed, images stay inline")
		} else {
			images = store
		}
	}

	var provider assist.Provider
	if client := assist.NewGeminiClient(cfg.Assist); client != nil {
		provider = client
	} else {
		log.Warn().Msg("assist api key not set, using canned suggestions")
	}
	gateway := assist.NewGateway(provider, images, log.With().Str("component", "assist").Logger())

	return Services{
		Auth:     auth,
		Requests: requests,
		Assist:   gateway,
		Catalog:  packages,
	}, nil
}
