package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/cache"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/calendarexport"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/messaging"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/builtin"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/registry"
	"github.com/felixgeelhaar/shiftsched/internal/scheduling/solverplugin/sdk"
	"github.com/felixgeelhaar/shiftsched/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/shiftsched/internal/shared/infrastructure/database/sqlite" // registers the sqlite driver
	"github.com/felixgeelhaar/shiftsched/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/shiftsched/pkg/config"
)

// Container holds all application dependencies. This module has a single
// persisted aggregate (the solve Snapshot/Result pair), so the repository
// layer collapses to one SnapshotStore; in place of per-feature command
// handlers, callers resolve a solver backend from the registry per solve.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DB       *pgxpool.Pool
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repository
	SnapshotStore persistence.SnapshotStore

	// Publishers
	EventPublisher    eventbus.Publisher
	SolveEvents       *messaging.EventPublisher
	ResultCache       *cache.ResultCache
	CalendarPublisher *calendarexport.Publisher

	// Solver backends
	Registry *registry.Registry
}

// NewContainer creates a container backed by PostgreSQL, Redis, and
// RabbitMQ, wiring every optional service present in cfg.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	c.DB = pool
	c.DBDriver = database.DriverPostgres
	logger.Info("connected to database")

	c.SnapshotStore = persistence.NewPostgresSnapshotStore(pool, cfg.ReportingDSN)

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, result caching disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					pool.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, result caching disabled", "error", err)
			} else {
				c.RedisClient = redisClient
				c.ResultCache = cache.NewResultCache(redisClient, cfg.ResultCacheTTL)
				logger.Info("connected to Redis")
			}
		}
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	} else {
		c.EventPublisher = publisher
	}
	c.SolveEvents = messaging.NewEventPublisher(c.EventPublisher)

	if cfg.CalendarExportEnabled {
		c.CalendarPublisher = calendarexport.NewPublisher(cfg.CalendarExportBaseURL)
	}

	reg, err := newRegistry(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	c.Registry = reg

	return c, nil
}

// Close releases every resource NewContainer or NewLocalContainer opened.
func (c *Container) Close() {
	if c.Registry != nil {
		if err := c.Registry.ShutdownAll(context.Background()); err != nil {
			c.Logger.Warn("error shutting down solver backends", "error", err)
		}
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	if c.DBConn != nil && c.DBDriver == database.DriverSQLite {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}

// NewDevelopmentContainer creates a container with no external services,
// useful for exercising the CLI structure without a database.
func NewDevelopmentContainer(logger *slog.Logger) *Container {
	cfg := &config.Config{AppEnv: "development"}
	c := &Container{
		Config:         cfg,
		Logger:         logger,
		EventPublisher: eventbus.NewNoopPublisher(logger),
	}

	reg := registry.New(logger)
	if err := builtin.RegisterDefaults(context.Background(), reg, 0); err != nil {
		logger.Warn("failed to register builtin solver backends", "error", err)
	}
	c.Registry = reg

	return c
}

// NewLocalContainer creates a container for local mode with SQLite,
// providing zero-config operation without PostgreSQL, Redis, or RabbitMQ.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = database.DriverSQLite

	factory := NewRepositoryFactory(conn, "")
	store, err := factory.SnapshotStore()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to build snapshot store: %w", err)
	}
	sqliteStore, ok := store.(*persistence.SQLiteSnapshotStore)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("expected sqlite snapshot store, got %T", store)
	}
	if err := sqliteStore.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	c.SnapshotStore = sqliteStore

	c.EventPublisher = eventbus.NewNoopPublisher(logger)
	c.SolveEvents = messaging.NewEventPublisher(c.EventPublisher)

	if cfg.CalendarExportEnabled {
		c.CalendarPublisher = calendarexport.NewPublisher(cfg.CalendarExportBaseURL)
	}

	reg, err := newRegistry(ctx, cfg, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c.Registry = reg

	logger.Info("local mode initialized", "database", cfg.SQLitePath)

	return c, nil
}

// newRegistry registers the builtin solver backends and, if cfg carries a
// plugin directory, discovers and loads any external backends found there.
func newRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*registry.Registry, error) {
	reg := registry.New(logger)
	if err := builtin.RegisterDefaults(ctx, reg, cfg.SolverGreedyNodeLimit); err != nil {
		return nil, fmt.Errorf("failed to register builtin solver backends: %w", err)
	}

	if cfg.SolverPluginDir == "" {
		return reg, nil
	}

	discovery := registry.NewDiscovery([]string{cfg.SolverPluginDir}, logger)
	manifests, err := discovery.Discover()
	if err != nil {
		logger.Warn("solver plugin discovery failed", "dir", cfg.SolverPluginDir, "error", err)
		return reg, nil
	}

	loader := registry.NewLoader(logger)
	for _, m := range manifests {
		manifest := m.Manifest
		factory := func() (sdk.BackendPlugin, error) {
			return loader.Load(ctx, registry.LoadOptions{Manifest: manifest})
		}
		if err := reg.RegisterFactory(manifest.ID, factory, manifest); err != nil {
			logger.Warn("failed to register discovered solver plugin", "id", manifest.ID, "error", err)
		}
	}

	return reg, nil
}
