// Package main is the entry point of the learning portal API.
//
// It wires the session store, the course catalog and the façade to the
// HTTP server, selecting backends from the environment (see config.Load).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alem-hub/learning-portal/config"
	"github.com/alem-hub/learning-portal/internal/application/guard"
	"github.com/alem-hub/learning-portal/internal/application/portal"
	"github.com/alem-hub/learning-portal/internal/application/session"
	"github.com/alem-hub/learning-portal/internal/domain/course"
	domain "github.com/alem-hub/learning-portal/internal/domain/session"
	"github.com/alem-hub/learning-portal/internal/infrastructure/persistence/fixture"
	"github.com/alem-hub/learning-portal/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/learning-portal/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/learning-portal/internal/infrastructure/persistence/redis"
	httpserver "github.com/alem-hub/learning-portal/internal/interface/http"
	"github.com/alem-hub/learning-portal/internal/interface/http/handlers"
	"github.com/alem-hub/learning-portal/pkg/logger"
	"github.com/alem-hub/learning-portal/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration & logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Log.Level),
		AddCaller: cfg.Log.AddCaller || cfg.IsDevelopment(),
	})
	log.Info("starting learning portal",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("session_backend", cfg.Session.Backend),
		logger.String("course_source", cfg.Courses.Source),
	)

	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.SetTimeout(cfg.HTTP.HealthTimeout)
	connector := retry.StartupRetrier(func(attempt int, err error, delay time.Duration) {
		log.Error("connection attempt failed",
			logger.Int("attempt", attempt),
			logger.Err(err),
			logger.Duration("retry_in", delay),
		)
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 2. PostgreSQL (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var db *postgres.Connection
	if cfg.NeedsPostgres() {
		log.Info("connecting to database...")
		db, err = retry.DoWithData(ctx, connector, func(ctx context.Context) (*postgres.Connection, error) {
			conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
			if errors.Is(err, postgres.ErrInvalidURL) {
				return nil, retry.Permanent(err)
			}
			return conn, err
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			db.Close()
		}()

		if cfg.Database.MigrateOnStart {
			applied, err := postgres.NewMigrator(db).Migrate(ctx)
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("database schema is up to date", logger.Int("applied", applied))
		}
		health.AddCheck("postgres", handlers.NewPingCheck(db))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Redis (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var cache *redis.Cache
	if cfg.NeedsRedis() {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize

		log.Info("connecting to Redis...", logger.String("addr", redisCfg.Addr()))
		cache, err = retry.DoWithData(ctx, connector, func(ctx context.Context) (*redis.Cache, error) {
			return redis.NewCache(ctx, redisCfg)
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			log.Info("closing Redis connection...")
			_ = cache.Close()
		}()
		health.AddCheck("redis", handlers.NewPingCheck(cache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Session store & course catalog
	// ─────────────────────────────────────────────────────────────────────────
	storage := sessionStorage(cfg, db, cache)
	store := session.NewStore(storage, cfg.Session.Key, log.With(logger.Component("session")))
	log.Info("session store ready", logger.StorageKey(store.Key()))

	courses, err := courseRepository(ctx, cfg, db, cache, health, log)
	if err != nil {
		return err
	}

	delays := portal.Delays{
		Login:          cfg.Latency.Login,
		ListCourses:    cfg.Latency.ListCourses,
		GetCourse:      cfg.Latency.GetCourse,
		SubmitQuiz:     cfg.Latency.SubmitQuiz,
		SubmitFeedback: cfg.Latency.SubmitFeedback,
	}
	if !cfg.Latency.Enabled {
		delays = portal.NoDelays()
	}

	facade := portal.NewFacade(store, courses, log, portal.WithDelays(delays))
	routeGuard := guard.New(store, guard.DefaultPublicViews(), log)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	serverCfg.Version = cfg.App.Version

	server := httpserver.NewServer(serverCfg, httpserver.Dependencies{
		Facade:        facade,
		Guard:         routeGuard,
		HealthChecker: health,
		Logger:        log,
	})
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("learning portal stopped")
	return nil
}

func sessionStorage(cfg *config.Config, db *postgres.Connection, cache *redis.Cache) domain.Storage {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		return redis.NewSessionStorage(cache, cfg.Session.TTL)
	case config.BackendPostgres:
		return postgres.NewSessionStorage(db)
	default:
		return memory.NewStorage()
	}
}

func courseRepository(ctx context.Context, cfg *config.Config, db *postgres.Connection, cache *redis.Cache, health *handlers.CompositeHealthChecker, log *logger.Logger) (course.Repository, error) {
	catalog := fixture.Courses()
	var repo course.Repository = fixture.NewRepository()
	if cfg.Courses.FixtureFile != "" {
		loaded, err := fixture.LoadFile(cfg.Courses.FixtureFile)
		if err != nil {
			return nil, err
		}
		catalog = loaded
		repo = fixture.NewRepositoryWith(catalog)
		log.Info("course catalog loaded", logger.String("file", cfg.Courses.FixtureFile), logger.Int("count", len(catalog)))
	}

	if cfg.Courses.Source == config.SourcePostgres {
		pgRepo := postgres.NewCourseRepository(db)
		if cfg.Courses.SeedOnStart {
			n, err := pgRepo.CountCourses(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to count courses: %w", err)
			}
			if n == 0 {
				if err := pgRepo.SeedCourses(ctx, catalog); err != nil {
					return nil, fmt.Errorf("failed to seed courses: %w", err)
				}
				log.Info("course catalog seeded", logger.Int("count", len(catalog)))
			}
		}
		repo = pgRepo
	}

	if cfg.Courses.CacheEnabled && cache != nil {
		cached := redis.NewCourseCache(cache, repo, cfg.Courses.CacheTTL, log)
		// entries from a previous catalog must not outlive a restart
		if err := cached.Invalidate(ctx); err != nil {
			log.Error("course cache invalidation failed", logger.Err(err))
		}
		health.AddCheck("course_cache", handlers.NewPingCheck(cached))
		repo = cached
	}

	return repo, nil
}
