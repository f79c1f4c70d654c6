// @title Tennis Prediction API
// @version 1.0
// @description Predicts the winner of a tennis match from tournament, round and player features.
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openmohaa/tennis-pred/internal/config"
	"github.com/openmohaa/tennis-pred/internal/handlers"
	"github.com/openmohaa/tennis-pred/internal/inference"
	"github.com/openmohaa/tennis-pred/internal/logic"
	"github.com/openmohaa/tennis-pred/internal/lookup"
	"github.com/openmohaa/tennis-pred/internal/session"
	"github.com/openmohaa/tennis-pred/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		var loadErr *lookup.LoadError
		if errors.As(err, &loadErr) {
			logger.Fatal("Failed to load lookup tables", zap.String("path", loadErr.Path), zap.Error(loadErr.Err))
		}
		logger.Fatal("Server exited with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()

	tables, err := lookup.Load(cfg.IDsDir)
	if err != nil {
		return err
	}
	sugar.Infow("Lookup tables loaded",
		"dir", cfg.IDsDir,
		"tournaments", len(tables.TournamentNames()),
		"players", len(tables.PlayerNames()),
		"vectorWidth", tables.VectorWidth(),
	)

	engine, err := newEngine(cfg, tables)
	if err != nil {
		return err
	}

	checks := map[string]handlers.CheckFunc{
		"model": engine.Ping,
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()
	checks["session"] = sessions.Ping

	sinks, closeSinks, err := openSinks(ctx, cfg, sugar)
	if err != nil {
		return err
	}
	defer closeSinks()

	var pool *worker.Pool
	if len(sinks) > 0 {
		pool = worker.NewPool(worker.PoolConfig{
			WorkerCount:   cfg.WorkerCount,
			QueueSize:     cfg.QueueSize,
			BatchSize:     cfg.BatchSize,
			FlushInterval: cfg.FlushInterval,
			Sinks:         sinks,
			Logger:        logger,
		})
		pool.Start(ctx)
		defer pool.Stop()
		checks["audit"] = pool.Ping
	}

	hcfg := handlers.Config{
		Prediction:    logic.NewPredictionService(tables, engine, cfg.InferenceTimeout, logger),
		Sessions:      sessions,
		Checks:        checks,
		Logger:        logger,
		SecureCookies: !cfg.IsDevelopment(),
	}
	if pool != nil {
		hcfg.Audit = pool
	}

	router := handlers.NewRouter(handlers.New(hcfg), handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        handlers.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("Server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newEngine prefers the model server and falls back to local weights
func newEngine(cfg *config.Config, tables *lookup.Tables) (*inference.Instrumented, error) {
	if cfg.ModelURL != "" {
		return &inference.Instrumented{
			Engine: inference.NewHTTPEngine(cfg.ModelURL, cfg.ModelName, cfg.InferenceTimeout),
			Name:   "http",
		}, nil
	}

	linear, err := inference.LoadLinearEngine(cfg.ModelWeightsPath)
	if err != nil {
		return nil, err
	}
	if linear.Width() != tables.VectorWidth() {
		return nil, fmt.Errorf("model expects %d features but lookup tables produce %d", linear.Width(), tables.VectorWidth())
	}
	return &inference.Instrumented{Engine: linear, Name: "linear"}, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		store := session.NewMemoryStore(cfg.SessionTTL)
		return store, store.Close, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return session.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }, nil
}

// openSinks connects every configured audit sink and bootstraps its schema
func openSinks(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) ([]worker.Sink, func(), error) {
	var sinks []worker.Sink
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.ClickHouseURL != "" {
		conn, err := worker.OpenClickHouse(ctx, cfg.ClickHouseURL)
		if err != nil {
			return nil, nil, err
		}
		sink := worker.NewClickHouseSink(conn)
		closers = append(closers, func() { sink.Close() })
		if err := sink.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, sink)
		logger.Infow("Audit sink ready", "sink", sink.Name())
	}

	if cfg.PostgresURL != "" {
		pg, err := worker.OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, pg.Close)
		sink := worker.NewPostgresSink(pg)
		if err := sink.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, sink)
		logger.Infow("Audit sink ready", "sink", sink.Name())
	}

	if len(sinks) == 0 {
		logger.Info("No audit sinks configured, predictions will not be recorded")
	}
	return sinks, closeAll, nil
}
