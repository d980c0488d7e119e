package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/msomdec/discount-pro/internal/config"
	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/handler"
	"github.com/msomdec/discount-pro/internal/metrics"
	"github.com/msomdec/discount-pro/internal/repository/memory"
	redisstore "github.com/msomdec/discount-pro/internal/repository/redis"
	"github.com/msomdec/discount-pro/internal/repository/sqlite"
	"github.com/msomdec/discount-pro/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

// stores are the user directory and the per-client storage.
type stores struct {
	users   domain.UserRepository
	storage domain.KeyValueStore
	closers []func() error
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Error("close store", "error", err)
		}
	}
}

func openStores(ctx context.Context, cfg config.StorageConfig) (*stores, error) {
	if cfg.Backend == config.BackendMemory {
		slog.Warn("using in-memory storage; nothing survives a restart")
		return &stores{
			users:   memory.NewUserRepository(),
			storage: memory.NewKeyValueStore(),
		}, nil
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &stores{users: db.Users(), storage: db.KeyValues(), closers: []func() error{db.Close}}

	if err := db.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	if cfg.Backend == config.BackendRedis {
		client, err := redisstore.Connect(ctx, cfg.RedisURL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		s.storage = redisstore.NewKeyValueStore(client,
			redisstore.WithTTL(cfg.RedisTTL),
			redisstore.WithKeyPrefix(cfg.RedisPrefix),
		)
		slog.Info("client storage on redis", "ttl", cfg.RedisTTL, "prefix", cfg.RedisPrefix)
	}
	return s, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer st.Close()

	// Seed the demo accounts (idempotent).
	if err := service.SeedDirectory(ctx, st.users, cfg.Auth.BcryptCost); err != nil {
		return fmt.Errorf("seed directory: %w", err)
	}
	slog.Info("user directory seeded")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	sessions := service.NewSessionRegistry(st.users, st.storage, recorder, service.RegistryConfig{
		IdleTTL:    cfg.Session.IdleTTL,
		ToastLimit: cfg.Session.ToastLimit,
		Options: []service.SessionOption{
			service.WithLatency(service.FixedLatency(cfg.Session.Latency)),
			service.WithBcryptCost(cfg.Auth.BcryptCost),
			service.WithDirectoryRegistration(cfg.Session.RegisterIntoDirectory),
		},
	})
	limiter := service.NewAttemptLimiter(cfg.Auth.AttemptsPerMin/60, cfg.Auth.AttemptBurst)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Sessions:     sessions,
		Catalog:      service.NewCatalogService(),
		Tokens:       service.NewClientTokens(cfg.Auth.JWTSecret, cfg.Auth.ClientTokenTTL),
		Limiter:      limiter,
		CookieSecure: cfg.Server.CookieSecure,
	})
	mux.Handle("GET /metrics", metrics.Handler(reg))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.SecurityHeaders(handler.RequestLogger(mux)),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error { return sessions.Run(gctx) })
	g.Go(func() error { return limiter.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
