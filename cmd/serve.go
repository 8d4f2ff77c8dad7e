package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/requeue/internal/guard"
	"github.com/desertthunder/requeue/internal/repositories"
	"github.com/desertthunder/requeue/internal/server"
	"github.com/desertthunder/requeue/internal/shared"
	"github.com/desertthunder/requeue/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Serve assembles the HTTP service and blocks until shutdown.
//
// The duplicate-request guard backend follows guard.durable in config:
// durable claims live in sqlite, otherwise a process-local map is used.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify credentials must be set in config.toml", shared.ErrMissingCredentials)
	}

	config := r.config
	host := config.Server.Host
	port := config.Server.Port
	if cmd.String("host") != "" {
		host = cmd.String("host")
	}
	if cmd.Int("port") != 0 {
		port = cmd.Int("port")
	}

	ttl := time.Duration(config.Guard.ClaimTTLSeconds) * time.Second

	requestGuard := r.guard
	if config.Guard.Durable {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		requestGuard = repositories.NewClaimRepository(db, ttl)
		r.logger.Info("using durable claim storage", "path", config.Database.Path, "ttl", ttl)
	} else if requestGuard == nil {
		requestGuard = guard.NewMemoryGuard(ttl)
	}

	engine := tasks.NewCreationEngine(r.spotify, requestGuard, r.logger)
	tracker := guard.NewSessionTracker()

	limiter := rate.NewLimiter(rate.Limit(config.Server.RatePerSecond), config.Server.RateBurst)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger), server.RateLimit(limiter))
	router.Handler(server.NewIndexHandler(tracker, r.logger))
	router.Handler(server.NewLoginHandler(r.spotify))
	router.Handler(server.NewCallbackHandler(r.spotify, r.logger))
	router.Handler(server.NewCreateHandler(engine, r.logger))

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	r.writePlain("→ Listening on http://%s\n", addr)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		r.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	}
}
