// Package server owns the process lifecycle: boot the backing services,
// bind the port, and drain connections on shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreimonforte/malocozz/config"
	"github.com/andreimonforte/malocozz/pkg/cache"
	"github.com/andreimonforte/malocozz/pkg/database"
	"github.com/andreimonforte/malocozz/pkg/logger"
	"github.com/andreimonforte/malocozz/pkg/queue"
	"github.com/andreimonforte/malocozz/pkg/storage"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 15 * time.Second
)

// Start boots config, database, cache, storage and queue workers, builds
// the handler, then serves until SIGINT/SIGTERM. In-flight requests get
// shutdownTimeout to finish. The handler is built after boot so route
// registration sees a live database.
func Start(build func() http.Handler) error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.MongoLogURI(); uri != "" {
		if err := logger.EnableMongo(uri, config.MongoLogDB()); err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	queue.UseDB(database.DB)

	if err := cache.Connect(); err != nil {
		// Sessions and carts need Redis; OTP too. Fail loudly but keep
		// serving: the catalogue still works read-only.
		logger.Warn("redis unavailable, sessions will not persist", "error", err)
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	storage.Connect()

	handler := build()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, queueWorkers)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
