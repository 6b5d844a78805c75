package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "github.com/tablebook/reservations/internal/httpapi/v1"
	"github.com/tablebook/reservations/internal/service/booking"
	"github.com/tablebook/reservations/internal/storage/memory"
	pgstore "github.com/tablebook/reservations/internal/storage/postgres"
	"github.com/tablebook/reservations/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
	logger := buildLoggerFromEnv()
	slog.SetDefault(logger)

	var repo booking.Repo
	var writer booking.Writer
	var closeFn func()

	switch {
	case strings.TrimSpace(os.Getenv("DATABASE_URL")) != "":
		pg, err := pgstore.Open(ctx, strings.TrimSpace(os.Getenv("DATABASE_URL")))
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = pg.Close
		repo, writer = pg, pg
		logger.Info("storage backend: postgres")
	case strings.TrimSpace(os.Getenv("SQLITE_PATH")) != "":
		st, err := sqlite.Open(strings.TrimSpace(os.Getenv("SQLITE_PATH")))
		if err != nil {
			logger.Error("failed to open sqlite database", "err", err)
			os.Exit(1)
		}
		closeFn = func() { _ = st.Close() }
		repo, writer = st, st
		logger.Info("storage backend: sqlite", "path", os.Getenv("SQLITE_PATH"))
	default:
		store := memory.New()
		repo, writer = store, store
		logger.Info("storage backend: memory")
	}

	srv := &http.Server{
		Addr:              listenAddr(),
		Handler:           httpapi.New(repo, writer, corsOriginsFromEnv(), logger).Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("reservations service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

func listenAddr() string {
	if addr := strings.TrimSpace(os.Getenv("ADDR")); addr != "" {
		return addr
	}
	return ":8080"
}

// corsOriginsFromEnv reads the comma-separated CORS allow-list, defaulting to
// the local frontend dev servers.
func corsOriginsFromEnv() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" {
		return []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLoggerFromEnv() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
