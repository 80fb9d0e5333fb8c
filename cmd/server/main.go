package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"monthledger/internal/app/server/api"
	"monthledger/internal/app/server/config"
	"monthledger/internal/domain/session"
	"monthledger/internal/infrastructure/storage/postgres"
	"monthledger/internal/utils/logger"
)

const sessionSweepInterval = time.Hour

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	storage, err := postgres.New(cfg)
	if err != nil {
		log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	mux := api.New(storage, log)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepSessions(sweepCtx, session.NewService(postgres.NewSessionRepository(storage, log), log), log)

	srv := &http.Server{
		Addr:         cfg.Server.RunAddress,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "address", cfg.Server.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// sweepSessions периодически удаляет просроченные сессии
func sweepSessions(ctx context.Context, sessions *session.Service, log *slog.Logger) {
	if _, err := sessions.PurgeExpired(ctx); err != nil {
		log.Error("session sweep failed", "error", err)
	}

	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sessions.PurgeExpired(ctx); err != nil {
				log.Error("session sweep failed", "error", err)
			}
		}
	}
}
