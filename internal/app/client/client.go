package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"monthledger/internal/app/client/cache"
	"monthledger/internal/app/client/config"
	"monthledger/internal/app/client/engine"
	"monthledger/internal/app/client/kvstore"
	"monthledger/internal/app/client/netmon"
	"monthledger/internal/app/client/oplog"
	"monthledger/internal/app/client/remote"
	"monthledger/internal/app/client/session"
)

// App собирает клиент целиком: хранилище, кэш, журнал отложенных операций,
// HTTP-клиент, монитор сети, менеджер сессии и движок синхронизации.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Remote   *remote.Client
	Monitor  *netmon.PollMonitor
	Cache    *cache.Cache
	Queue    *oplog.Log
	Sessions *session.Manager
	Engine   *engine.Engine

	store kvstore.Store
}

// New создает и связывает все компоненты клиента
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	store, err := kvstore.NewSQLiteStore(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия локального хранилища: %w", err)
	}

	rc, err := remote.NewClient(cfg, log)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("ошибка создания HTTP-клиента: %w", err)
	}

	probeInterval := time.Duration(cfg.ProbeIntervalSeconds) * time.Second
	monitor := netmon.NewPollMonitor(rc, probeInterval, 3*time.Second, log)

	localCache := cache.New(store, log)
	queue := oplog.New(store, log)

	sessions := session.NewManager(rc, session.NewCredentialStore(store), localCache, queue, log)

	eng := engine.New(rc, localCache, queue, monitor, sessions, log)
	sessions.SetStatusResetter(eng)

	return &App{
		Config:   cfg,
		Log:      log,
		Remote:   rc,
		Monitor:  monitor,
		Cache:    localCache,
		Queue:    queue,
		Sessions: sessions,
		Engine:   eng,
		store:    store,
	}, nil
}

// Bootstrap определяет начальную доступность сервера и восстанавливает
// сохраненную сессию. Отсутствие сессии и просроченный токен — не ошибки
// запуска: пользователь просто не аутентифицирован.
func (a *App) Bootstrap(ctx context.Context) error {
	a.Monitor.ProbeOnce(ctx)

	_, err := a.Sessions.RestoreSession(ctx)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNoSession):
	case remote.IsAuthError(err):
		a.Log.Info("saved session no longer valid")
	default:
		return err
	}

	return nil
}

// RunAutoSync запускает фоновый цикл: опрос доступности сервера,
// воспроизведение при восстановлении связи и периодическая синхронизация.
// Блокируется до отмены контекста.
func (a *App) RunAutoSync(ctx context.Context) {
	stop := a.Engine.Start(ctx)
	defer stop()

	go a.Monitor.Run(ctx)

	interval := time.Duration(a.Config.SyncInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.Sessions.IsAuthenticated() {
				continue
			}
			if _, err := a.Engine.SyncPending(ctx); err != nil {
				a.Log.Warn("periodic sync failed", "error", err)
			}
		}
	}
}

// Close освобождает ресурсы клиента
func (a *App) Close() error {
	return a.store.Close()
}
