package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"monthledger/internal/app/client/remote"
	dsession "monthledger/internal/domain/session"
	"monthledger/internal/domain/user"
)

var (
	// ErrAuthRequired — операция требует активной сессии
	ErrAuthRequired = errors.New("authentication required")

	// ErrNoSession — сохраненной сессии нет
	ErrNoSession = errors.New("no saved session")
)

// RemoteAuth — аутентификационная поверхность удаленного сервиса
type RemoteAuth interface {
	Register(ctx context.Context, login, secret string) (string, user.Identity, error)
	Login(ctx context.Context, login, secret string) (string, user.Identity, error)
	ValidateCredential(ctx context.Context) (user.Identity, error)
	SetToken(token string)
}

// CacheWiper стирает локальный снимок записей пользователя
type CacheWiper interface {
	Clear(identityID int) error
}

// QueueWiper стирает журнал отложенных операций
type QueueWiper interface {
	Clear() error
}

// StatusResetter сбрасывает статус синхронизации в idle
type StatusResetter interface {
	SetIdle()
}

// Manager управляет жизненным циклом сессии: вход, выход, восстановление
// при запуске. Выход стирает все локальное состояние пользователя —
// на общем устройстве после logout не должно оставаться чужих данных.
type Manager struct {
	remote    RemoteAuth
	creds     *CredentialStore
	cache     CacheWiper
	queue     QueueWiper
	validator user.Validator
	log       *slog.Logger

	mu       sync.RWMutex
	identity *user.Identity
	status   StatusResetter
}

func NewManager(ra RemoteAuth, creds *CredentialStore, cache CacheWiper, queue QueueWiper, log *slog.Logger) *Manager {
	return &Manager{
		remote:    ra,
		creds:     creds,
		cache:     cache,
		queue:     queue,
		validator: user.NewCredentialsValidator(),
		log:       log.With("component", "session_manager"),
	}
}

// SetStatusResetter подключает сброс статуса синхронизации.
// Движок создается после менеджера, поэтому связь устанавливается отдельно.
func (m *Manager) SetStatusResetter(r StatusResetter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = r
}

// Register регистрирует нового пользователя и открывает сессию
func (m *Manager) Register(ctx context.Context, login, secret string) (user.Identity, error) {
	if err := m.validator.ValidateRegister(login, secret); err != nil {
		return user.Identity{}, fmt.Errorf("%w: %v", user.ErrInvalidInput, err)
	}

	cred, id, err := m.remote.Register(ctx, login, secret)
	if err != nil {
		return user.Identity{}, err
	}

	if err := m.open(cred, id); err != nil {
		return user.Identity{}, err
	}

	m.log.Info("user registered", "identity_id", id.ID)
	return id, nil
}

// Login открывает сессию существующего пользователя. Логин и пароль
// проверяются локально до обращения к серверу; любой отказ самого сервера
// сводится к user.ErrInvalidAuth без уточнения причины.
func (m *Manager) Login(ctx context.Context, login, secret string) (user.Identity, error) {
	if err := m.validator.ValidateRegister(login, secret); err != nil {
		return user.Identity{}, fmt.Errorf("%w: %v", user.ErrInvalidInput, err)
	}

	cred, id, err := m.remote.Login(ctx, login, secret)
	if err != nil {
		return user.Identity{}, err
	}

	if err := m.open(cred, id); err != nil {
		return user.Identity{}, err
	}

	m.log.Info("user logged in", "identity_id", id.ID)
	return id, nil
}

func (m *Manager) open(cred string, id user.Identity) error {
	if err := m.creds.Save(cred, id); err != nil {
		return err
	}

	m.remote.SetToken(cred)

	m.mu.Lock()
	m.identity = &id
	m.mu.Unlock()
	return nil
}

// RestoreSession восстанавливает сессию из сохраненных учетных данных
// одной проверкой токена на сервере. Просроченный токен стирается без
// обращения к серверу. Недоступность сервера не мешает восстановлению:
// владелец берется из локальной копии, а токен проверится при первом
// успешном обращении.
func (m *Manager) RestoreSession(ctx context.Context) (user.Identity, error) {
	cred, id, ok, err := m.creds.Load()
	if err != nil {
		return user.Identity{}, err
	}
	if !ok {
		return user.Identity{}, ErrNoSession
	}

	if dsession.IsExpired(cred, time.Now()) {
		m.log.Info("saved session expired, clearing")
		if err := m.creds.Clear(); err != nil {
			return user.Identity{}, err
		}
		return user.Identity{}, remote.ErrSessionExpired
	}

	m.remote.SetToken(cred)

	serverID, err := m.remote.ValidateCredential(ctx)
	switch {
	case err == nil:
		id = serverID
	case errors.Is(err, remote.ErrUnavailable):
		m.log.Debug("server unreachable, restoring session from local copy")
	case remote.IsAuthError(err):
		m.log.Info("saved session rejected by server, clearing")
		m.remote.SetToken("")
		if clearErr := m.creds.Clear(); clearErr != nil {
			return user.Identity{}, clearErr
		}
		return user.Identity{}, err
	default:
		m.remote.SetToken("")
		return user.Identity{}, err
	}

	m.mu.Lock()
	m.identity = &id
	m.mu.Unlock()

	m.log.Info("session restored", "identity_id", id.ID)
	return id, nil
}

// Logout закрывает сессию и стирает все локальное состояние пользователя:
// учетные данные, кэш записей, журнал отложенных операций. Статус
// синхронизации сбрасывается в idle. Повторный вызов без сессии — no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	id := m.identity
	m.identity = nil
	status := m.status
	m.mu.Unlock()

	m.remote.SetToken("")

	if err := m.creds.Clear(); err != nil {
		return err
	}

	if id != nil {
		if err := m.cache.Clear(id.ID); err != nil {
			return err
		}
	}

	if err := m.queue.Clear(); err != nil {
		return err
	}

	if status != nil {
		status.SetIdle()
	}

	if id != nil {
		m.log.Info("user logged out", "identity_id", id.ID)
	}
	return nil
}

// IsAuthenticated сообщает, есть ли активная сессия
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil
}

// Identity возвращает владельца активной сессии
func (m *Manager) Identity() (user.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return user.Identity{}, false
	}
	return *m.identity, true
}
