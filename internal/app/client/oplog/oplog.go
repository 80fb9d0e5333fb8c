package oplog

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"monthledger/internal/app/client/kvstore"
	"monthledger/internal/domain/ledger"
)

const logKey = "pending/operations"

type Kind string

const (
	KindUpload Kind = "upload"
	KindDelete Kind = "delete"
)

// Operation — мутация, которую не удалось доставить на сервер.
// Хранится до подтверждения сервером соответствующего эффекта.
type Operation struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	Record     *ledger.Record `json:"record,omitempty"`
	RecordID   string         `json:"record_id"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

// Log — долговечный FIFO-журнал отложенных операций.
// Журнал один на процесс: активен всегда один пользователь на устройстве.
type Log struct {
	store kvstore.Store
	log   *slog.Logger
	mu    sync.Mutex
}

func New(store kvstore.Store, log *slog.Logger) *Log {
	return &Log{
		store: store,
		log:   log.With("component", "pending_oplog"),
	}
}

// Append добавляет операцию в конец журнала
func (l *Log) Append(op Operation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ops, err := l.read()
	if err != nil {
		return err
	}

	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = time.Now()
	}

	ops = append(ops, op)
	if err := l.write(ops); err != nil {
		return err
	}

	l.log.Debug("operation enqueued",
		"op_id", op.ID, "kind", op.Kind, "record_id", op.RecordID, "queue_len", len(ops))
	return nil
}

// List возвращает операции в порядке постановки, не удаляя их
func (l *Log) List() ([]Operation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.read()
}

// Clear удаляет все операции. Вызывается только после того, как каждая
// воспроизведенная операция подтверждена сервером.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Delete(logKey); err != nil {
		return fmt.Errorf("ошибка очистки журнала: %w", err)
	}
	return nil
}

// Len возвращает количество отложенных операций
func (l *Log) Len() (int, error) {
	ops, err := l.List()
	if err != nil {
		return 0, err
	}
	return len(ops), nil
}

func (l *Log) read() ([]Operation, error) {
	data, ok, err := l.store.Get(logKey)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	if !ok {
		return []Operation{}, nil
	}

	var ops []Operation
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("ошибка разбора журнала: %w", err)
	}
	if ops == nil {
		ops = []Operation{}
	}
	return ops, nil
}

func (l *Log) write(ops []Operation) error {
	data, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("ошибка сериализации журнала: %w", err)
	}
	if err := l.store.Set(logKey, data); err != nil {
		return fmt.Errorf("ошибка записи журнала: %w", err)
	}
	return nil
}
