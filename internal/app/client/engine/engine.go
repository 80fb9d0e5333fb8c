package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"monthledger/internal/app/client/cache"
	"monthledger/internal/app/client/netmon"
	"monthledger/internal/app/client/oplog"
	"monthledger/internal/app/client/remote"
	"monthledger/internal/app/client/session"
	"monthledger/internal/domain/ledger"
	"monthledger/internal/domain/user"
)

// Status — фаза синхронизации
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusError   Status = "error"
	StatusOffline Status = "offline"
)

// ErrOfflineNoCache — сервер недоступен и локального снимка нет
var ErrOfflineNoCache = errors.New("offline and no cached data")

// RemoteLedger — поверхность удаленного сервиса, нужная движку
type RemoteLedger interface {
	ListRecords(ctx context.Context) ([]ledger.Record, error)
	UpsertRecord(ctx context.Context, rec *ledger.Record) (string, error)
	DeleteRecord(ctx context.Context, recordID string) error
}

// Session — активная сессия пользователя
type Session interface {
	Identity() (user.Identity, bool)
}

// Outcome описывает исход операции движка
type Outcome struct {
	// Deferred: мутация применена локально и отложена в журнал
	Deferred bool
	// Replayed: сколько отложенных операций подтверждено сервером
	Replayed int
	// Failed: сколько операций сервер отверг при воспроизведении
	Failed int
}

// Engine — движок синхронизации. Мутации применяются к локальному кэшу
// немедленно; недоставленные на сервер откладываются в журнал и
// воспроизводятся в порядке постановки при восстановлении связи.
//
// Один мьютекс сериализует все операции: колбэк смены доступности
// встает в очередь за выполняющейся операцией.
type Engine struct {
	remote  RemoteLedger
	cache   *cache.Cache
	queue   *oplog.Log
	monitor netmon.Monitor
	sess    Session
	log     *slog.Logger

	mu sync.Mutex

	statusMu sync.Mutex
	status   Status
}

func New(rl RemoteLedger, c *cache.Cache, q *oplog.Log, m netmon.Monitor, s Session, log *slog.Logger) *Engine {
	return &Engine{
		remote:  rl,
		cache:   c,
		queue:   q,
		monitor: m,
		sess:    s,
		log:     log.With("component", "sync_engine"),
		status:  StatusIdle,
	}
}

// Start подписывает движок на смену доступности сервера: переход
// офлайн→онлайн сбрасывает статус и воспроизводит отложенные операции.
// Возвращает функцию отписки.
func (e *Engine) Start(ctx context.Context) func() {
	return e.monitor.Subscribe(func(online bool) {
		if !online {
			return
		}

		e.SetIdle()
		if _, err := e.SyncPending(ctx); err != nil {
			if errors.Is(err, session.ErrAuthRequired) {
				return
			}
			e.log.Error("replay after reconnect failed", "error", err)
		}
	})
}

// UploadRecord создает или заменяет запись. Запись сразу попадает в локальный
// кэш; если сервер недоступен, операция откладывается, Outcome.Deferred
// выставлен и статус переходит в error. Подтвержденная сервером доставка
// сбрасывает статус в idle. Ошибки аутентификации не откладываются.
func (e *Engine) UploadRecord(ctx context.Context, rec *ledger.Record) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.sess.Identity()
	if !ok {
		return Outcome{}, session.ErrAuthRequired
	}

	if err := rec.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ledger.ErrInvalidData, err)
	}

	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := e.cachePut(id.ID, *rec); err != nil {
		return Outcome{}, err
	}

	if !e.monitor.IsReachable() {
		return e.enqueue(oplog.Operation{Kind: oplog.KindUpload, Record: rec, RecordID: rec.RecordID})
	}

	_, err := e.remote.UpsertRecord(ctx, rec)
	switch {
	case err == nil:
		e.setStatus(StatusIdle)
		e.log.Debug("record uploaded", "record_id", rec.RecordID)
		return Outcome{}, nil
	case errors.Is(err, remote.ErrUnavailable):
		out, qerr := e.enqueue(oplog.Operation{Kind: oplog.KindUpload, Record: rec, RecordID: rec.RecordID})
		if qerr == nil {
			// Отложенная операция видна только через статус
			e.setStatus(StatusError)
		}
		return out, qerr
	default:
		return Outcome{}, err
	}
}

// DeleteRecord удаляет запись. Локальный кэш правится сразу; недоставленное
// удаление откладывается со статусом error, подтвержденное сбрасывает статус
// в idle. Отсутствие записи на сервере — успех.
func (e *Engine) DeleteRecord(ctx context.Context, recordID string) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.sess.Identity()
	if !ok {
		return Outcome{}, session.ErrAuthRequired
	}

	if err := e.cacheRemove(id.ID, recordID); err != nil {
		return Outcome{}, err
	}

	if !e.monitor.IsReachable() {
		return e.enqueue(oplog.Operation{Kind: oplog.KindDelete, RecordID: recordID})
	}

	err := e.remote.DeleteRecord(ctx, recordID)
	switch {
	case err == nil:
		e.setStatus(StatusIdle)
		e.log.Debug("record deleted", "record_id", recordID)
		return Outcome{}, nil
	case errors.Is(err, remote.ErrUnavailable):
		out, qerr := e.enqueue(oplog.Operation{Kind: oplog.KindDelete, RecordID: recordID})
		if qerr == nil {
			e.setStatus(StatusError)
		}
		return out, qerr
	default:
		return Outcome{}, err
	}
}

// DownloadAll возвращает актуальный список записей. Облако — источник истины:
// успешный ответ сервера целиком замещает локальный снимок. При недоступном
// сервере возвращается кэш; пустой кэш в офлайне — ErrOfflineNoCache.
func (e *Engine) DownloadAll(ctx context.Context) ([]ledger.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.sess.Identity()
	if !ok {
		return nil, session.ErrAuthRequired
	}

	if !e.monitor.IsReachable() {
		return e.cachedFallback(id.ID)
	}

	records, err := e.remote.ListRecords(ctx)
	switch {
	case err == nil:
		if err := e.cache.Put(id.ID, records); err != nil {
			return nil, err
		}
		return records, nil
	case errors.Is(err, remote.ErrUnavailable):
		return e.cachedFallback(id.ID)
	default:
		return nil, err
	}
}

// SyncPending воспроизводит отложенные операции в порядке постановки.
// Журнал очищается целиком и только если сервер подтвердил каждую операцию;
// любой отказ сохраняет журнал как есть до следующего прогона. В офлайне —
// no-op без ошибки.
func (e *Engine) SyncPending(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.sess.Identity(); !ok {
		return Outcome{}, session.ErrAuthRequired
	}

	if !e.monitor.IsReachable() {
		return Outcome{}, nil
	}

	ops, err := e.queue.List()
	if err != nil {
		return Outcome{}, err
	}
	if len(ops) == 0 {
		e.setStatus(StatusIdle)
		return Outcome{}, nil
	}

	e.setStatus(StatusSyncing)
	e.log.Info("replaying pending operations", "count", len(ops))

	out := Outcome{}
	for _, op := range ops {
		err := e.replay(ctx, op)
		switch {
		case err == nil:
			out.Replayed++
		case remote.IsAuthError(err):
			// Требуется повторный вход; журнал ждет следующей сессии
			e.setStatus(StatusError)
			return out, err
		case errors.Is(err, remote.ErrUnavailable):
			// Связь пропала посреди прогона: остальные операции не пробуем
			out.Failed = len(ops) - out.Replayed
			e.setStatus(StatusError)
			return out, err
		default:
			e.log.Warn("server rejected pending operation",
				"op_id", op.ID, "kind", op.Kind, "record_id", op.RecordID, "error", err)
			out.Failed++
		}
	}

	if out.Failed > 0 {
		e.setStatus(StatusError)
		return out, nil
	}

	if err := e.queue.Clear(); err != nil {
		e.setStatus(StatusError)
		return out, err
	}

	e.setStatus(StatusIdle)
	e.log.Info("pending operations replayed", "count", out.Replayed)
	return out, nil
}

func (e *Engine) replay(ctx context.Context, op oplog.Operation) error {
	switch op.Kind {
	case oplog.KindUpload:
		if op.Record == nil {
			return fmt.Errorf("upload operation %s has no record", op.ID)
		}
		_, err := e.remote.UpsertRecord(ctx, op.Record)
		return err
	case oplog.KindDelete:
		return e.remote.DeleteRecord(ctx, op.RecordID)
	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

// Status возвращает текущую фазу. Недоступность сервера перекрывает
// сохраненную фазу.
func (e *Engine) Status() Status {
	if !e.monitor.IsReachable() {
		return StatusOffline
	}

	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	return e.status
}

// SetIdle сбрасывает фазу в idle. Вызывается при выходе пользователя
// и при восстановлении связи перед воспроизведением.
func (e *Engine) SetIdle() {
	e.setStatus(StatusIdle)
}

// PendingCount возвращает число отложенных операций
func (e *Engine) PendingCount() (int, error) {
	return e.queue.Len()
}

func (e *Engine) setStatus(s Status) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status = s
}

func (e *Engine) enqueue(op oplog.Operation) (Outcome, error) {
	if err := e.queue.Append(op); err != nil {
		return Outcome{}, err
	}
	e.log.Debug("operation deferred", "kind", op.Kind, "record_id", op.RecordID)
	return Outcome{Deferred: true}, nil
}

func (e *Engine) cachePut(identityID int, rec ledger.Record) error {
	records, err := e.cache.Get(identityID)
	if err != nil {
		return err
	}

	replaced := false
	for i := range records {
		if records[i].RecordID == rec.RecordID {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	return e.cache.Put(identityID, records)
}

func (e *Engine) cacheRemove(identityID int, recordID string) error {
	records, err := e.cache.Get(identityID)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.RecordID != recordID {
			kept = append(kept, r)
		}
	}

	return e.cache.Put(identityID, kept)
}

func (e *Engine) cachedFallback(identityID int) ([]ledger.Record, error) {
	records, err := e.cache.Get(identityID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrOfflineNoCache
	}

	e.log.Debug("serving records from local cache", "records", len(records))
	return records, nil
}
