package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"monthledger/internal/app/client/cache"
	"monthledger/internal/app/client/kvstore"
	"monthledger/internal/app/client/netmon"
	"monthledger/internal/app/client/oplog"
	"monthledger/internal/app/client/remote"
	"monthledger/internal/app/client/session"
	"monthledger/internal/domain/ledger"
	"monthledger/internal/domain/user"
)

type fakeRemote struct {
	mu      sync.Mutex
	records map[string]ledger.Record
	calls   []string

	listErr   error
	upsertErr error
	deleteErr error

	// точечные отказы по record_id при upsert
	reject map[string]error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: make(map[string]ledger.Record)}
}

func (f *fakeRemote) ListRecords(_ context.Context) ([]ledger.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	out := make([]ledger.Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID < out[j].RecordID })
	return out, nil
}

func (f *fakeRemote) UpsertRecord(_ context.Context, rec *ledger.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "upsert:"+rec.RecordID)

	if f.upsertErr != nil {
		return "", f.upsertErr
	}
	if err, ok := f.reject[rec.RecordID]; ok {
		return "", err
	}

	f.records[rec.RecordID] = *rec
	return rec.RecordID, nil
}

func (f *fakeRemote) DeleteRecord(_ context.Context, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "delete:"+recordID)

	if f.deleteErr != nil {
		return f.deleteErr
	}

	// Отсутствие записи — успех
	delete(f.records, recordID)
	return nil
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) has(recordID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[recordID]
	return ok
}

type fakeSession struct {
	id user.Identity
	ok bool
}

func (f *fakeSession) Identity() (user.Identity, bool) {
	return f.id, f.ok
}

type nopProber struct{}

func (nopProber) Probe(_ context.Context) error { return nil }

type testEngine struct {
	remote  *fakeRemote
	cache   *cache.Cache
	queue   *oplog.Log
	monitor *netmon.PollMonitor
	engine  *Engine
}

func newTestEngine(online bool) *testEngine {
	store := kvstore.NewMemoryStore()
	log := slog.Default()

	rm := newFakeRemote()
	c := cache.New(store, log)
	q := oplog.New(store, log)
	m := netmon.NewPollMonitor(nopProber{}, time.Second, time.Second, log)
	m.SetReachable(online)

	sess := &fakeSession{id: user.Identity{ID: 1, DisplayName: "alice"}, ok: true}

	return &testEngine{
		remote:  rm,
		cache:   c,
		queue:   q,
		monitor: m,
		engine:  New(rm, c, q, m, sess, log),
	}
}

func monthRecord(id, name string) *ledger.Record {
	return &ledger.Record{RecordID: id, DisplayName: name}
}

func TestEngine_UploadRecord_Online(t *testing.T) {
	te := newTestEngine(true)

	out, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)
	assert.False(t, out.Deferred)

	// Запись на сервере и в локальном кэше, журнал пуст
	assert.True(t, te.remote.has("2026-08"))

	cached, err := te.cache.Get(1)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Август", cached[0].DisplayName)
	assert.False(t, cached[0].UpdatedAt.IsZero())

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, StatusIdle, te.engine.Status())
}

func TestEngine_UploadRecord_Idempotent(t *testing.T) {
	te := newTestEngine(true)

	_, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)
	_, err = te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август v2"))
	require.NoError(t, err)

	// Повторная загрузка того же периода замещает, а не дублирует
	cached, err := te.cache.Get(1)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Август v2", cached[0].DisplayName)

	records, err := te.remote.ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Август v2", records[0].DisplayName)
}

func TestEngine_UploadRecord_Offline(t *testing.T) {
	te := newTestEngine(false)

	out, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)
	assert.True(t, out.Deferred)

	// Кэш обновлен немедленно, операция в журнале, сервер не тронут
	cached, err := te.cache.Get(1)
	require.NoError(t, err)
	require.Len(t, cached, 1)

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Empty(t, te.remote.callLog())
}

func TestEngine_UploadRecord_ServerUnavailable(t *testing.T) {
	te := newTestEngine(true)
	te.remote.upsertErr = remote.ErrUnavailable

	out, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)
	assert.True(t, out.Deferred)

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Отложенная операция видна через статус
	assert.Equal(t, StatusError, te.engine.Status())
}

func TestEngine_UploadRecord_AuthErrorNotDeferred(t *testing.T) {
	te := newTestEngine(true)
	te.remote.upsertErr = remote.ErrUnauthenticated

	// Отказ аутентификации не маскируется под офлайн
	_, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	assert.ErrorIs(t, err, remote.ErrUnauthenticated)

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEngine_UploadRecord_RequiresSession(t *testing.T) {
	te := newTestEngine(true)
	te.engine.sess = &fakeSession{ok: false}

	_, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	assert.ErrorIs(t, err, session.ErrAuthRequired)
	assert.Empty(t, te.remote.callLog())
}

func TestEngine_UploadRecord_Invalid(t *testing.T) {
	te := newTestEngine(true)

	_, err := te.engine.UploadRecord(context.Background(), &ledger.Record{RecordID: "2026-08"})
	assert.ErrorIs(t, err, ledger.ErrInvalidData)

	// Невалидная запись не попадает ни в кэш, ни в журнал
	cached, err := te.cache.Get(1)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestEngine_DeleteRecord_Online(t *testing.T) {
	te := newTestEngine(true)

	_, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	out, err := te.engine.DeleteRecord(context.Background(), "2026-08")
	require.NoError(t, err)
	assert.False(t, out.Deferred)

	assert.False(t, te.remote.has("2026-08"))
	cached, err := te.cache.Get(1)
	require.NoError(t, err)
	assert.Empty(t, cached)

	assert.Equal(t, StatusIdle, te.engine.Status())
}

func TestEngine_DeleteRecord_ServerUnavailable(t *testing.T) {
	te := newTestEngine(true)

	_, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	te.remote.deleteErr = remote.ErrUnavailable

	out, err := te.engine.DeleteRecord(context.Background(), "2026-08")
	require.NoError(t, err)
	assert.True(t, out.Deferred)

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, StatusError, te.engine.Status())
}

func TestEngine_DeleteRecord_Offline(t *testing.T) {
	te := newTestEngine(true)

	_, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	te.monitor.SetReachable(false)

	out, err := te.engine.DeleteRecord(context.Background(), "2026-08")
	require.NoError(t, err)
	assert.True(t, out.Deferred)

	// Локально записи уже нет, удаление ждет в журнале
	cached, err := te.cache.Get(1)
	require.NoError(t, err)
	assert.Empty(t, cached)

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEngine_DownloadAll_CloudWins(t *testing.T) {
	te := newTestEngine(true)

	// Локальный снимок устарел относительно облака
	require.NoError(t, te.cache.Put(1, []ledger.Record{
		{RecordID: "2026-07", DisplayName: "Июль (устаревший)"},
	}))
	te.remote.records["2026-08"] = ledger.Record{RecordID: "2026-08", DisplayName: "Август"}

	records, err := te.engine.DownloadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08", records[0].RecordID)

	// Снимок замещен ответом сервера целиком
	cached, err := te.cache.Get(1)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "2026-08", cached[0].RecordID)
}

func TestEngine_DownloadAll_OfflineServesCache(t *testing.T) {
	te := newTestEngine(false)

	require.NoError(t, te.cache.Put(1, []ledger.Record{
		{RecordID: "2026-08", DisplayName: "Август"},
	}))

	records, err := te.engine.DownloadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08", records[0].RecordID)
}

func TestEngine_DownloadAll_OfflineNoCache(t *testing.T) {
	te := newTestEngine(false)

	_, err := te.engine.DownloadAll(context.Background())
	assert.ErrorIs(t, err, ErrOfflineNoCache)
}

func TestEngine_DownloadAll_UnavailableFallsBack(t *testing.T) {
	te := newTestEngine(true)
	te.remote.listErr = remote.ErrUnavailable

	require.NoError(t, te.cache.Put(1, []ledger.Record{
		{RecordID: "2026-08", DisplayName: "Август"},
	}))

	records, err := te.engine.DownloadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestEngine_SyncPending_ReplaysInOrder(t *testing.T) {
	te := newTestEngine(false)

	ctx := context.Background()
	_, err := te.engine.UploadRecord(ctx, monthRecord("2026-07", "Июль"))
	require.NoError(t, err)
	_, err = te.engine.UploadRecord(ctx, monthRecord("2026-08", "Август"))
	require.NoError(t, err)
	_, err = te.engine.DeleteRecord(ctx, "2026-07")
	require.NoError(t, err)

	te.monitor.SetReachable(true)

	out, err := te.engine.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Replayed)
	assert.Zero(t, out.Failed)

	// Порядок постановки сохранен: июль создан и затем удален
	assert.Equal(t, []string{"upsert:2026-07", "upsert:2026-08", "delete:2026-07"}, te.remote.callLog())
	assert.False(t, te.remote.has("2026-07"))
	assert.True(t, te.remote.has("2026-08"))

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, StatusIdle, te.engine.Status())
}

func TestEngine_SyncPending_KeepsLogOnRejection(t *testing.T) {
	te := newTestEngine(false)

	ctx := context.Background()
	_, err := te.engine.UploadRecord(ctx, monthRecord("2026-07", "Июль"))
	require.NoError(t, err)
	_, err = te.engine.UploadRecord(ctx, monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	te.monitor.SetReachable(true)
	te.remote.reject = map[string]error{"2026-07": errors.New("record too large")}

	out, err := te.engine.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Replayed)
	assert.Equal(t, 1, out.Failed)

	// Любой отказ сохраняет журнал целиком до следующего прогона
	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, StatusError, te.engine.Status())
}

func TestEngine_SyncPending_AbortsWhenUnavailable(t *testing.T) {
	te := newTestEngine(false)

	ctx := context.Background()
	_, err := te.engine.UploadRecord(ctx, monthRecord("2026-07", "Июль"))
	require.NoError(t, err)
	_, err = te.engine.UploadRecord(ctx, monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	te.monitor.SetReachable(true)
	te.remote.upsertErr = remote.ErrUnavailable

	out, err := te.engine.SyncPending(ctx)
	assert.ErrorIs(t, err, remote.ErrUnavailable)
	assert.Zero(t, out.Replayed)
	assert.Equal(t, 2, out.Failed)

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngine_SyncPending_AuthErrorAborts(t *testing.T) {
	te := newTestEngine(false)

	ctx := context.Background()
	_, err := te.engine.UploadRecord(ctx, monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	te.monitor.SetReachable(true)
	te.remote.upsertErr = remote.ErrSessionExpired

	// Журнал ждет повторного входа
	_, err = te.engine.SyncPending(ctx)
	assert.ErrorIs(t, err, remote.ErrSessionExpired)

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEngine_SyncPending_OfflineIsNoop(t *testing.T) {
	te := newTestEngine(false)

	_, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	out, err := te.engine.SyncPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.Replayed)

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEngine_SyncPending_EmptyQueue(t *testing.T) {
	te := newTestEngine(true)

	out, err := te.engine.SyncPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.Replayed)
	assert.Equal(t, StatusIdle, te.engine.Status())
}

func TestEngine_Status_OfflineOverrides(t *testing.T) {
	te := newTestEngine(false)
	assert.Equal(t, StatusOffline, te.engine.Status())

	te.monitor.SetReachable(true)
	assert.Equal(t, StatusIdle, te.engine.Status())
}

func TestEngine_Start_ReplaysOnReconnect(t *testing.T) {
	te := newTestEngine(false)

	_, err := te.engine.UploadRecord(context.Background(), monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	stop := te.engine.Start(context.Background())
	defer stop()

	// Восстановление связи запускает воспроизведение журнала
	te.monitor.SetReachable(true)

	assert.True(t, te.remote.has("2026-08"))

	n, err := te.queue.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, StatusIdle, te.engine.Status())
}

func TestEngine_OfflineEditThenReconnect(t *testing.T) {
	te := newTestEngine(true)
	ctx := context.Background()

	// Онлайн: две записи на сервере
	_, err := te.engine.UploadRecord(ctx, monthRecord("2026-07", "Июль"))
	require.NoError(t, err)
	_, err = te.engine.UploadRecord(ctx, monthRecord("2026-08", "Август"))
	require.NoError(t, err)

	// Связь пропала: правка и удаление ложатся в журнал
	te.monitor.SetReachable(false)

	_, err = te.engine.UploadRecord(ctx, monthRecord("2026-08", "Август (правка)"))
	require.NoError(t, err)
	_, err = te.engine.DeleteRecord(ctx, "2026-07")
	require.NoError(t, err)

	records, err := te.engine.DownloadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Август (правка)", records[0].DisplayName)

	// Связь вернулась: журнал доигран, облако сошлось с кэшем
	te.monitor.SetReachable(true)

	out, err := te.engine.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Replayed)

	serverRecords, err := te.remote.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, serverRecords, 1)
	assert.Equal(t, "Август (правка)", serverRecords[0].DisplayName)
}
