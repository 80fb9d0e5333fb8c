package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"monthledger/internal/app/client/kvstore"
	"monthledger/internal/domain/ledger"
)

func newCache() *Cache {
	return New(kvstore.NewMemoryStore(), slog.Default())
}

func TestCache_PutGet(t *testing.T) {
	c := newCache()

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	records := []ledger.Record{
		{
			RecordID:    "2026-08",
			DisplayName: "Август",
			ColorTag:    "green",
			Config:      json.RawMessage(`{"currency":"RUB"}`),
			CreatedAt:   created,
			UpdatedAt:   created,
		},
	}

	require.NoError(t, c.Put(1, records))

	got, err := c.Get(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2026-08", got[0].RecordID)
	assert.Equal(t, "Август", got[0].DisplayName)
	assert.JSONEq(t, `{"currency":"RUB"}`, string(got[0].Config))

	// Временные метки возвращаются в тот же момент времени
	assert.True(t, got[0].CreatedAt.Equal(created))
}

func TestCache_Get_Absent(t *testing.T) {
	c := newCache()

	// Отсутствие кэша — не ошибка
	got, err := c.Get(1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestCache_Put_Overwrites(t *testing.T) {
	c := newCache()

	require.NoError(t, c.Put(1, []ledger.Record{
		{RecordID: "2026-07", DisplayName: "Июль"},
		{RecordID: "2026-08", DisplayName: "Август"},
	}))

	// Снимок замещается целиком, а не сливается
	require.NoError(t, c.Put(1, []ledger.Record{
		{RecordID: "2026-08", DisplayName: "Август v2"},
	}))

	got, err := c.Get(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Август v2", got[0].DisplayName)
}

func TestCache_PerIdentity(t *testing.T) {
	c := newCache()

	require.NoError(t, c.Put(1, []ledger.Record{{RecordID: "2026-08", DisplayName: "A"}}))
	require.NoError(t, c.Put(2, []ledger.Record{{RecordID: "2026-09", DisplayName: "B"}}))

	got1, err := c.Get(1)
	require.NoError(t, err)
	got2, err := c.Get(2)
	require.NoError(t, err)

	assert.Equal(t, "2026-08", got1[0].RecordID)
	assert.Equal(t, "2026-09", got2[0].RecordID)
}

func TestCache_Clear(t *testing.T) {
	c := newCache()

	require.NoError(t, c.Put(1, []ledger.Record{{RecordID: "2026-08", DisplayName: "A"}}))
	require.NoError(t, c.Clear(1))

	got, err := c.Get(1)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Повторная очистка — no-op
	assert.NoError(t, c.Clear(1))
}
