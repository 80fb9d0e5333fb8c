package cache

import (
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/exp/slog"

	"monthledger/internal/app/client/kvstore"
	"monthledger/internal/domain/ledger"
)

// Cache — локальный снимок записей пользователя для офлайн-чтения.
// Снимок всегда перезаписывается целиком: это значение, а не набор дельт.
// Временные метки записей сериализуются в RFC 3339 и разбираются обратно
// в тот же момент времени.
type Cache struct {
	store kvstore.Store
	log   *slog.Logger
}

func New(store kvstore.Store, log *slog.Logger) *Cache {
	return &Cache{
		store: store,
		log:   log.With("component", "local_cache"),
	}
}

func cacheKey(identityID int) string {
	return "cache/" + strconv.Itoa(identityID)
}

// Put полностью заменяет снимок записей для пользователя
func (c *Cache) Put(identityID int, records []ledger.Record) error {
	if records == nil {
		records = []ledger.Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("ошибка сериализации кэша: %w", err)
	}

	if err := c.store.Set(cacheKey(identityID), data); err != nil {
		return fmt.Errorf("ошибка записи кэша: %w", err)
	}

	c.log.Debug("cache snapshot written", "identity_id", identityID, "records", len(records))
	return nil
}

// Get возвращает снимок записей пользователя.
// Отсутствие кэша — не ошибка: возвращается пустой срез.
func (c *Cache) Get(identityID int) ([]ledger.Record, error) {
	data, ok, err := c.store.Get(cacheKey(identityID))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения кэша: %w", err)
	}
	if !ok {
		return []ledger.Record{}, nil
	}

	var records []ledger.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ошибка разбора кэша: %w", err)
	}

	if records == nil {
		records = []ledger.Record{}
	}
	return records, nil
}

// Clear удаляет снимок пользователя. Идемпотентна: удаление
// отсутствующего кэша — no-op.
func (c *Cache) Clear(identityID int) error {
	if err := c.store.Delete(cacheKey(identityID)); err != nil {
		return fmt.Errorf("ошибка очистки кэша: %w", err)
	}
	return nil
}
