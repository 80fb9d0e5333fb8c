package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"monthledger/internal/domain/ledger"
)

type LedgerRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewLedgerRepository(db *Storage, log *slog.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:  db,
		log: log,
	}
}

func (r *LedgerRepository) List(ctx context.Context, userID int) ([]ledger.Record, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT record_id, display_name, color_tag, config, grouped_payload, raw_payload,
                created_at, updated_at
         FROM records WHERE user_id = $1
         ORDER BY record_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := make([]ledger.Record, 0)
	for rows.Next() {
		var rec ledger.Record
		if err := rows.Scan(&rec.RecordID, &rec.DisplayName, &rec.ColorTag,
			&rec.Config, &rec.GroupedPayload, &rec.RawPayload,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

func (r *LedgerRepository) Get(ctx context.Context, userID int, recordID string) (*ledger.Record, error) {
	var rec ledger.Record
	err := r.db.Pool().QueryRow(ctx,
		`SELECT record_id, display_name, color_tag, config, grouped_payload, raw_payload,
                created_at, updated_at
         FROM records WHERE user_id = $1 AND record_id = $2`, userID, recordID).
		Scan(&rec.RecordID, &rec.DisplayName, &rec.ColorTag,
			&rec.Config, &rec.GroupedPayload, &rec.RawPayload,
			&rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	return &rec, nil
}

// Upsert создает запись либо целиком заменяет существующую
// с той же парой (user_id, record_id)
func (r *LedgerRepository) Upsert(ctx context.Context, userID int, rec *ledger.Record) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO records (user_id, record_id, display_name, color_tag,
                              config, grouped_payload, raw_payload, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
         ON CONFLICT (user_id, record_id) DO UPDATE SET
             display_name    = excluded.display_name,
             color_tag       = excluded.color_tag,
             config          = excluded.config,
             grouped_payload = excluded.grouped_payload,
             raw_payload     = excluded.raw_payload,
             updated_at      = NOW()`,
		userID, rec.RecordID, rec.DisplayName, rec.ColorTag,
		rec.Config, rec.GroupedPayload, rec.RawPayload)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

func (r *LedgerRepository) Delete(ctx context.Context, userID int, recordID string) (bool, error) {
	tag, err := r.db.Pool().Exec(ctx,
		`DELETE FROM records WHERE user_id = $1 AND record_id = $2`, userID, recordID)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
