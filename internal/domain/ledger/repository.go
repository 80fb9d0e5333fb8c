package ledger

import (
	"context"
)

// Repository — интерфейс хранилища записей на стороне сервера
type Repository interface {
	List(ctx context.Context, userID int) ([]Record, error)
	Get(ctx context.Context, userID int, recordID string) (*Record, error)
	Upsert(ctx context.Context, userID int, rec *Record) error
	Delete(ctx context.Context, userID int, recordID string) (bool, error)
}
