package ledger

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	List(ctx context.Context, userID int) (ListResponse, error)
	Upsert(ctx context.Context, userID int, rec *Record) (string, error)
	Delete(ctx context.Context, userID int, recordID string) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "ledger_service"),
	}
}

// List возвращает все записи пользователя
func (s *Service) List(ctx context.Context, userID int) (ListResponse, error) {
	records, err := s.repo.List(ctx, userID)
	if err != nil {
		s.log.Error("failed to list records", "user_id", userID, "error", err)
		return ListResponse{}, fmt.Errorf("list records: %w", err)
	}

	return ListResponse{
		Records: records,
		Total:   len(records),
	}, nil
}

// Upsert сохраняет запись: создает новую либо полностью заменяет
// существующую с тем же record_id. Повторный вызов с теми же данными безопасен.
func (s *Service) Upsert(ctx context.Context, userID int, rec *Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	if err := s.repo.Upsert(ctx, userID, rec); err != nil {
		s.log.Error("failed to upsert record",
			"user_id", userID, "record_id", rec.RecordID, "error", err)
		return "", fmt.Errorf("upsert record: %w", err)
	}

	return rec.RecordID, nil
}

// Delete удаляет запись. Удаление отсутствующей записи — не ошибка:
// целевое состояние (отсутствие записи) уже достигнуто.
func (s *Service) Delete(ctx context.Context, userID int, recordID string) error {
	if recordID == "" {
		return ErrInvalidData
	}

	deleted, err := s.repo.Delete(ctx, userID, recordID)
	if err != nil {
		s.log.Error("failed to delete record",
			"user_id", userID, "record_id", recordID, "error", err)
		return fmt.Errorf("delete record: %w", err)
	}

	if !deleted {
		s.log.Debug("delete of absent record treated as success",
			"user_id", userID, "record_id", recordID)
	}

	return nil
}
