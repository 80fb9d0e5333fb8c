package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/exp/slog"
)

const TokenTTL = 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session")

type Servicer interface {
	Create(ctx context.Context, userID int) (string, error)
	Validate(ctx context.Context, token string) (int, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create выпускает токен с вшитым сроком действия и сохраняет его хэш
func (s *Service) Create(ctx context.Context, userID int) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	expiresAt := time.Now().Add(TokenTTL)
	token := base64.RawURLEncoding.EncodeToString(tokenBytes) +
		"." + strconv.FormatInt(expiresAt.Unix(), 10)

	tokenHash := sha256.Sum256([]byte(token))
	if err := s.repo.Create(ctx, userID, hex.EncodeToString(tokenHash[:]), expiresAt); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return token, nil
}

// PurgeExpired вычищает просроченные сессии из хранилища.
// Validate и так отвергает истекшие токены; чистка лишь не дает
// таблице сессий расти бесконечно.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}

	if n > 0 {
		s.log.Info("expired sessions purged", "count", n)
	}
	return n, nil
}

// Validate проверяет токен и возвращает идентификатор пользователя
func (s *Service) Validate(ctx context.Context, token string) (int, error) {
	if IsExpired(token, time.Now()) {
		return 0, ErrInvalidSession
	}

	tokenHash := sha256.Sum256([]byte(token))

	userID, err := s.repo.Validate(ctx, hex.EncodeToString(tokenHash[:]))
	if err != nil {
		return 0, ErrInvalidSession
	}

	return userID, nil
}
