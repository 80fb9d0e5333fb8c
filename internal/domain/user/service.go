package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, login, secret string) (Identity, error)
	Authenticate(ctx context.Context, login, secret string) (Identity, error)
	Find(ctx context.Context, id int) (Identity, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log.With("component", "user_service"),
	}
}

// Register создает нового пользователя
func (s *Service) Register(ctx context.Context, login, secret string) (Identity, error) {
	if err := s.validator.ValidateRegister(login, secret); err != nil {
		s.log.Debug("validation failed", "login", login, "error", err)
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	login = strings.TrimSpace(login)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("hash secret: %w", err)
	}

	id, err := s.repo.Create(ctx, login, string(hash))
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return Identity{}, ErrDuplicate
		}
		return Identity{}, fmt.Errorf("create user: %w", err)
	}

	return Identity{ID: id, DisplayName: login}, nil
}

// Authenticate проверяет логин и пароль. Любая причина отказа
// (нет пользователя, неверный пароль) возвращает один и тот же ErrInvalidAuth.
func (s *Service) Authenticate(ctx context.Context, login, secret string) (Identity, error) {
	if err := s.validator.ValidateLogin(login); err != nil {
		return Identity{}, ErrInvalidAuth
	}

	u, err := s.repo.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return Identity{}, ErrInvalidAuth
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(secret)); err != nil {
		return Identity{}, ErrInvalidAuth
	}

	return Identity{ID: u.ID, DisplayName: u.Login}, nil
}

// Find возвращает Identity по идентификатору
func (s *Service) Find(ctx context.Context, id int) (Identity, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Identity{}, ErrNotFound
	}
	return Identity{ID: u.ID, DisplayName: u.Login}, nil
}
