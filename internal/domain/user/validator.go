package user

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxLoginLen  = 64
	MinSecretLen = 6
)

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateRegister(login, secret string) error
	ValidateLogin(login string) error
	ValidateSecret(secret string) error
}

type CredentialsValidator struct{}

// NewCredentialsValidator создает новый валидатор
func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{}
}

// ValidateRegister валидирует данные для регистрации
func (v *CredentialsValidator) ValidateRegister(login, secret string) error {
	if err := v.ValidateLogin(login); err != nil {
		return err
	}
	return v.ValidateSecret(secret)
}

// ValidateLogin валидирует логин: непустой после обрезки пробелов
func (v *CredentialsValidator) ValidateLogin(login string) error {
	trimmed := strings.TrimSpace(login)
	if trimmed == "" {
		return fmt.Errorf("login must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxLoginLen {
		return fmt.Errorf("login must be at most %d characters", MaxLoginLen)
	}
	return nil
}

// ValidateSecret валидирует пароль
func (v *CredentialsValidator) ValidateSecret(secret string) error {
	if utf8.RuneCountInString(secret) < MinSecretLen {
		return fmt.Errorf("secret must be at least %d characters", MinSecretLen)
	}
	return nil
}
