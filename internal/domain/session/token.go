package session

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Формат токена: <случайная часть base64url>.<unix-время истечения>.
// Срок действия вшит в сам токен, чтобы клиент мог определить истекшую
// сессию локально, без обращения к серверу. Случайная часть сервером
// хранится только в виде хэша.

var ErrMalformedToken = errors.New("malformed token")

// ExpiresAt извлекает время истечения из токена
func ExpiresAt(token string) (time.Time, error) {
	idx := strings.LastIndex(token, ".")
	if idx < 0 || idx == len(token)-1 {
		return time.Time{}, ErrMalformedToken
	}

	unix, err := strconv.ParseInt(token[idx+1:], 10, 64)
	if err != nil {
		return time.Time{}, ErrMalformedToken
	}

	return time.Unix(unix, 0), nil
}

// IsExpired проверяет, истек ли токен на текущий момент.
// Нечитаемый токен считается истекшим.
func IsExpired(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}
