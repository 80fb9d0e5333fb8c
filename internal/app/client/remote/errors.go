package remote

import "errors"

var (
	// ErrUnavailable — сервер недоступен: сетевая ошибка, таймаут или 5xx.
	// Такие ошибки поглощаются журналом отложенных операций и не ретраятся
	// на месте.
	ErrUnavailable = errors.New("remote service unavailable")

	// ErrUnauthenticated — сервер отверг учетные данные. Причина (нет токена,
	// испорчен, отозван) не различается.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrSessionExpired — срок действия токена истек; пользователю нужно
	// войти заново. Для движка синхронизации эквивалентна ErrUnauthenticated.
	ErrSessionExpired = errors.New("session expired, please re-authenticate")

	// ErrNotAuthorized — запись принадлежит другому пользователю
	ErrNotAuthorized = errors.New("not authorized for this resource")
)

// IsAuthError сообщает, требует ли ошибка повторной аутентификации.
// Такие ошибки никогда не откладываются в журнал.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrSessionExpired)
}
