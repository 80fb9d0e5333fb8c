package session

import (
	"encoding/json"
	"fmt"

	"monthledger/internal/app/client/kvstore"
	"monthledger/internal/domain/user"
)

const (
	credentialKey = "session/credential"
	identityKey   = "session/identity"
)

// CredentialStore хранит учетные данные сессии между запусками процесса.
// Пара (токен, владелец) читается и стирается атомарно с точки зрения
// вызывающего: частично сохраненная сессия считается отсутствующей.
type CredentialStore struct {
	store kvstore.Store
}

func NewCredentialStore(store kvstore.Store) *CredentialStore {
	return &CredentialStore{store: store}
}

// Save сохраняет токен и владельца сессии
func (s *CredentialStore) Save(credential string, id user.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("ошибка сериализации владельца сессии: %w", err)
	}

	if err := s.store.Set(credentialKey, []byte(credential)); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	if err := s.store.Set(identityKey, data); err != nil {
		return fmt.Errorf("ошибка сохранения владельца сессии: %w", err)
	}
	return nil
}

// Load возвращает сохраненную сессию. Второе значение false означает,
// что сохраненной сессии нет.
func (s *CredentialStore) Load() (string, user.Identity, bool, error) {
	cred, ok, err := s.store.Get(credentialKey)
	if err != nil {
		return "", user.Identity{}, false, fmt.Errorf("ошибка чтения токена: %w", err)
	}
	if !ok {
		return "", user.Identity{}, false, nil
	}

	data, ok, err := s.store.Get(identityKey)
	if err != nil {
		return "", user.Identity{}, false, fmt.Errorf("ошибка чтения владельца сессии: %w", err)
	}
	if !ok {
		return "", user.Identity{}, false, nil
	}

	var id user.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return "", user.Identity{}, false, fmt.Errorf("ошибка разбора владельца сессии: %w", err)
	}

	return string(cred), id, true, nil
}

// Clear стирает сохраненную сессию. Идемпотентна.
func (s *CredentialStore) Clear() error {
	if err := s.store.Delete(credentialKey); err != nil {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	if err := s.store.Delete(identityKey); err != nil {
		return fmt.Errorf("ошибка удаления владельца сессии: %w", err)
	}
	return nil
}
