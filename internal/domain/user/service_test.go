package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type fakeRepo struct {
	users  map[string]User
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]User), nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, login, passwordHash string) (int, error) {
	if _, ok := f.users[login]; ok {
		return 0, ErrDuplicate
	}
	id := f.nextID
	f.nextID++
	f.users[login] = User{ID: id, Login: login, PasswordHash: passwordHash}
	return id, nil
}

func (f *fakeRepo) FindByLogin(_ context.Context, login string) (User, error) {
	u, ok := f.users[login]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int) (User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func newService(repo Repository) *Service {
	return NewService(repo, NewCredentialsValidator(), slog.Default())
}

func TestService_Register(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	id, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.DisplayName)
	assert.NotZero(t, id.ID)

	// Пароль хранится как bcrypt-хэш, не в открытом виде
	stored := repo.users["alice"]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestService_Register_TrimsLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	id, err := svc.Register(context.Background(), "  alice  ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.DisplayName)
}

func TestService_Register_Invalid(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Register(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), "alice", "123")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Register_Duplicate(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "another1")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestService_Authenticate(t *testing.T) {
	svc := newService(newFakeRepo())

	reg, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	id, err := svc.Authenticate(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, id.ID)
}

func TestService_Authenticate_Uniform(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	// Неизвестный пользователь и неверный пароль неразличимы для вызывающего
	_, errUnknown := svc.Authenticate(context.Background(), "nobody", "secret1")
	_, errWrongPass := svc.Authenticate(context.Background(), "alice", "wrongpass")

	assert.ErrorIs(t, errUnknown, ErrInvalidAuth)
	assert.ErrorIs(t, errWrongPass, ErrInvalidAuth)
	assert.True(t, errors.Is(errUnknown, errWrongPass))
}

func TestService_Find(t *testing.T) {
	svc := newService(newFakeRepo())

	reg, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	id, err := svc.Find(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.DisplayName)

	_, err = svc.Find(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
