package user

import "errors"

var (
	ErrNotFound = errors.New("user not found")
	// ErrInvalidAuth возвращается и для неизвестного логина, и для неверного
	// пароля: различать их нельзя, иначе возможен перебор учетных записей.
	ErrInvalidAuth  = errors.New("invalid credentials")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("login already taken")
)
