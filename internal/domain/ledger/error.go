package ledger

import (
	"errors"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrInvalidData = errors.New("invalid record data")
	ErrNotOwner    = errors.New("record belongs to another user")
)
