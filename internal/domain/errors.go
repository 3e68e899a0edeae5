package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")

	// ErrHunterNotFound lets callers tell a missing hunter apart from a
	// missing quest when both can surface from one operation.
	ErrHunterNotFound = fmt.Errorf("hunter %w", ErrNotFound)
)
