package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound covers both true absence and resources owned by someone
	// else; callers cannot tell the two apart.
	ErrNotFound = errors.New("resource not found")

	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
)

// LimitExceededError signals a consumed daily LLM quota and carries the time
// the counter resets.
type LimitExceededError struct {
	NextReset time.Time
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily LLM request limit reached, resets at %s", e.NextReset.Format(time.RFC3339))
}
