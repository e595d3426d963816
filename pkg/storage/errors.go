package storage

import "errors"

// ErrAccountNotFound is returned when no account exists for a username.
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned when creating an account whose username is
// already taken.
var ErrAccountExists = errors.New("account already exists")

// ErrVersionConflict is returned when a conditional update loses the race
// against a concurrent mutation of the same record. Callers re-read and
// retry.
var ErrVersionConflict = errors.New("account modified since read")
