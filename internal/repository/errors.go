package repository

import "errors"

var (
	// ErrNotFound is returned (wrapped) when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned (wrapped) when a conditional write matched no
	// row because another writer got there first.
	ErrConflict = errors.New("concurrent modification")
)
