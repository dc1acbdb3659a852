package store

import "errors"

var (
	ErrNotFound        = errors.New("store: record not found")
	ErrUniqueViolation = errors.New("store: duplicate key value violates unique constraint")
)
