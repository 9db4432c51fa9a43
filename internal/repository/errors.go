package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the store.
var ErrNotFound = errors.New("not found")

// ErrNotConfigured is returned by Open when the selected store is missing
// its endpoint or credentials.
var ErrNotConfigured = errors.New("store not configured")
