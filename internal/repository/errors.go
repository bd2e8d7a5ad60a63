package repository

import "errors"

// ErrNotFound is returned when a trip or region fare schedule does not
// exist in the store.
var ErrNotFound = errors.New("entity not found")
