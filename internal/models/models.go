package models

import (
	"errors"
	"time"
)

// UserProfile is a stored user profile. Stores only need its identity.
type UserProfile struct {
	ID        string    `json:"id" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StorageTypeUnknown = iota
	StorageTypePlaceholder
	StorageTypeBackend
	StorageTypePostgresql
	StorageTypeSQLite
	StorageTypeFile
)

// ErrProfileNotFound is returned by profile removers when there is no profile with the given ID.
var ErrProfileNotFound = errors.New("the user profile not found")
