package model

import "errors"

// Store-level sentinels shared by the postgres and in-memory repositories.
var (
	ErrNotFound      = errors.New("record not found")
	ErrStatusChanged = errors.New("record is no longer pending")
	ErrDuplicate     = errors.New("record already exists")
	ErrReferenced    = errors.New("record is referenced by other records")
)
