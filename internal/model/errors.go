package model

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrNameConflict       = errors.New("name conflict")
	ErrCyclicMove         = errors.New("cyclic move")
	ErrVersionNotFound    = errors.New("version not found")
	ErrShareExpired       = errors.New("share link expired")
	ErrShareRevoked       = errors.New("share link revoked")
	ErrValidation         = errors.New("validation error")
	ErrStorageUnavailable = errors.New("storage backend unavailable")
)
