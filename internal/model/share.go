package model

import (
	"fmt"
	"time"
)

type Permission string

const (
	PermissionView     Permission = "view"
	PermissionDownload Permission = "download"
)

func ParsePermission(value string) (Permission, error) {
	switch Permission(value) {
	case PermissionView, PermissionDownload:
		return Permission(value), nil
	}
	return "", fmt.Errorf("%w: unknown permission %q", ErrValidation, value)
}

type ShareLink struct {
	ShareID      string     `db:"share_id" json:"share_id"`
	FileID       string     `db:"file_id" json:"file_id"`
	Permission   Permission `db:"permission" json:"permission"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	Revoked      bool       `db:"revoked" json:"revoked"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	CreatedBy    string     `db:"created_by" json:"created_by"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// Usability : revocation wins over expiry; expired means now >= expires_at
func (l *ShareLink) Usability(now time.Time) error {
	if l.Revoked {
		return ErrShareRevoked
	}
	if l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return ErrShareExpired
	}
	return nil
}

func (l *ShareLink) HasPassword() bool {
	return l.PasswordHash != nil && *l.PasswordHash != ""
}

// SharePreview : what an anonymous holder of the link may see
type SharePreview struct {
	Name       string     `json:"name"`
	Size       int64      `json:"size"`
	MimeType   string     `json:"mime_type"`
	Permission Permission `json:"permission"`
}
