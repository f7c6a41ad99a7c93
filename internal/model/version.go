package model

import "time"

// Version : immutable content snapshot of a file node
type Version struct {
	FileID        string    `db:"file_id" json:"file_id"`
	VersionNumber int       `db:"version_number" json:"version_number"`
	StoragePath   string    `db:"storage_path" json:"-"`
	Size          int64     `db:"size" json:"size"`
	Checksum      string    `db:"checksum" json:"checksum"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	CreatedBy     string    `db:"created_by" json:"created_by"`
}

// ContentRef : bytes already written to object storage
type ContentRef struct {
	StoragePath string
	Size        int64
	Checksum    string
}

// AccessRef : time-limited reference handed to clients instead of a storage path
type AccessRef struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AccessMode int

const (
	AccessPreview AccessMode = iota
	AccessDownload
)

// AccessOptions : how the signed URL should present the object
type AccessOptions struct {
	Mode        AccessMode
	Filename    string
	ContentType string
}
