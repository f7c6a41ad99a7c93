package model

import (
	"fmt"
	"github.com/lib/pq"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusError   SyncStatus = "error"
)

// Node : file or folder in an owner's tree. Only the owner's root has a nil ParentID.
type Node struct {
	ID             string         `db:"id" json:"id"`
	OwnerID        string         `db:"owner_id" json:"owner_id"`
	ParentID       *string        `db:"parent_id" json:"parent_id"`
	IsFolder       bool           `db:"is_folder" json:"is_folder"`
	Name           string         `db:"name" json:"name"`
	MimeType       string         `db:"mime_type" json:"mime_type"`
	Size           int64          `db:"size" json:"size"`
	StoragePath    string         `db:"storage_path" json:"storage_path"`
	CurrentVersion int            `db:"current_version" json:"current_version"`
	Tags           pq.StringArray `db:"tags" json:"tags"`
	IsDeleted      bool           `db:"is_deleted" json:"is_deleted"`
	DeletedAt      *time.Time     `db:"deleted_at" json:"deleted_at,omitempty"`
	DeletedBatchID *string        `db:"deleted_batch_id" json:"deleted_batch_id,omitempty"`
	IsFavorite     bool           `db:"is_favorite" json:"is_favorite"`
	SyncStatus     SyncStatus     `db:"sync_status" json:"sync_status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
	LastModifiedBy string         `db:"last_modified_by" json:"last_modified_by"`
}

func (n *Node) IsRoot() bool {
	return n.ParentID == nil
}

func (n *Node) ParentKey() string {
	if n.ParentID == nil {
		return ""
	}
	return *n.ParentID
}

// NodeRef : the minimum needed to walk a subtree
type NodeRef struct {
	ID       string `db:"id"`
	IsFolder bool   `db:"is_folder"`
	Size     int64  `db:"size"`
}

type SortField string

const (
	SortByName      SortField = "name"
	SortByUpdatedAt SortField = "updated_at"
	SortByCreatedAt SortField = "created_at"
	SortBySize      SortField = "size"
)

type ListOptions struct {
	IncludeDeleted bool
	Sort           SortField
	Descending     bool
}

// Normalize : unknown sort fields fall back to name ordering
func (o ListOptions) Normalize() ListOptions {
	switch o.Sort {
	case SortByName, SortByUpdatedAt, SortByCreatedAt, SortBySize:
	default:
		o.Sort = SortByName
	}
	return o
}

// FileType : categories for the recent-files query
type FileType string

const (
	FileTypeAll      FileType = "all"
	FileTypeImage    FileType = "image"
	FileTypeVideo    FileType = "video"
	FileTypeAudio    FileType = "audio"
	FileTypeDocument FileType = "document"
	FileTypeArchive  FileType = "archive"
)

var fileTypeMimePrefixes = map[FileType][]string{
	FileTypeImage: {"image/"},
	FileTypeVideo: {"video/"},
	FileTypeAudio: {"audio/"},
	FileTypeDocument: {
		"text/",
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument",
		"application/vnd.oasis.opendocument",
		"application/rtf",
	},
	FileTypeArchive: {
		"application/zip",
		"application/x-tar",
		"application/gzip",
		"application/x-7z-compressed",
		"application/x-rar-compressed",
	},
}

// MimePrefixes : nil means no filtering
func (t FileType) MimePrefixes() ([]string, error) {
	if t == "" || t == FileTypeAll {
		return nil, nil
	}
	prefixes, ok := fileTypeMimePrefixes[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown file type %q", ErrValidation, t)
	}
	return prefixes, nil
}

const MaxNameLength = 255

// ValidateName : sibling names are opaque strings but never path-like
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	case name == "." || name == "..":
		return fmt.Errorf("%w: name %q is reserved", ErrValidation, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: name must not contain path separators", ErrValidation)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: name must be valid UTF-8", ErrValidation)
	case utf8.RuneCountInString(name) > MaxNameLength:
		return fmt.Errorf("%w: name longer than %d characters", ErrValidation, MaxNameLength)
	}
	return nil
}

const (
	MaxTags      = 32
	MaxTagLength = 64
)

// NormalizeTags : trims, lowercases, drops empties and duplicates, sorts
func NormalizeTags(tags []string) ([]string, error) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, fmt.Errorf("%w: tag %q longer than %d characters", ErrValidation, tag, MaxTagLength)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) > MaxTags {
		return nil, fmt.Errorf("%w: at most %d tags", ErrValidation, MaxTags)
	}
	sort.Strings(out)
	return out, nil
}
