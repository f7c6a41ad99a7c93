package requestresponse

import (
	"cloud-drive/internal/model"
	"time"
)

type VersionResponse struct {
	VersionNumber int       `json:"version" example:"2"`
	Size          int64     `json:"size" example:"20"`
	Checksum      string    `json:"checksum" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	CreatedAt     time.Time `json:"created" example:"2026-08-23T12:34:56Z"`
	CreatedBy     string    `json:"created_by" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
}

func VersionResponsesFromModel(versions []model.Version) []VersionResponse {
	out := make([]VersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionResponse{
			VersionNumber: v.VersionNumber,
			Size:          v.Size,
			Checksum:      v.Checksum,
			CreatedAt:     v.CreatedAt.UTC(),
			CreatedBy:     v.CreatedBy,
		})
	}
	return out
}

type VersionListResponse struct {
	Data []VersionResponse `json:"data"`
}

type AccessResponse struct {
	Data model.AccessRef `json:"data"`
}

// CreateShareRequest : body of POST /api/nodes/{id}/shares
type CreateShareRequest struct {
	Permission string     `json:"permission" validate:"required,oneof=view download" example:"view"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" example:"2026-09-01T00:00:00Z"`
	Password   string     `json:"password,omitempty" validate:"omitempty,min=4,max=72" example:"s3cret"`
}

type ShareResponse struct {
	ShareID    string     `json:"share_id" example:"5d41402abc4b2a76b9719d911017c592"`
	FileID     string     `json:"file_id" example:"3f1b6a62-1f0e-4d0b-9a8e-5b7f0a0f2c11"`
	Permission string     `json:"permission" example:"view"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Revoked    bool       `json:"revoked" example:"false"`
	Protected  bool       `json:"protected" example:"false"`
	CreatedAt  time.Time  `json:"created" example:"2026-08-23T12:34:56Z"`
}

func ShareResponseFromModel(link *model.ShareLink) ShareResponse {
	return ShareResponse{
		ShareID:    link.ShareID,
		FileID:     link.FileID,
		Permission: string(link.Permission),
		ExpiresAt:  link.ExpiresAt,
		Revoked:    link.Revoked,
		Protected:  link.HasPassword(),
		CreatedAt:  link.CreatedAt.UTC(),
	}
}

type ShareEnvelope struct {
	Data ShareResponse `json:"data"`
}

type ShareListResponse struct {
	Data []ShareResponse `json:"data"`
}

type SharePreviewResponse struct {
	Data model.SharePreview `json:"data"`
}

type SyncReportRequest struct {
	Status string `json:"status" validate:"required,oneof=synced syncing error" example:"synced"`
}

type SimulateRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=synced error" example:"error"`
}

type SyncStatusResponse struct {
	Data []NodeResponse `json:"data"`
}

type QuotaResponse struct {
	Data model.Quota `json:"data"`
}

type StorageLimitRequest struct {
	Limit int64 `json:"limit" validate:"gte=0" example:"10737418240"`
}

type SoftDeleteResponse struct {
	BatchID string `json:"batch_id" example:"c0a8f3d2-7b7e-4d8a-9f59-0e5f3f4b6a21"`
}

type PermanentDeleteResponse struct {
	Removed int `json:"removed" example:"3"`
}
