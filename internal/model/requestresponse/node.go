package requestresponse

import (
	"cloud-drive/internal/model"
	"time"
)

// NodeResponse : the one client-facing shape of a node
type NodeResponse struct {
	ID             string     `json:"id" example:"3f1b6a62-1f0e-4d0b-9a8e-5b7f0a0f2c11"`
	OwnerID        string     `json:"owner" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	ParentID       string     `json:"parent,omitempty" example:"9a0f5b4e-6c8f-4a57-8d0e-8f6f3c3f2a10"`
	Kind           string     `json:"kind" example:"file"`
	Name           string     `json:"name" example:"report.pdf"`
	MimeType       string     `json:"mime,omitempty" example:"application/pdf"`
	Size           int64      `json:"size" example:"10240"`
	Version        int        `json:"version,omitempty" example:"2"`
	Tags           []string   `json:"tags" example:"work,tax"`
	Favorite       bool       `json:"favorite" example:"false"`
	Deleted        bool       `json:"deleted" example:"false"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeleteBatch    string     `json:"delete_batch,omitempty"`
	SyncStatus     string     `json:"sync_status,omitempty" example:"synced"`
	CreatedAt      time.Time  `json:"created" example:"2026-08-23T12:34:56Z"`
	UpdatedAt      time.Time  `json:"updated" example:"2026-08-23T12:34:56Z"`
	LastModifiedBy string     `json:"modified_by" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
}

const (
	kindFile   = "file"
	kindFolder = "folder"
)

// NodeResponseFromModel : the storage-to-client transform. StoragePath never leaves the core.
func NodeResponseFromModel(node *model.Node) NodeResponse {
	resp := NodeResponse{
		ID:             node.ID,
		OwnerID:        node.OwnerID,
		ParentID:       node.ParentKey(),
		Kind:           kindFile,
		Name:           node.Name,
		MimeType:       node.MimeType,
		Size:           node.Size,
		Version:        node.CurrentVersion,
		Tags:           []string(node.Tags),
		Favorite:       node.IsFavorite,
		Deleted:        node.IsDeleted,
		DeletedAt:      node.DeletedAt,
		SyncStatus:     string(node.SyncStatus),
		CreatedAt:      node.CreatedAt.UTC(),
		UpdatedAt:      node.UpdatedAt.UTC(),
		LastModifiedBy: node.LastModifiedBy,
	}
	if node.IsFolder {
		resp.Kind = kindFolder
	}
	if node.DeletedBatchID != nil {
		resp.DeleteBatch = *node.DeletedBatchID
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

// ToModel : the inverse of NodeResponseFromModel, used by clients of the API and by tests
func (r NodeResponse) ToModel() *model.Node {
	node := &model.Node{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		IsFolder:       r.Kind == kindFolder,
		Name:           r.Name,
		MimeType:       r.MimeType,
		Size:           r.Size,
		CurrentVersion: r.Version,
		Tags:           append([]string{}, r.Tags...),
		IsFavorite:     r.Favorite,
		IsDeleted:      r.Deleted,
		DeletedAt:      r.DeletedAt,
		SyncStatus:     model.SyncStatus(r.SyncStatus),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		LastModifiedBy: r.LastModifiedBy,
	}
	if r.ParentID != "" {
		parent := r.ParentID
		node.ParentID = &parent
	}
	if r.DeleteBatch != "" {
		batch := r.DeleteBatch
		node.DeletedBatchID = &batch
	}
	return node
}

func NodeResponsesFromModel(nodes []*model.Node) []NodeResponse {
	out := make([]NodeResponse, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, NodeResponseFromModel(node))
	}
	return out
}

// CreateFolderRequest : body of POST /api/nodes/folders
type CreateFolderRequest struct {
	ParentID string `json:"parent_id" validate:"omitempty,uuid" example:"9a0f5b4e-6c8f-4a57-8d0e-8f6f3c3f2a10"`
	Name     string `json:"name" validate:"required,max=255" example:"Docs"`
}

type RenameRequest struct {
	Name string `json:"name" validate:"required,max=255" example:"b.txt"`
}

type MoveRequest struct {
	ParentID string `json:"parent_id" validate:"omitempty,uuid" example:"9a0f5b4e-6c8f-4a57-8d0e-8f6f3c3f2a10"`
}

type FavoriteRequest struct {
	Favorite bool `json:"favorite" example:"true"`
}

type TagsRequest struct {
	Tags []string `json:"tags" validate:"max=32,dive,max=64" example:"work,tax"`
}

type NodeEnvelope struct {
	Data NodeResponse `json:"data"`
}

type NodeListResponse struct {
	Data  []NodeResponse `json:"data"`
	Count int            `json:"count" example:"10"`
}

// ErrorResponse : error body written by util.HandleError
type ErrorResponse struct {
	Error   string `json:"error" example:"Conflict"`
	Message string `json:"message" example:"name conflict"`
	Code    int    `json:"code" example:"409"`
}

type SuccessResponse struct {
	Message string `json:"message" example:"ok"`
}
