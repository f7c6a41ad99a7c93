package model

import (
	"fmt"
	"time"
)

// EventSchemaVersion : bumped on any incompatible payload change
const EventSchemaVersion = 1

type EventName string

const (
	EventFileCreated    EventName = "file-created"
	EventFileUpdated    EventName = "file-updated"
	EventFolderCreated  EventName = "folder-created"
	EventFileShared     EventName = "file-shared"
	EventCommentAdded   EventName = "comment-added"
	EventCommentUpdated EventName = "comment-updated"
	EventCommentDeleted EventName = "comment-deleted"
)

// Event : the envelope pushed to the realtime collaborator
type Event struct {
	Name       EventName `json:"name"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type NodeEventPayload struct {
	NodeID     string     `json:"node_id"`
	ParentID   *string    `json:"parent_id"`
	Name       string     `json:"name"`
	IsFolder   bool       `json:"is_folder"`
	Size       int64      `json:"size"`
	MimeType   string     `json:"mime_type,omitempty"`
	Version    int        `json:"version,omitempty"`
	SyncStatus SyncStatus `json:"sync_status,omitempty"`
	IsDeleted  bool       `json:"is_deleted"`
	ActorID    string     `json:"actor_id"`
}

type FileSharedPayload struct {
	FileID     string     `json:"file_id"`
	ShareID    string     `json:"share_id"`
	Permission Permission `json:"permission"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Revoked    bool       `json:"revoked"`
}

type CommentPayload struct {
	CommentID string `json:"comment_id"`
	FileID    string `json:"file_id"`
	AuthorID  string `json:"author_id"`
	Body      string `json:"body,omitempty"`
}

func NodePayload(n *Node, actorID string) NodeEventPayload {
	return NodeEventPayload{
		NodeID:     n.ID,
		ParentID:   n.ParentID,
		Name:       n.Name,
		IsFolder:   n.IsFolder,
		Size:       n.Size,
		MimeType:   n.MimeType,
		Version:    n.CurrentVersion,
		SyncStatus: n.SyncStatus,
		IsDeleted:  n.IsDeleted,
		ActorID:    actorID,
	}
}

// NewEvent : rejects payloads that do not belong to the event name
func NewEvent(name EventName, occurredAt time.Time, payload any) (Event, error) {
	var ok bool
	switch name {
	case EventFileCreated, EventFileUpdated, EventFolderCreated:
		_, ok = payload.(NodeEventPayload)
	case EventFileShared:
		_, ok = payload.(FileSharedPayload)
	case EventCommentAdded, EventCommentUpdated, EventCommentDeleted:
		_, ok = payload.(CommentPayload)
	default:
		return Event{}, fmt.Errorf("%w: unknown event %q", ErrValidation, name)
	}
	if !ok {
		return Event{}, fmt.Errorf("%w: payload %T does not match event %q", ErrValidation, payload, name)
	}

	return Event{
		Name:       name,
		Version:    EventSchemaVersion,
		OccurredAt: occurredAt.UTC(),
		Payload:    payload,
	}, nil
}
