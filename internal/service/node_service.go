package service

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"cloud-drive/internal/storage"
	"cloud-drive/internal/util"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"strings"
	"time"
)

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 200
	genericMimeType    = "application/octet-stream"
)

type NodeService struct {
	core
}

func NewNodeService(deps Dependencies) *NodeService {
	return &NodeService{core: newCore(deps)}
}

// Root : the owner's root folder, created on first access
func (s *NodeService) Root(ctx context.Context, ownerID string) (root *model.Node, err error) {
	defer s.observe("root", time.Now(), &err)

	exec, rollback, commit, err := s.begin(ctx, "NodeService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	if _, err = s.lockTree(ctx, exec, ownerID); err != nil {
		return nil, util.LogError("[NodeService] lock tree", err)
	}
	if root, err = s.ensureRoot(ctx, exec, ownerID); err != nil {
		return nil, util.LogError("[NodeService] resolve root", err)
	}
	if err = commit(); err != nil {
		return nil, util.LogError("[NodeService] commit root", err)
	}
	return root, nil
}

// GetNode : trashed nodes are still visible to their owner
func (s *NodeService) GetNode(ctx context.Context, ownerID, nodeID string) (*model.Node, error) {
	node, err := s.loadOwned(ctx, s.Tx.Conn(), ownerID, nodeID, false)
	if err != nil {
		return nil, util.LogError("[NodeService] get node", err)
	}
	return node, nil
}

// CreateFolder : NameConflict when a live sibling has the same name
func (s *NodeService) CreateFolder(ctx context.Context, ownerID, parentID, name string) (folder *model.Node, err error) {
	defer s.observe("create_folder", time.Now(), &err)

	if err = model.ValidateName(name); err != nil {
		return nil, err
	}

	exec, rollback, commit, err := s.begin(ctx, "NodeService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	if _, err = s.lockTree(ctx, exec, ownerID); err != nil {
		return nil, util.LogError("[NodeService] lock tree", err)
	}
	parent, err := s.resolveParent(ctx, exec, ownerID, parentID)
	if err != nil {
		return nil, util.LogError("[NodeService] resolve parent", err)
	}
	depth, err := s.depth(ctx, exec, parent)
	if err != nil {
		return nil, util.LogError("[NodeService] measure depth", err)
	}
	if depth+1 > s.Options.MaxDepth {
		return nil, fmt.Errorf("%w: folders nest at most %d levels", model.ErrValidation, s.Options.MaxDepth)
	}
	if err = s.ensureNameFree(ctx, exec, parent.ID, name, ""); err != nil {
		return nil, err
	}

	now := s.now()
	folder = &model.Node{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		ParentID:       &parent.ID,
		IsFolder:       true,
		Name:           name,
		Tags:           []string{},
		SyncStatus:     model.SyncStatusSynced,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastModifiedBy: ownerID,
	}
	if err = s.Nodes.CreateNode(ctx, exec, folder); err != nil {
		return nil, util.LogError("[NodeService] create folder", err)
	}
	if err = commit(); err != nil {
		return nil, util.LogError("[NodeService] commit folder", err)
	}

	logging.Info("[NodeService] folder created", zap.String("id", folder.ID), zap.String("owner", ownerID))
	s.publishNode(ctx, model.EventFolderCreated, folder, ownerID)
	return folder, nil
}

// CreateFile : registers bytes already in storage as a new file with version 1
func (s *NodeService) CreateFile(ctx context.Context, ownerID, parentID, name, mimeType string, content model.ContentRef) (file *model.Node, err error) {
	defer s.observe("create_file", time.Now(), &err)

	if err = model.ValidateName(name); err != nil {
		return nil, err
	}
	if file, err = s.createFile(ctx, uuid.NewString(), ownerID, parentID, name, mimeType, content); err != nil {
		return nil, err
	}
	s.publishNode(ctx, model.EventFileCreated, file, ownerID)
	return file, nil
}

// UploadFile : stores the bytes, then creates the file; the object is removed again if creation fails
func (s *NodeService) UploadFile(ctx context.Context, ownerID, parentID, name, mimeType string, content []byte) (file *model.Node, err error) {
	defer s.observe("upload_file", time.Now(), &err)

	if err = model.ValidateName(name); err != nil {
		return nil, err
	}
	size := int64(len(content))
	if err = s.precheckQuota(ctx, ownerID, size); err != nil {
		return nil, err
	}

	fileID := uuid.NewString()
	mimeType = detectMimeType(mimeType, content)
	ref := model.ContentRef{
		StoragePath: storage.ObjectKey(ownerID, fileID),
		Size:        size,
		Checksum:    checksum(content),
	}
	if err = s.Storage.Put(ctx, ref.StoragePath, content, mimeType); err != nil {
		return nil, util.LogError("[NodeService] store upload", err)
	}

	file, err = s.createFile(ctx, fileID, ownerID, parentID, name, mimeType, ref)
	if err != nil {
		s.deleteObjectQuietly(context.WithoutCancel(ctx), ref.StoragePath, "NodeService")
		return nil, err
	}

	logging.Info("[NodeService] file uploaded",
		zap.String("id", file.ID), zap.String("owner", ownerID), zap.Int64("size", size))
	s.publishNode(ctx, model.EventFileCreated, file, ownerID)
	return file, nil
}

func (s *NodeService) createFile(ctx context.Context, fileID, ownerID, parentID, name, mimeType string, content model.ContentRef) (*model.Node, error) {
	if content.Size < 0 {
		return nil, fmt.Errorf("%w: negative size", model.ErrValidation)
	}

	exec, rollback, commit, err := s.begin(ctx, "NodeService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	if _, err := s.lockTree(ctx, exec, ownerID); err != nil {
		return nil, util.LogError("[NodeService] lock tree", err)
	}
	parent, err := s.resolveParent(ctx, exec, ownerID, parentID)
	if err != nil {
		return nil, util.LogError("[NodeService] resolve parent", err)
	}
	if err := s.ensureNameFree(ctx, exec, parent.ID, name, ""); err != nil {
		return nil, err
	}
	if err := s.adjustQuota(ctx, exec, ownerID, content.Size); err != nil {
		return nil, util.LogError("[NodeService] charge quota", err)
	}

	now := s.now()
	file := &model.Node{
		ID:             fileID,
		OwnerID:        ownerID,
		ParentID:       &parent.ID,
		Name:           name,
		MimeType:       mimeType,
		Size:           content.Size,
		StoragePath:    content.StoragePath,
		CurrentVersion: 1,
		Tags:           []string{},
		SyncStatus:     model.SyncStatusSyncing,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastModifiedBy: ownerID,
	}
	if err := s.Nodes.CreateNode(ctx, exec, file); err != nil {
		return nil, util.LogError("[NodeService] create file", err)
	}
	first := &model.Version{
		FileID:        fileID,
		VersionNumber: 1,
		StoragePath:   content.StoragePath,
		Size:          content.Size,
		Checksum:      content.Checksum,
		CreatedAt:     now,
		CreatedBy:     ownerID,
	}
	if err := s.Versions.InsertVersion(ctx, exec, first); err != nil {
		return nil, util.LogError("[NodeService] insert first version", err)
	}
	if err := commit(); err != nil {
		return nil, util.LogError("[NodeService] commit file", err)
	}
	return file, nil
}

// precheckQuota : rejects obviously oversized uploads before any bytes are stored.
// The charge itself happens later under the quota row lock.
func (s *NodeService) precheckQuota(ctx context.Context, ownerID string, size int64) error {
	conn := s.Tx.Conn()
	if err := s.Quotas.EnsureQuota(ctx, conn, ownerID, s.Options.DefaultQuota); err != nil {
		return util.LogError("[NodeService] ensure quota", err)
	}
	quota, err := s.Quotas.GetQuota(ctx, conn, ownerID)
	if err != nil {
		return util.LogError("[NodeService] read quota", err)
	}
	if !quota.Allows(size) {
		return fmt.Errorf("%w: %d bytes requested, %d available", model.ErrQuotaExceeded, size, quota.Available())
	}
	return nil
}

// Rename : same name is a no-op, the root cannot be renamed
func (s *NodeService) Rename(ctx context.Context, actorID, nodeID, newName string) (node *model.Node, err error) {
	defer s.observe("rename", time.Now(), &err)

	if err = model.ValidateName(newName); err != nil {
		return nil, err
	}

	return s.mutate(ctx, actorID, nodeID, true, func(exec sqlx.ExtContext, node *model.Node) (bool, error) {
		if node.IsRoot() {
			return false, fmt.Errorf("%w: the root folder cannot be renamed", model.ErrValidation)
		}
		if node.Name == newName {
			return false, nil
		}
		if err := s.ensureNameFree(ctx, exec, *node.ParentID, newName, node.ID); err != nil {
			return false, err
		}
		return true, s.Nodes.UpdateName(ctx, exec, node.ID, newName, actorID, s.now())
	})
}

// Move : CyclicMove when the destination is the node itself or one of its descendants
func (s *NodeService) Move(ctx context.Context, actorID, nodeID, newParentID string) (node *model.Node, err error) {
	defer s.observe("move", time.Now(), &err)

	return s.mutate(ctx, actorID, nodeID, true, func(exec sqlx.ExtContext, node *model.Node) (bool, error) {
		if node.IsRoot() {
			return false, fmt.Errorf("%w: the root folder cannot be moved", model.ErrValidation)
		}
		if newParentID == node.ID {
			return false, fmt.Errorf("%w: %s into itself", model.ErrCyclicMove, node.ID)
		}
		dest, err := s.resolveParent(ctx, exec, actorID, newParentID)
		if err != nil {
			return false, err
		}
		if dest.ID == *node.ParentID {
			return false, nil
		}
		destDepth, err := s.checkNotDescendant(ctx, exec, node.ID, dest)
		if err != nil {
			return false, err
		}
		if node.IsFolder {
			height, err := s.subtreeHeight(ctx, exec, node.ID, s.Options.MaxDepth-destDepth)
			if err != nil {
				return false, err
			}
			if destDepth+1+height > s.Options.MaxDepth {
				return false, fmt.Errorf("%w: folders nest at most %d levels", model.ErrValidation, s.Options.MaxDepth)
			}
		}
		if err := s.ensureNameFree(ctx, exec, dest.ID, node.Name, node.ID); err != nil {
			return false, err
		}
		return true, s.Nodes.UpdateParent(ctx, exec, node.ID, dest.ID, actorID, s.now())
	})
}

// checkNotDescendant : walks the destination's ancestors up to the root and returns the destination depth
func (s *NodeService) checkNotDescendant(ctx context.Context, exec sqlx.ExtContext, nodeID string, dest *model.Node) (int, error) {
	current := dest
	for depth := 0; ; depth++ {
		if current.ID == nodeID {
			return 0, fmt.Errorf("%w: destination is inside %s", model.ErrCyclicMove, nodeID)
		}
		if current.IsRoot() {
			return depth, nil
		}
		if depth >= s.Options.MaxDepth {
			return 0, fmt.Errorf("%w: tree deeper than %d", model.ErrValidation, s.Options.MaxDepth)
		}
		parent, err := s.Nodes.GetNode(ctx, exec, *current.ParentID)
		if err != nil {
			return 0, err
		}
		current = parent
	}
}

// subtreeHeight : folder levels below nodeID, stops counting once limit is passed
func (s *NodeService) subtreeHeight(ctx context.Context, exec sqlx.ExtContext, nodeID string, limit int) (int, error) {
	height := 0
	level := []string{nodeID}
	for height <= limit {
		refs, err := s.Nodes.ListChildRefs(ctx, exec, level)
		if err != nil {
			return 0, err
		}
		next := make([]string, 0, len(refs))
		for _, ref := range refs {
			if ref.IsFolder {
				next = append(next, ref.ID)
			}
		}
		if len(next) == 0 {
			return height, nil
		}
		height++
		level = next
	}
	return height, nil
}

func (s *NodeService) SetFavorite(ctx context.Context, actorID, nodeID string, favorite bool) (node *model.Node, err error) {
	defer s.observe("set_favorite", time.Now(), &err)

	return s.mutate(ctx, actorID, nodeID, false, func(exec sqlx.ExtContext, node *model.Node) (bool, error) {
		if node.IsFavorite == favorite {
			return false, nil
		}
		return true, s.Nodes.UpdateFavorite(ctx, exec, node.ID, favorite, actorID, s.now())
	})
}

func (s *NodeService) SetTags(ctx context.Context, actorID, nodeID string, tags []string) (node *model.Node, err error) {
	defer s.observe("set_tags", time.Now(), &err)

	normalized, err := model.NormalizeTags(tags)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actorID, nodeID, false, func(exec sqlx.ExtContext, node *model.Node) (bool, error) {
		return true, s.Nodes.UpdateTags(ctx, exec, node.ID, normalized, actorID, s.now())
	})
}

// mutate : loads a live owned node under lock, applies change and publishes file-updated when it changed something
func (s *NodeService) mutate(ctx context.Context, actorID, nodeID string, structural bool,
	change func(exec sqlx.ExtContext, node *model.Node) (bool, error)) (*model.Node, error) {

	exec, rollback, commit, err := s.begin(ctx, "NodeService")
	if err != nil {
		return nil, err
	}
	defer rollback()

	if structural {
		if _, err := s.lockTree(ctx, exec, actorID); err != nil {
			return nil, util.LogError("[NodeService] lock tree", err)
		}
	}
	node, err := s.loadLiveOwned(ctx, exec, actorID, nodeID, true)
	if err != nil {
		return nil, util.LogError("[NodeService] load node", err)
	}

	changed, err := change(exec, node)
	if err != nil {
		return nil, util.LogError("[NodeService] update node", err)
	}
	if !changed {
		return node, nil
	}

	if node, err = s.Nodes.GetNode(ctx, exec, nodeID); err != nil {
		return nil, util.LogError("[NodeService] reload node", err)
	}
	if err := commit(); err != nil {
		return nil, util.LogError("[NodeService] commit update", err)
	}

	s.publishNode(ctx, model.EventFileUpdated, node, actorID)
	return node, nil
}

// ListChildren : an empty parentID lists the owner's root
func (s *NodeService) ListChildren(ctx context.Context, ownerID, parentID string, opts model.ListOptions) ([]*model.Node, error) {
	conn := s.Tx.Conn()

	var parent *model.Node
	var err error
	if parentID == "" {
		parent, err = s.Root(ctx, ownerID)
	} else if opts.IncludeDeleted {
		parent, err = s.loadOwned(ctx, conn, ownerID, parentID, false)
	} else {
		parent, err = s.loadLiveOwned(ctx, conn, ownerID, parentID, false)
	}
	if err != nil {
		return nil, util.LogError("[NodeService] resolve folder", err)
	}
	if !parent.IsFolder {
		return nil, fmt.Errorf("%w: %s is not a folder", model.ErrValidation, parentID)
	}

	children, err := s.Nodes.ListChildren(ctx, conn, parent.ID, opts.Normalize())
	if err != nil {
		return nil, util.LogError("[NodeService] list children", err)
	}
	return children, nil
}

// ListRecent : newest first; limit defaults to 50 and is capped at 200
func (s *NodeService) ListRecent(ctx context.Context, ownerID string, fileType model.FileType, limit int) ([]*model.Node, error) {
	prefixes, err := fileType.MimePrefixes()
	if err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}

	nodes, err := s.Nodes.ListRecent(ctx, s.Tx.Conn(), ownerID, prefixes, limit)
	if err != nil {
		return nil, util.LogError("[NodeService] list recent", err)
	}
	return nodes, nil
}

// GetPath : chain from the root down to the node
func (s *NodeService) GetPath(ctx context.Context, ownerID, nodeID string) ([]*model.Node, error) {
	conn := s.Tx.Conn()
	node, err := s.loadOwned(ctx, conn, ownerID, nodeID, false)
	if err != nil {
		return nil, util.LogError("[NodeService] get path", err)
	}

	path := []*model.Node{node}
	for !node.IsRoot() {
		if len(path) > s.Options.MaxDepth {
			return nil, fmt.Errorf("%w: ancestor chain of %s exceeds %d", model.ErrValidation, nodeID, s.Options.MaxDepth)
		}
		parent, err := s.Nodes.GetNode(ctx, conn, *node.ParentID)
		if errors.Is(err, model.ErrNotFound) {
			logging.Error("[NodeService] broken ancestor chain", zap.String("node", nodeID), zap.String("missing", *node.ParentID))
		}
		if err != nil {
			return nil, util.LogError("[NodeService] walk ancestors", err)
		}
		path = append(path, parent)
		node = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// detectMimeType : sniffs the content when the client sent nothing useful
func detectMimeType(declared string, content []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != genericMimeType {
		return declared
	}
	detected := mimetype.Detect(content).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	return detected
}

func checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
