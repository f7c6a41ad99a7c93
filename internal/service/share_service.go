package service

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/model"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/util"
	"context"
	"encoding/hex"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"time"
)

// maxSharePasswordBytes : bcrypt ignores everything past 72 bytes
const maxSharePasswordBytes = 72

type ShareService struct {
	core
}

func NewShareService(deps Dependencies) *ShareService {
	return &ShareService{core: newCore(deps)}
}

// CreateLink : only the owner may share, only files can be shared
func (s *ShareService) CreateLink(ctx context.Context, actorID string, in ports.CreateLinkInput) (link *model.ShareLink, err error) {
	defer s.observe("create_share", time.Now(), &err)

	permission, err := model.ParsePermission(string(in.Permission))
	if err != nil {
		return nil, err
	}
	now := s.now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: expiry must be in the future", model.ErrValidation)
	}
	if len(in.Password) > maxSharePasswordBytes {
		return nil, fmt.Errorf("%w: password longer than %d bytes", model.ErrValidation, maxSharePasswordBytes)
	}

	if _, err = uuid.Parse(in.FileID); err != nil {
		return nil, fmt.Errorf("%w: file %q", model.ErrNotFound, in.FileID)
	}
	conn := s.Tx.Conn()
	file, err := s.Nodes.GetNode(ctx, conn, in.FileID)
	if err != nil {
		return nil, util.LogError("[ShareService] load file", err)
	}
	if file.OwnerID != actorID {
		return nil, fmt.Errorf("%w: only the owner can share %s", model.ErrPermissionDenied, in.FileID)
	}
	if file.IsDeleted {
		return nil, fmt.Errorf("%w: %s is in trash", model.ErrNotFound, in.FileID)
	}
	if file.IsFolder {
		return nil, fmt.Errorf("%w: folders cannot be shared", model.ErrValidation)
	}

	link = &model.ShareLink{
		FileID:     file.ID,
		Permission: permission,
		CreatedBy:  actorID,
		CreatedAt:  now,
	}
	if in.ExpiresAt != nil {
		expiresAt := in.ExpiresAt.UTC()
		link.ExpiresAt = &expiresAt
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, util.LogError("[ShareService] hash password", err)
		}
		hashed := string(hash)
		link.PasswordHash = &hashed
	}

	link.ShareID, err = util.GenerateUniqueToken(ctx, util.ShareIDLength, func(ctx context.Context, token string) (bool, error) {
		return s.Shares.ShareIDExists(ctx, conn, token)
	})
	if err != nil {
		return nil, util.LogError("[ShareService] generate share id", err)
	}
	if err = s.Shares.CreateShareLink(ctx, conn, link); err != nil {
		return nil, util.LogError("[ShareService] save share link", err)
	}
	s.cacheLink(ctx, link)

	logging.Info("[ShareService] share link created",
		zap.String("file", file.ID), zap.String("permission", string(permission)))
	s.publish(ctx, file.OwnerID, model.EventFileShared, model.FileSharedPayload{
		FileID:     file.ID,
		ShareID:    link.ShareID,
		Permission: link.Permission,
		ExpiresAt:  link.ExpiresAt,
	})
	return link, nil
}

// Resolve : minimal projection of the shared file; expiry is checked against the clock on every call
func (s *ShareService) Resolve(ctx context.Context, shareID, password string) (preview *model.SharePreview, err error) {
	defer s.observe("resolve_share", time.Now(), &err)

	link, file, err := s.resolve(ctx, shareID, password, false)
	if err != nil {
		return nil, err
	}
	return &model.SharePreview{
		Name:       file.Name,
		Size:       file.Size,
		MimeType:   file.MimeType,
		Permission: link.Permission,
	}, nil
}

// ResolveDownload : PermissionDenied for view-only links. A cached link is confirmed
// against the database before a URL is signed.
func (s *ShareService) ResolveDownload(ctx context.Context, shareID, password string) (ref *model.AccessRef, err error) {
	defer s.observe("resolve_share_download", time.Now(), &err)

	link, file, err := s.resolve(ctx, shareID, password, true)
	if err != nil {
		return nil, err
	}
	if link.Permission != model.PermissionDownload {
		return nil, fmt.Errorf("%w: link does not allow downloads", model.ErrPermissionDenied)
	}
	return signedAccess(ctx, &s.core, file, file.StoragePath, model.AccessDownload)
}

func (s *ShareService) resolve(ctx context.Context, shareID, password string, confirm bool) (*model.ShareLink, *model.Node, error) {
	if !wellFormedShareID(shareID) {
		return nil, nil, fmt.Errorf("%w: share link", model.ErrNotFound)
	}

	link, cached, err := s.loadLink(ctx, shareID)
	if err != nil {
		return nil, nil, err
	}
	if err := link.Usability(s.now()); err != nil {
		return nil, nil, err
	}
	if cached && confirm {
		if link, err = s.confirmLink(ctx, shareID); err != nil {
			return nil, nil, err
		}
	}
	if link.HasPassword() {
		if bcrypt.CompareHashAndPassword([]byte(*link.PasswordHash), []byte(password)) != nil {
			return nil, nil, fmt.Errorf("%w: wrong share password", model.ErrPermissionDenied)
		}
	}

	file, err := s.Nodes.GetNode(ctx, s.Tx.Conn(), link.FileID)
	if err != nil {
		return nil, nil, util.LogError("[ShareService] load shared file", err)
	}
	if file.IsDeleted {
		return nil, nil, fmt.Errorf("%w: shared file is in trash", model.ErrNotFound)
	}
	return link, file, nil
}

// loadLink : cache first; a cache failure falls back to the database.
// cached reports whether the record came from the cache.
func (s *ShareService) loadLink(ctx context.Context, shareID string) (link *model.ShareLink, cached bool, err error) {
	if s.Cache != nil {
		hit, cacheErr := s.Cache.GetShareLink(ctx, shareID)
		if cacheErr != nil {
			logging.Warn("[ShareService] cache read failed", zap.Error(cacheErr))
		}
		if hit != nil {
			return hit, true, nil
		}
	}

	link, err = s.Shares.GetShareLink(ctx, s.Tx.Conn(), shareID)
	if err != nil {
		return nil, false, util.LogError("[ShareService] load share link", err)
	}
	s.cacheLink(ctx, link)
	return link, false, nil
}

// confirmLink : the database copy wins; a cached record revoked meanwhile is dropped
func (s *ShareService) confirmLink(ctx context.Context, shareID string) (*model.ShareLink, error) {
	link, err := s.Shares.GetShareLink(ctx, s.Tx.Conn(), shareID)
	if err != nil {
		return nil, util.LogError("[ShareService] confirm share link", err)
	}
	if err := link.Usability(s.now()); err != nil {
		s.dropCachedLink(ctx, shareID)
		return nil, err
	}
	return link, nil
}

// cacheLink : revoked links are never cached
func (s *ShareService) cacheLink(ctx context.Context, link *model.ShareLink) {
	if s.Cache == nil || link.Revoked {
		return
	}
	if err := s.Cache.SetShareLink(ctx, link); err != nil {
		logging.Warn("[ShareService] cache write failed", zap.Error(err))
	}
}

func (s *ShareService) dropCachedLink(ctx context.Context, shareID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.DeleteShareLink(ctx, shareID); err != nil {
		logging.Warn("[ShareService] cache invalidation failed", zap.String("share", shareID), zap.Error(err))
	}
}

// Revoke : only the creator may revoke; revoking twice is not an error
func (s *ShareService) Revoke(ctx context.Context, actorID, shareID string) (err error) {
	defer s.observe("revoke_share", time.Now(), &err)

	conn := s.Tx.Conn()
	link, err := s.Shares.GetShareLink(ctx, conn, shareID)
	if err != nil {
		return util.LogError("[ShareService] load share link", err)
	}
	if link.CreatedBy != actorID {
		return fmt.Errorf("%w: only the creator can revoke this link", model.ErrPermissionDenied)
	}
	if link.Revoked {
		return nil
	}
	if err = s.Shares.RevokeShareLink(ctx, conn, shareID); err != nil {
		return util.LogError("[ShareService] revoke share link", err)
	}
	s.dropCachedLink(ctx, shareID)

	logging.Info("[ShareService] share link revoked", zap.String("file", link.FileID))
	s.publish(ctx, actorID, model.EventFileShared, model.FileSharedPayload{
		FileID:     link.FileID,
		ShareID:    link.ShareID,
		Permission: link.Permission,
		ExpiresAt:  link.ExpiresAt,
		Revoked:    true,
	})
	return nil
}

// ListLinks : every link of a file, including revoked and expired ones
func (s *ShareService) ListLinks(ctx context.Context, actorID, fileID string) ([]model.ShareLink, error) {
	conn := s.Tx.Conn()
	if _, err := s.loadOwned(ctx, conn, actorID, fileID, false); err != nil {
		return nil, util.LogError("[ShareService] load file", err)
	}
	links, err := s.Shares.ListShareLinks(ctx, conn, fileID)
	if err != nil {
		return nil, util.LogError("[ShareService] list share links", err)
	}
	return links, nil
}

func wellFormedShareID(shareID string) bool {
	if len(shareID) != util.ShareIDLength {
		return false
	}
	_, err := hex.DecodeString(shareID)
	return err == nil
}
