package handler

import (
	"cloud-drive/internal/model/requestresponse"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/util"
	"github.com/go-chi/chi/v5"
	"net/http"
)

type TrashHandler struct {
	ports.TrashService
}

func NewTrashHandler(trashService ports.TrashService) *TrashHandler {
	return &TrashHandler{trashService}
}

// SoftDelete godoc
// @Summary Move a node to trash
// @Description The node and every live descendant share one batch id; restoring the node restores exactly that batch.
// @Tags Trash
// @Produce json
// @Param id path string true "Node id"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SoftDeleteResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id} [delete]
func (h *TrashHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	batchID, err := h.TrashService.SoftDelete(r.Context(), claims.UserUUID, chi.URLParam(r, "id"))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.SoftDeleteResponse{BatchID: batchID})
}

// PermanentDelete godoc
// @Summary Delete a trashed node for good
// @Description Removes the subtree, its versions and share links, and releases its bytes from the quota.
// @Tags Trash
// @Produce json
// @Param id path string true "Node id"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.PermanentDeleteResponse
// @Failure 400 {object} requestresponse.ErrorResponse "The node is not in trash"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/permanent [delete]
func (h *TrashHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	removed, err := h.TrashService.PermanentDelete(r.Context(), claims.UserUUID, chi.URLParam(r, "id"))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.PermanentDeleteResponse{Removed: removed})
}

// ListTrash godoc
// @Summary List trash
// @Tags Trash
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeListResponse
// @Router /api/trash [get]
func (h *TrashHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	nodes, err := h.TrashService.ListTrash(r.Context(), claims.UserUUID)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	writeNodeList(w, nodes)
}

// Restore godoc
// @Summary Restore from trash
// @Description Restores the whole batch the node was trashed with.
// @Tags Trash
// @Produce json
// @Param id path string true "Node id"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeListResponse "Restored batch roots"
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Router /api/trash/{id}/restore [post]
func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	roots, err := h.TrashService.Restore(r.Context(), claims.UserUUID, chi.URLParam(r, "id"))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	writeNodeList(w, roots)
}
