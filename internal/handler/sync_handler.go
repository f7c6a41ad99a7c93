package handler

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/model/requestresponse"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/util"
	"github.com/go-chi/chi/v5"
	"net/http"
)

type SyncHandler struct {
	ports.SyncService
}

func NewSyncHandler(syncService ports.SyncService) *SyncHandler {
	return &SyncHandler{syncService}
}

// GetStatus godoc
// @Summary Files not yet synced
// @Tags Sync
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SyncStatusResponse
// @Router /api/sync/status [get]
func (h *SyncHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	nodes, err := h.SyncService.GetStatus(r.Context(), claims.UserUUID)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.SyncStatusResponse{Data: requestresponse.NodeResponsesFromModel(nodes)})
}

// Report godoc
// @Summary Report a sync state
// @Description Allowed transitions: synced to syncing, syncing to synced or error, error to syncing.
// @Tags Sync
// @Accept json
// @Produce json
// @Param id path string true "File id"
// @Param body body requestresponse.SyncReportRequest true "New state"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeEnvelope
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/sync/{id}/report [post]
func (h *SyncHandler) Report(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.SyncReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	node, err := h.SyncService.Report(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), model.SyncStatus(req.Status))
	writeSynced(w, node, err)
}

// Simulate godoc
// @Summary Simulate a sync round
// @Description Moves the file through syncing to the requested outcome.
// @Tags Sync
// @Accept json
// @Produce json
// @Param id path string true "File id"
// @Param body body requestresponse.SimulateRequest true "Outcome"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeEnvelope
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/sync/{id}/simulate [post]
func (h *SyncHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.SimulateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	node, err := h.SyncService.Simulate(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), model.SyncStatus(req.Outcome))
	writeSynced(w, node, err)
}

func writeSynced(w http.ResponseWriter, node *model.Node, err error) {
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.NodeEnvelope{Data: requestresponse.NodeResponseFromModel(node)})
}
