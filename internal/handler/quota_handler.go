package handler

import (
	"cloud-drive/internal/model/requestresponse"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"net/http"
)

type QuotaHandler struct {
	ports.QuotaService
}

func NewQuotaHandler(quotaService ports.QuotaService) *QuotaHandler {
	return &QuotaHandler{quotaService}
}

// GetQuota godoc
// @Summary Storage usage and limit
// @Tags Quota
// @Produce json
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.QuotaResponse
// @Router /api/quota [get]
func (h *QuotaHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	quota, err := h.QuotaService.GetQuota(r.Context(), claims.UserUUID)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.QuotaResponse{Data: *quota})
}

// SetStorageLimit godoc
// @Summary Set a user's storage limit
// @Description Admin only. A limit below current usage is accepted; further growth is then refused.
// @Tags Admin
// @Accept json
// @Produce json
// @Param uuid path string true "User id"
// @Param body body requestresponse.StorageLimitRequest true "Limit in bytes"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.QuotaResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Router /api/admin/users/{uuid}/storage-limit [put]
func (h *QuotaHandler) SetStorageLimit(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "uuid")
	if _, err := uuid.Parse(userID); err != nil {
		util.HandleError(w, "user id must be a uuid", http.StatusBadRequest)
		return
	}
	var req requestresponse.StorageLimitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quota, err := h.QuotaService.SetStorageLimit(r.Context(), claims.IsAdmin, userID, req.Limit)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.QuotaResponse{Data: *quota})
}
