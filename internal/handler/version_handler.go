package handler

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/model/requestresponse"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/util"
	"context"
	"github.com/go-chi/chi/v5"
	"net/http"
	"strconv"
)

type VersionHandler struct {
	ports.VersionService
	maxUploadBytes int64
}

func NewVersionHandler(versionService ports.VersionService, maxUploadBytes int64) *VersionHandler {
	return &VersionHandler{versionService, maxUploadBytes}
}

// ListVersions godoc
// @Summary Version history
// @Tags Versions
// @Produce json
// @Param id path string true "File id"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.VersionListResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/versions [get]
func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	versions, err := h.VersionService.ListVersions(r.Context(), claims.UserUUID, chi.URLParam(r, "id"))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.VersionListResponse{Data: requestresponse.VersionResponsesFromModel(versions)})
}

// UploadVersion godoc
// @Summary Upload a new version
// @Tags Versions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "File id"
// @Param file formData file true "New content"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.VersionResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 413 {object} requestresponse.ErrorResponse
// @Failure 503 {object} requestresponse.ErrorResponse
// @Failure 507 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/versions [post]
func (h *VersionHandler) UploadVersion(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	file, ok := readUpload(w, r, h.maxUploadBytes)
	if !ok {
		return
	}

	version, err := h.VersionService.UploadVersion(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), file.data)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, requestresponse.VersionResponsesFromModel([]model.Version{*version})[0])
}

// RestoreVersion godoc
// @Summary Restore an old version
// @Description Copies version n forward as a new current version; history is never rewritten.
// @Tags Versions
// @Produce json
// @Param id path string true "File id"
// @Param n path int true "Version number"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.VersionResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 507 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/versions/{n}/restore [post]
func (h *VersionHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	number, ok := versionNumber(w, r)
	if !ok {
		return
	}

	version, err := h.VersionService.RestoreVersion(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), number)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, requestresponse.VersionResponsesFromModel([]model.Version{*version})[0])
}

// Preview godoc
// @Summary Inline access to a version
// @Tags Versions
// @Produce json
// @Param id path string true "File id"
// @Param n path int true "Version number"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.AccessResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/versions/{n}/preview [get]
func (h *VersionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.access(w, r, h.VersionService.GetPreviewRef)
}

// Download godoc
// @Summary Download a version
// @Tags Versions
// @Produce json
// @Param id path string true "File id"
// @Param n path int true "Version number"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.AccessResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/versions/{n}/download [get]
func (h *VersionHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.access(w, r, h.VersionService.GetDownloadRef)
}

type accessFunc func(ctx context.Context, actorID, fileID string, number int) (*model.AccessRef, error)

func (h *VersionHandler) access(w http.ResponseWriter, r *http.Request, fn accessFunc) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	number, ok := versionNumber(w, r)
	if !ok {
		return
	}

	ref, err := fn(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), number)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.AccessResponse{Data: *ref})
}

func versionNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || number < 1 {
		util.HandleError(w, "version must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return number, true
}
