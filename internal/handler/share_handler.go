package handler

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/model/requestresponse"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/util"
	"github.com/go-chi/chi/v5"
	"net/http"
)

// SharePasswordHeader : carries the password of a protected link on public routes
const SharePasswordHeader = "X-Share-Password"

type ShareHandler struct {
	ports.ShareService
}

func NewShareHandler(shareService ports.ShareService) *ShareHandler {
	return &ShareHandler{shareService}
}

// CreateLink godoc
// @Summary Share a file
// @Description Creates a link with view or download permission, an optional expiry and an optional password.
// @Tags Shares
// @Accept json
// @Produce json
// @Param id path string true "File id"
// @Param body body requestresponse.CreateShareRequest true "Link settings"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.ShareEnvelope
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/shares [post]
func (h *ShareHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.CreateShareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.ShareService.CreateLink(r.Context(), claims.UserUUID, ports.CreateLinkInput{
		FileID:     chi.URLParam(r, "id"),
		Permission: model.Permission(req.Permission),
		ExpiresAt:  req.ExpiresAt,
		Password:   req.Password,
	})
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, requestresponse.ShareEnvelope{Data: requestresponse.ShareResponseFromModel(link)})
}

// ListLinks godoc
// @Summary Links of a file
// @Tags Shares
// @Produce json
// @Param id path string true "File id"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ShareListResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/shares [get]
func (h *ShareHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	links, err := h.ShareService.ListLinks(r.Context(), claims.UserUUID, chi.URLParam(r, "id"))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	resp := requestresponse.ShareListResponse{Data: make([]requestresponse.ShareResponse, 0, len(links))}
	for i := range links {
		resp.Data = append(resp.Data, requestresponse.ShareResponseFromModel(&links[i]))
	}
	util.WriteJSON(w, http.StatusOK, resp)
}

// Revoke godoc
// @Summary Revoke a link
// @Tags Shares
// @Produce json
// @Param share_id path string true "Share id"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/shares/{share_id} [delete]
func (h *ShareHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.ShareService.Revoke(r.Context(), claims.UserUUID, chi.URLParam(r, "share_id")); err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.SuccessResponse{Message: "revoked"})
}

// Resolve godoc
// @Summary Open a share link
// @Description Name, size and type of the shared file. Expired and revoked links answer 410.
// @Tags Public
// @Produce json
// @Param share_id path string true "Share id"
// @Param X-Share-Password header string false "Password of a protected link"
// @Success 200 {object} requestresponse.SharePreviewResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 410 {object} requestresponse.ErrorResponse
// @Failure 429 {object} requestresponse.ErrorResponse
// @Router /public/shares/{share_id} [get]
func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	preview, err := h.ShareService.Resolve(r.Context(), chi.URLParam(r, "share_id"), r.Header.Get(SharePasswordHeader))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.SharePreviewResponse{Data: *preview})
}

// ResolveDownload godoc
// @Summary Download through a share link
// @Description Only links with download permission hand out a download URL.
// @Tags Public
// @Produce json
// @Param share_id path string true "Share id"
// @Param X-Share-Password header string false "Password of a protected link"
// @Success 200 {object} requestresponse.AccessResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 410 {object} requestresponse.ErrorResponse
// @Failure 429 {object} requestresponse.ErrorResponse
// @Router /public/shares/{share_id}/download [get]
func (h *ShareHandler) ResolveDownload(w http.ResponseWriter, r *http.Request) {
	ref, err := h.ShareService.ResolveDownload(r.Context(), chi.URLParam(r, "share_id"), r.Header.Get(SharePasswordHeader))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.AccessResponse{Data: *ref})
}
