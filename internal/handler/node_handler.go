package handler

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/model/requestresponse"
	"cloud-drive/internal/ports"
	"cloud-drive/internal/util"
	"github.com/go-chi/chi/v5"
	"net/http"
	"strconv"
)

type NodeHandler struct {
	ports.NodeService
	maxUploadBytes int64
}

func NewNodeHandler(nodeService ports.NodeService, maxUploadBytes int64) *NodeHandler {
	return &NodeHandler{nodeService, maxUploadBytes}
}

// ListChildren godoc
// @Summary List a folder
// @Description Children of a folder, the caller's root when parent_id is omitted.
// @Tags Nodes
// @Produce json
// @Param parent_id query string false "Folder id"
// @Param include_deleted query bool false "Include trashed children"
// @Param sort query string false "name, updated_at, created_at or size"
// @Param order query string false "asc or desc"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeListResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes [get]
func (h *NodeHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	opts, err := listOptions(r)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}

	nodes, err := h.NodeService.ListChildren(r.Context(), claims.UserUUID, r.URL.Query().Get("parent_id"), opts)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	writeNodeList(w, nodes)
}

// ListRecent godoc
// @Summary Recent files
// @Description Files ordered by last modification, optionally filtered by type.
// @Tags Nodes
// @Produce json
// @Param type query string false "all, image, video, audio, document or archive"
// @Param limit query int false "At most 200"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeListResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/nodes/recent [get]
func (h *NodeHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			util.HandleError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	nodes, err := h.NodeService.ListRecent(r.Context(), claims.UserUUID, model.FileType(r.URL.Query().Get("type")), limit)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	writeNodeList(w, nodes)
}

// CreateFolder godoc
// @Summary Create a folder
// @Tags Nodes
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateFolderRequest true "Folder"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.NodeEnvelope
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Router /api/nodes/folders [post]
func (h *NodeHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.CreateFolderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	node, err := h.NodeService.CreateFolder(r.Context(), claims.UserUUID, req.ParentID, req.Name)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, requestresponse.NodeEnvelope{Data: requestresponse.NodeResponseFromModel(node)})
}

// UploadFile godoc
// @Summary Upload a file
// @Description Stores the bytes and creates the file with version 1. The MIME type is sniffed when the part carries none.
// @Tags Nodes
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param parent_id formData string false "Folder id, root when omitted"
// @Param name formData string false "Name, the uploaded filename when omitted"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.NodeEnvelope
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Failure 413 {object} requestresponse.ErrorResponse
// @Failure 507 {object} requestresponse.ErrorResponse
// @Router /api/nodes/files [post]
func (h *NodeHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	file, ok := readUpload(w, r, h.maxUploadBytes)
	if !ok {
		return
	}

	node, err := h.NodeService.UploadFile(r.Context(), claims.UserUUID, r.FormValue("parent_id"), file.name, file.contentType, file.data)
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, requestresponse.NodeEnvelope{Data: requestresponse.NodeResponseFromModel(node)})
}

// GetNode godoc
// @Summary Get a node
// @Tags Nodes
// @Produce json
// @Param id path string true "Node id"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeEnvelope
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id} [get]
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	node, err := h.NodeService.GetNode(r.Context(), claims.UserUUID, chi.URLParam(r, "id"))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.NodeEnvelope{Data: requestresponse.NodeResponseFromModel(node)})
}

// GetPath godoc
// @Summary Path from the root
// @Description Ancestors of the node starting at the root, the node itself last.
// @Tags Nodes
// @Produce json
// @Param id path string true "Node id"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeListResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/path [get]
func (h *NodeHandler) GetPath(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}

	path, err := h.NodeService.GetPath(r.Context(), claims.UserUUID, chi.URLParam(r, "id"))
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	writeNodeList(w, path)
}

// Rename godoc
// @Summary Rename a node
// @Tags Nodes
// @Accept json
// @Produce json
// @Param id path string true "Node id"
// @Param body body requestresponse.RenameRequest true "New name"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeEnvelope
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/name [patch]
func (h *NodeHandler) Rename(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.RenameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	node, err := h.NodeService.Rename(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), req.Name)
	h.writeNode(w, node, err)
}

// Move godoc
// @Summary Move a node
// @Description Moves the node under another folder. Moving a folder into its own subtree fails with 409.
// @Tags Nodes
// @Accept json
// @Produce json
// @Param id path string true "Node id"
// @Param body body requestresponse.MoveRequest true "Destination folder, root when empty"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeEnvelope
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/parent [patch]
func (h *NodeHandler) Move(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.MoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	node, err := h.NodeService.Move(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), req.ParentID)
	h.writeNode(w, node, err)
}

// SetFavorite godoc
// @Summary Mark or unmark a favorite
// @Tags Nodes
// @Accept json
// @Produce json
// @Param id path string true "Node id"
// @Param body body requestresponse.FavoriteRequest true "Favorite flag"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeEnvelope
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/favorite [patch]
func (h *NodeHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.FavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	node, err := h.NodeService.SetFavorite(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), req.Favorite)
	h.writeNode(w, node, err)
}

// SetTags godoc
// @Summary Replace the tags
// @Description Tags are trimmed, lowercased, deduplicated and sorted.
// @Tags Nodes
// @Accept json
// @Produce json
// @Param id path string true "Node id"
// @Param body body requestresponse.TagsRequest true "Tags"
// @Param Authorization header string true "Bearer token" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.NodeEnvelope
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/nodes/{id}/tags [patch]
func (h *NodeHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req requestresponse.TagsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	node, err := h.NodeService.SetTags(r.Context(), claims.UserUUID, chi.URLParam(r, "id"), req.Tags)
	h.writeNode(w, node, err)
}

func (h *NodeHandler) writeNode(w http.ResponseWriter, node *model.Node, err error) {
	if err != nil {
		util.WriteServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, requestresponse.NodeEnvelope{Data: requestresponse.NodeResponseFromModel(node)})
}

func writeNodeList(w http.ResponseWriter, nodes []*model.Node) {
	util.WriteJSON(w, http.StatusOK, requestresponse.NodeListResponse{
		Data:  requestresponse.NodeResponsesFromModel(nodes),
		Count: len(nodes),
	})
}
