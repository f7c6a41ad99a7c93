package handler

import (
	"cloud-drive/internal/security"
	"github.com/go-chi/chi/v5"
	"net/http"
)

type Handlers struct {
	Nodes    *NodeHandler
	Versions *VersionHandler
	Trash    *TrashHandler
	Shares   *ShareHandler
	Sync     *SyncHandler
	Quota    *QuotaHandler
}

// RegisterRoutes : /api behind authenticate, /public behind throttle
func RegisterRoutes(r chi.Router, h Handlers, authenticate, throttle func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", h.Nodes.ListChildren)
			r.Get("/recent", h.Nodes.ListRecent)
			r.Post("/folders", h.Nodes.CreateFolder)
			r.Post("/files", h.Nodes.UploadFile)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Nodes.GetNode)
				r.Get("/path", h.Nodes.GetPath)
				r.Patch("/name", h.Nodes.Rename)
				r.Patch("/parent", h.Nodes.Move)
				r.Patch("/favorite", h.Nodes.SetFavorite)
				r.Patch("/tags", h.Nodes.SetTags)
				r.Delete("/", h.Trash.SoftDelete)
				r.Delete("/permanent", h.Trash.PermanentDelete)

				r.Get("/versions", h.Versions.ListVersions)
				r.Post("/versions", h.Versions.UploadVersion)
				r.Get("/versions/{n}/preview", h.Versions.Preview)
				r.Get("/versions/{n}/download", h.Versions.Download)
				r.Post("/versions/{n}/restore", h.Versions.RestoreVersion)

				r.Post("/shares", h.Shares.CreateLink)
				r.Get("/shares", h.Shares.ListLinks)
			})
		})

		r.Get("/trash", h.Trash.ListTrash)
		r.Post("/trash/{id}/restore", h.Trash.Restore)

		r.Delete("/shares/{share_id}", h.Shares.Revoke)

		r.Get("/sync/status", h.Sync.GetStatus)
		r.Post("/sync/{id}/report", h.Sync.Report)
		r.Post("/sync/{id}/simulate", h.Sync.Simulate)

		r.Get("/quota", h.Quota.GetQuota)
		r.With(security.RequireAdmin).Put("/admin/users/{uuid}/storage-limit", h.Quota.SetStorageLimit)
	})

	r.Route("/public/shares", func(r chi.Router) {
		r.Use(throttle)
		r.Get("/{share_id}", h.Shares.Resolve)
		r.Get("/{share_id}/download", h.Shares.ResolveDownload)
	})
}
