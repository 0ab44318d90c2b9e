// Package handler exposes the record store, query engine, exporter and
// notification bus over HTTP.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/notify"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/records"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/internal/tabular"
	"github.com/searchleap/harmony-farm-sanctuary-website-sub001/pkg/logger"
)

// Presigner turns a stored export key into a download URL.
type Presigner interface {
	GetPresignedURL(ctx context.Context, key string) (string, error)
}

type Handler struct {
	store   *records.Store
	bus     *notify.Bus
	exports tabular.Sink
	urls    Presigner
	log     *logger.Logger
}

type Option func(*Handler)

// WithExportSink enables POST /api/:resource/export/store. When the sink can
// also presign URLs the response includes a download link.
func WithExportSink(s tabular.Sink) Option {
	return func(h *Handler) {
		h.exports = s
		if p, ok := s.(Presigner); ok {
			h.urls = p
		}
	}
}

func New(store *records.Store, bus *notify.Bus, opts ...Option) *Handler {
	h := &Handler{store: store, bus: bus, log: logger.Named("admin")}
	for _, o := range opts {
		o(h)
	}
	return h
}

// RegisterAdminRoutes mounts the admin API under /api.
func RegisterAdminRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")

	api.GET("/resources", h.listResources)
	api.GET("/backup", h.exportBackup)
	api.POST("/backup", h.importBackup)

	api.GET("/notifications", h.listNotifications)
	api.GET("/notifications/stream", h.streamNotifications)
	api.POST("/notifications/read-all", h.markAllRead)
	api.POST("/notifications/:id/read", h.markRead)
	api.DELETE("/notifications/:id", h.dismissNotification)

	res := api.Group("/:resource", h.requireResource)
	res.GET("", h.list)
	res.POST("", h.create)
	res.GET("/suggestions", h.suggestions)
	res.GET("/export", h.export)
	res.POST("/export/store", h.storeExport)
	res.POST("/import", h.importRecords)
	res.POST("/bulk-delete", h.bulkDelete)
	res.GET("/:id", h.get)
	res.PATCH("/:id", h.update)
	res.DELETE("/:id", h.delete)
}

func (h *Handler) requireResource(c *gin.Context) {
	if !h.store.IsKnown(c.Param("resource")) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown resource %q", c.Param("resource"))})
		return
	}
	c.Next()
}

// storeFailure reports a failed write to the caller and as a toast.
func (h *Handler) storeFailure(c *gin.Context, resource string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, records.ErrUnknownResource) {
		status = http.StatusNotFound
	}
	h.log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	h.bus.Error(err.Error(), notify.Options{Title: resource})
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) listResources(c *gin.Context) {
	ctx := c.Request.Context()
	md := h.store.Metadata(ctx)
	out := make([]gin.H, 0)
	for _, name := range h.store.KnownResources(ctx) {
		out = append(out, gin.H{"name": name, "count": len(h.store.GetAll(ctx, name)), "stats": md[name]})
	}
	c.JSON(http.StatusOK, gin.H{"resources": out})
}
