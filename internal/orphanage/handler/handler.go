package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/cache"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage/service"
	"github.com/happymap/happymap/backend/go-services/internal/storage"
	"github.com/happymap/happymap/backend/go-services/internal/upload"
	"github.com/happymap/happymap/backend/go-services/pkg/logger"
	"github.com/happymap/happymap/backend/go-services/pkg/metrics"
)

// Handler serves the listing API. The cache is optional; without Redis every
// list call goes straight to the repository.
type Handler struct {
	svc   *service.Service
	cache *cache.ListCache
}

func New(svc *service.Service, listCache *cache.ListCache) *Handler {
	return &Handler{svc: svc, cache: listCache}
}

// Register wires the listing routes. The upload middleware runs before the
// create handler so stored file descriptors are available when it executes.
func (h *Handler) Register(r *gin.Engine, blobs storage.BlobStore) {
	r.GET("/orphanages", h.List)
	r.GET("/orphanage/:id", h.Get)
	r.POST("/orphanages", upload.Middleware(blobs), h.Create)
}

func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if views, err := h.cache.Get(ctx); err != nil {
			logger.Warnf("listing cache read failed: %v", err)
		} else if views != nil {
			metrics.ListingFetches.WithLabelValues("list", "cache_hit").Inc()
			c.JSON(http.StatusOK, views)
			return
		}
	}

	all, err := h.svc.List(ctx)
	if err != nil {
		metrics.ListingFetches.WithLabelValues("list", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing unavailable"})
		return
	}
	views := orphanage.RenderList(all)
	if h.cache != nil {
		if err := h.cache.Set(ctx, views); err != nil {
			logger.Warnf("listing cache write failed: %v", err)
		}
	}
	metrics.ListingFetches.WithLabelValues("list", "ok").Inc()
	c.JSON(http.StatusOK, views)
}

func (h *Handler) Get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			metrics.ListingFetches.WithLabelValues("get", "not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "orphanage not found"})
			return
		}
		metrics.ListingFetches.WithLabelValues("get", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing unavailable"})
		return
	}
	metrics.ListingFetches.WithLabelValues("get", "ok").Inc()
	c.JSON(http.StatusOK, o)
}

func (h *Handler) Create(c *gin.Context) {
	params := service.CreateParams{
		Name:           c.PostForm("name"),
		Latitude:       c.PostForm("latitude"),
		Longitude:      c.PostForm("longitude"),
		About:          c.PostForm("about"),
		Instructions:   c.PostForm("instructions"),
		OpeningHours:   c.PostForm("opening_hours"),
		OpenOnWeekends: c.PostForm("open_on_weekends"),
	}

	created, err := h.svc.Create(c.Request.Context(), params, upload.StoredFiles(c))
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		logger.Errorf("create orphanage failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create orphanage"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(c.Request.Context()); err != nil {
			logger.Warnf("listing cache invalidation failed: %v", err)
		}
	}
	c.JSON(http.StatusCreated, created)
}
