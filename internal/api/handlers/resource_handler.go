package handlers

import (
	"net/http"
	"strconv"

	"github.com/Marga-Ghale/ora-admin-console/internal/entity"
	"github.com/Marga-Ghale/ora-admin-console/internal/models"
	"github.com/Marga-Ghale/ora-admin-console/internal/screen"
	"github.com/Marga-Ghale/ora-admin-console/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ResourceHandler serves one admin list screen.
type ResourceHandler[T entity.Record] struct {
	svc       *service.ResourceService[T]
	newRecord func() T
	summarize func([]T) map[string]any
}

func NewResourceHandler[T entity.Record](svc *service.ResourceService[T], newRecord func() T) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc, newRecord: newRecord}
}

// WithSummary adds kind-specific aggregates of the visible list to list responses.
func (h *ResourceHandler[T]) WithSummary(fn func([]T) map[string]any) *ResourceHandler[T] {
	h.summarize = fn
	return h
}

func (h *ResourceHandler[T]) Register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.PUT("/scope", h.SetScope)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List refetches and returns the visible list. ?showAll= flips the toggle first,
// ?q= narrows the result.
func (h *ResourceHandler[T]) List(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)
	term := c.Query("q")

	if raw, ok := c.GetQuery("showAll"); ok {
		showAll, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_failed", Message: "showAll must be a boolean"})
			return
		}
		if _, err := h.svc.SetShowAll(ctx, sid, showAll); err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, toListResponse(h.svc.View(sid, term), h.summarize))
		return
	}

	snap, err := h.svc.List(ctx, sid, term)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponse(snap, h.summarize))
}

func (h *ResourceHandler[T]) SetScope(c *gin.Context) {
	var req models.ScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	snap, err := h.svc.SetShowAll(c.Request.Context(), sessionID(c), *req.ShowAll)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponse(snap, h.summarize))
}

func (h *ResourceHandler[T]) Create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	snap, err := h.svc.Create(c.Request.Context(), sessionID(c), in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toListResponse(snap, h.summarize))
}

func (h *ResourceHandler[T]) Update(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	snap, err := h.svc.Update(c.Request.Context(), sessionID(c), c.Param("id"), in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponse(snap, h.summarize))
}

// Delete needs ?confirm=true.
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	snap, err := h.svc.Remove(c.Request.Context(), sessionID(c), c.Param("id"), confirmed)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListResponse(snap, h.summarize))
}

// bind decodes the record and notes whether the caller sent scope fields.
func (h *ResourceHandler[T]) bind(c *gin.Context) (screen.Input[T], bool) {
	rec := h.newRecord()
	if err := c.ShouldBindBodyWith(rec, binding.JSON); err != nil {
		bindError(c, err)
		return screen.Input[T]{}, false
	}

	var probe struct {
		Company     *string `json:"company"`
		CompanyCode *string `json:"companyCode"`
	}
	if err := c.ShouldBindBodyWith(&probe, binding.JSON); err != nil {
		bindError(c, err)
		return screen.Input[T]{}, false
	}

	return screen.Input[T]{
		Record:        rec,
		ExplicitScope: probe.Company != nil || probe.CompanyCode != nil,
	}, true
}
