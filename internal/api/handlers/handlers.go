package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Marga-Ghale/ora-admin-console/internal/api/middleware"
	"github.com/Marga-Ghale/ora-admin-console/internal/entity"
	"github.com/Marga-Ghale/ora-admin-console/internal/models"
	"github.com/Marga-Ghale/ora-admin-console/internal/repository"
	"github.com/Marga-Ghale/ora-admin-console/internal/scope"
	"github.com/Marga-Ghale/ora-admin-console/internal/screen"
	"github.com/Marga-Ghale/ora-admin-console/internal/service"
	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Session     *SessionHandler
	Audit       *AuditHandler
	Departments *ResourceHandler[*entity.Department]
	Meetings    *ResourceHandler[*entity.Meeting]
	Tasks       *ResourceHandler[*entity.Task]
}

// NewHandlers creates all handlers. store may be nil when no long-lived session
// tier is configured.
func NewHandlers(services *service.Services, store SessionStore, notifier ExpiryNotifier) *Handlers {
	tasks := NewResourceHandler(services.Tasks, func() *entity.Task { return &entity.Task{} }).
		WithSummary(func(items []*entity.Task) map[string]any {
			return map[string]any{"totalEstimatedHours": entity.TotalEstimate(items).StringFixed(2)}
		})

	return &Handlers{
		Session: &SessionHandler{
			sessionSvc: services.Session,
			services:   services,
			store:      store,
			notifier:   notifier,
		},
		Audit:       &AuditHandler{auditSvc: services.Audit},
		Departments: NewResourceHandler(services.Departments, func() *entity.Department { return &entity.Department{} }),
		Meetings:    NewResourceHandler(services.Meetings, func() *entity.Meeting { return &entity.Meeting{} }),
		Tasks:       tasks,
	}
}

// Register mounts the admin routes on group.
func (h *Handlers) Register(group *gin.RouterGroup) {
	group.GET("/session", h.Session.Get)
	group.DELETE("/session", h.Session.Clear)
	group.GET("/audit", h.Audit.List)

	h.Departments.Register(group.Group("/departments"))
	h.Meetings.Register(group.Group("/meetings"))
	h.Tasks.Register(group.Group("/tasks"))
}

func sessionID(c *gin.Context) string {
	return c.GetString(middleware.ContextSessionID)
}

// ============================================
// Response Mappers
// ============================================

func toIdentityResponse(id *session.Identity) models.IdentityResponse {
	return models.IdentityResponse{
		ID:          id.UserID,
		Name:        id.Name,
		Role:        id.Role,
		Department:  id.Department,
		JobRole:     id.JobRole,
		Company:     id.Company,
		CompanyCode: id.CompanyCode,
	}
}

func toScopeResponse(d scope.Decision) models.ScopeResponse {
	return models.ScopeResponse{
		IsSuperAdmin: d.IsSuperAdmin,
		Filter:       d.Filter.Kind.String(),
		Company:      d.Company,
		CompanyCode:  d.CompanyCode,
	}
}

func toListResponse[T entity.Record](snap screen.Snapshot[T], summarize func([]T) map[string]any) models.ListResponse[T] {
	rows := make([]models.Row[T], 0, len(snap.Items))
	for _, it := range snap.Items {
		rows = append(rows, models.Row[T]{Record: it, CanRemove: it.Active()})
	}
	resp := models.ListResponse[T]{
		Kind:    snap.Kind,
		Items:   rows,
		Count:   len(rows),
		ShowAll: snap.ShowAll,
		Scope:   toScopeResponse(snap.Decision),
		State:   snap.State.String(),
		Error:   snap.Error,
	}
	if summarize != nil {
		resp.Summary = summarize(snap.Items)
	}
	return resp
}

func toAuditResponse(e *repository.AuditEntry) models.AuditEntryResponse {
	return models.AuditEntryResponse{
		ID:        e.ID,
		Kind:      e.Kind,
		Action:    e.Action,
		EntityID:  e.EntityID,
		Outcome:   e.Outcome,
		Message:   e.Message,
		ActorName: e.ActorName,
		CreatedAt: e.CreatedAt,
	}
}

// ============================================
// Errors
// ============================================

// handleServiceError maps screen and session errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	var (
		verr  *screen.ValidationError
		opErr *screen.OperationError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_failed", Message: verr.Message})
	case errors.Is(err, screen.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, models.ErrorResponse{Error: "confirmation_required", Message: err.Error()})
	case errors.Is(err, screen.ErrInactive):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "inactive", Message: err.Error()})
	case errors.Is(err, screen.ErrBusy):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "busy", Message: err.Error()})
	case session.IsReloginRequired(err):
		resp := models.ErrorResponse{Error: "session_absent", Message: "Not signed in"}
		if errors.Is(err, session.ErrSessionDecode) {
			resp = models.ErrorResponse{
				Error:   "session_invalid",
				Message: "Your session could not be read, please sign in again",
				Relogin: true,
			}
		}
		c.JSON(http.StatusUnauthorized, resp)
	case errors.As(err, &opErr):
		status := opErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		c.JSON(status, models.ErrorResponse{Error: "operation_failed", Message: opErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: "Internal server error"})
	}
}

// bindError reports a malformed or invalid request body.
func bindError(c *gin.Context, err error) {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	msgs := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation_failed", Message: strings.Join(msgs, "; ")})
}
