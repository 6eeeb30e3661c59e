package handlers

import (
	"context"
	"net/http"

	"github.com/Marga-Ghale/ora-admin-console/internal/models"
	"github.com/Marga-Ghale/ora-admin-console/internal/service"
	"github.com/gin-gonic/gin"
)

// SessionStore removes the long-lived session records of a browser session.
type SessionStore interface {
	Clear(ctx context.Context, sid string) error
}

// ExpiryNotifier tells a browser session's open tabs to go back to login.
type ExpiryNotifier interface {
	SessionExpired(sid string)
}

type SessionHandler struct {
	sessionSvc service.SessionService
	services   *service.Services
	store      SessionStore
	notifier   ExpiryNotifier
}

// Get returns the resolved identity and its scope so the shell can render
// role-dependent controls.
func (h *SessionHandler) Get(c *gin.Context) {
	view, err := h.sessionSvc.Current(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{
		Identity: toIdentityResponse(view.Identity),
		Scope:    toScopeResponse(view.Decision),
	})
}

// Clear drops the console's state for the browser session.
func (h *SessionHandler) Clear(c *gin.Context) {
	sid := sessionID(c)
	if h.store != nil {
		if err := h.store.Clear(c.Request.Context(), sid); err != nil {
			handleServiceError(c, err)
			return
		}
	}
	h.services.Forget(sid)
	if h.notifier != nil {
		h.notifier.SessionExpired(sid)
	}
	c.Status(http.StatusNoContent)
}
