package handlers

import (
	"net/http"
	"strconv"

	"github.com/Marga-Ghale/ora-admin-console/internal/models"
	"github.com/Marga-Ghale/ora-admin-console/internal/service"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditSvc service.AuditService
}

// List returns the browser session's recent mutation attempts.
func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.auditSvc.History(c.Request.Context(), sessionID(c), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := make([]models.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toAuditResponse(e))
	}
	c.JSON(http.StatusOK, gin.H{"entries": resp})
}
