package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// GetAuditLogs lists audit entries with optional filters (admin only).
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{
		Action: c.Query("action"),
		Status: c.Query("status"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.ParseUint(c.Query("event_id"), 10, 32); err == nil {
		id := uint(v)
		filter.EventID = &id
	}
	if v, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		id := uint(v)
		filter.UserID = &id
	}

	logs, err := h.svc.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch audit logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetAuditLogByID returns a single audit entry.
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	log, err := h.svc.GetAuditLogByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit log not found"})
		return
	}
	c.JSON(http.StatusOK, log)
}
