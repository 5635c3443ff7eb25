package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/middleware"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// GetChannelSetting godoc
// @Summary Get notification channel settings
// @Tags settings
// @Security BearerAuth
// @Success 200 {object} ChannelSetting
// @Router /admin/channel-settings [get]
func (h *Handler) GetChannelSetting(c *gin.Context) {
	setting, err := h.Svc.GetChannelSetting()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load channel settings"})
		return
	}
	if setting == nil {
		c.JSON(http.StatusOK, gin.H{"source": "environment"})
		return
	}
	c.JSON(http.StatusOK, setting)
}

// UpdateChannelSetting godoc
// @Summary Update notification channel settings
// @Tags settings
// @Security BearerAuth
// @Param request body UpdateChannelSettingRequest true "Channel configuration"
// @Success 200 {object} ChannelSetting
// @Router /admin/channel-settings [put]
func (h *Handler) UpdateChannelSetting(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateChannelSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := h.Svc.UpdateChannelSetting(c.Request.Context(), &user, req, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, setting)
}

// RegisterDeviceToken godoc
// @Summary Register an FCM device token
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/device-tokens [post]
func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Token    string `json:"token" binding:"required"`
		Platform string `json:"platform"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Svc.RegisterDeviceToken(user.ID, req.Token, req.Platform); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register device token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device token registered"})
}

// RemoveDeviceToken godoc
// @Summary Remove an FCM device token
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/device-tokens [delete]
func (h *Handler) RemoveDeviceToken(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Svc.RemoveDeviceToken(user.ID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove device token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device token removed"})
}

// ListInApp godoc
// @Summary List in-app notifications for the current user
// @Tags notifications
// @Security BearerAuth
// @Router /notifications [get]
func (h *Handler) ListInApp(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, total, err := h.Svc.ListInApp(user.ID, unreadOnly, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": total})
}

// MarkInAppRead godoc
// @Summary Mark an in-app notification as read
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *Handler) MarkInAppRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.Svc.MarkInAppRead(user.ID, uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}

// MarkAllInAppRead godoc
// @Summary Mark all in-app notifications as read
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *Handler) MarkAllInAppRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Svc.MarkAllInAppRead(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all marked read"})
}

// ListEventLogs godoc
// @Summary List notification delivery logs for an event
// @Tags notifications
// @Security BearerAuth
// @Router /events/{id}/notifications [get]
func (h *Handler) ListEventLogs(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ev, err := h.Svc.EventRepo.GetEventByID(uint(eventID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	role := event.ResolveRole(&user, ev)
	if !event.CanRead(role) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, total, err := h.Svc.ListLogs(uint(eventID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notification logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs, "total": total})
}
