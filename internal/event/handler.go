package event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mithunkr7/event-invite-backend/internal/auth"
	"github.com/mithunkr7/event-invite-backend/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := h.svc.CreateEvent(&req, user, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *Handler) GetEvent(c *gin.Context) {
	user, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	ev, role, err := h.svc.GetEvent(id, user)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev, "role": role})
}

func (h *Handler) ListEvents(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	events, err := h.svc.ListEvents(user, limit, (page-1)*limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "page": page})
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	user, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = id

	ev, err := h.svc.UpdateEvent(&req, user, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	user, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteEvent(id, user, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

type reminderScheduleRequest struct {
	Specs []ReminderSpec `json:"specs" binding:"required"`
}

func (h *Handler) SetReminderSchedule(c *gin.Context) {
	user, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	var req reminderScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SetReminderSchedule(id, req.Specs, user, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reminder schedule updated", "specs": req.Specs})
}

func (h *Handler) GetReminderSchedule(c *gin.Context) {
	user, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	specs, err := h.svc.GetReminderSchedule(id, user)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"specs": specs})
}

func (h *Handler) AddCoHost(c *gin.Context) {
	user, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	var req AddCoHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.svc.AddCoHost(id, &req, user, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) RemoveCoHost(c *gin.Context) {
	user, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.svc.RemoveCoHost(id, uint(userID), user, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "co-host removed"})
}

func (h *Handler) ListCoHosts(c *gin.Context) {
	user, id, ok := h.userAndID(c)
	if !ok {
		return
	}

	cohosts, err := h.svc.ListCoHosts(id, user)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"co_hosts": cohosts})
}

func (h *Handler) userAndID(c *gin.Context) (auth.User, uint, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return auth.User{}, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return auth.User{}, 0, false
	}
	return u, uint(id), true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAccessDenied):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
