package guest

import (
	"errors"
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

// errorResponse maps orchestrator errors onto the wire taxonomy.
func errorResponse(c *gin.Context, err error) {
	var limitErr *LimitError
	var validationErr *ValidationError

	switch {
	case errors.Is(err, ErrGuestNotFound), errors.Is(err, event.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "not found"})
	case errors.Is(err, ErrDeadlinePassed):
		c.JSON(http.StatusForbidden, gin.H{"code": "DEADLINE_PASSED", "error": err.Error()})
	case errors.As(err, &limitErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": "LIMIT_EXCEEDED", "error": limitErr.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": validationErr.Error()})
	case errors.Is(err, ErrAccessDenied), errors.Is(err, event.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"code": "ACCESS_DENIED", "error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "error": "internal error"})
	}
}

// GetRSVP godoc
// @Summary Get RSVP details by token
// @Tags rsvp
// @Param token path string true "RSVP token"
// @Success 200 {object} RSVPView
// @Router /rsvp/{token} [get]
func (h *Handler) GetRSVP(c *gin.Context) {
	view, err := h.Svc.GetByToken(c.Param("token"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateRSVP godoc
// @Summary Submit or change an RSVP
// @Tags rsvp
// @Param token path string true "RSVP token"
// @Param request body UpdateRSVPRequest true "Partial RSVP patch"
// @Success 200 {object} Guest
// @Router /rsvp/{token} [patch]
func (h *Handler) UpdateRSVP(c *gin.Context) {
	var patch UpdateRSVPRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	g, err := h.Svc.ApplyUpdate(c.Request.Context(), c.Param("token"), patch, middleware.GetIPFromContext(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) eventID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return uint(id), true
}

// AddGuest godoc
// @Summary Invite a guest to an event
// @Tags guests
// @Security BearerAuth
// @Router /events/{id}/guests [post]
func (h *Handler) AddGuest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	var req AddGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
		return
	}

	g, err := h.Svc.AddGuest(c.Request.Context(), &user, eventID, req, middleware.GetIPFromContext(c))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// ListGuests godoc
// @Summary List the guests of an event
// @Tags guests
// @Security BearerAuth
// @Router /events/{id}/guests [get]
func (h *Handler) ListGuests(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}

	guests, err := h.Svc.ListGuests(&user, eventID)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": guests, "total": len(guests)})
}

// RemoveGuest godoc
// @Summary Remove a guest from an event
// @Tags guests
// @Security BearerAuth
// @Router /events/{id}/guests/{guestId} [delete]
func (h *Handler) RemoveGuest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	eventID, ok := h.eventID(c)
	if !ok {
		return
	}
	guestID, err := strconv.ParseUint(c.Param("guestId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guest id"})
		return
	}

	if err := h.Svc.RemoveGuest(c.Request.Context(), &user, eventID, uint(guestID), middleware.GetIPFromContext(c)); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "guest removed"})
}
