package reports

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/internal/guest"
	"github.com/mithunkr7/event-invite-backend/middleware"
)

type Handler struct {
	EventRepo *event.Repository
	GuestRepo guest.Repository
}

func NewHandler(eventRepo *event.Repository, guestRepo guest.Repository) *Handler {
	return &Handler{EventRepo: eventRepo, GuestRepo: guestRepo}
}

// ExportGuestList godoc
// @Summary Export an event's guest list as XLSX or PDF
// @Tags reports
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param format query string false "xlsx (default) or pdf"
// @Router /events/{id}/reports/guests [get]
func (h *Handler) ExportGuestList(c *gin.Context) {
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

	ev, err := h.EventRepo.GetEventByID(uint(eventID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	role := event.ResolveRole(&user, ev)
	if !event.CanRead(role) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	guests, err := h.GuestRepo.ListByEvent(uint(eventID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load guests"})
		return
	}

	switch c.DefaultQuery("format", "xlsx") {
	case "pdf":
		data, err := GuestListPDF(ev, guests)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build pdf"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=guests-event-%d.pdf", eventID))
		c.Data(http.StatusOK, "application/pdf", data)
	case "xlsx":
		data, err := GuestListXLSX(ev, guests)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build xlsx"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=guests-event-%d.xlsx", eventID))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or pdf"})
	}
}
