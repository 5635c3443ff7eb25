package guest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mithunkr7/event-invite-backend/internal/auditlog"
	"github.com/mithunkr7/event-invite-backend/internal/auth"
	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/internal/notification"
)

var (
	ErrGuestNotFound  = errors.New("guest not found")
	ErrDeadlinePassed = errors.New("rsvp deadline has passed")
	ErrAccessDenied   = errors.New("access denied")
)

// ValidationError marks a malformed patch (bad status value, bad email).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var validStatuses = map[string]struct{}{
	StatusPending:      {},
	StatusAttending:    {},
	StatusNotAttending: {},
	StatusMaybe:        {},
}

// Notifier is the outbound surface the orchestrator needs. The concrete
// notification service satisfies it; tests substitute fakes.
type Notifier interface {
	SendInvitation(ev *event.Event, guestID uint, guestName, guestEmail string, guestPhone *string, token string, byEmail, bySMS bool)
	SendGuestConfirmation(ev *event.Event, guestID uint, guestName, guestEmail string, guestPhone *string, status string, byEmail, bySMS bool)
	PublishRSVPAlert(ctx context.Context, alert notification.RSVPAlert)
}

type Service struct {
	Repo      Repository
	EventRepo *event.Repository
	Notif     Notifier
	AuditSvc  auditlog.Service

	// Now is swappable for tests.
	Now func() time.Time
}

func NewService(repo Repository, eventRepo *event.Repository, notif Notifier, auditSvc auditlog.Service) *Service {
	return &Service{
		Repo:      repo,
		EventRepo: eventRepo,
		Notif:     notif,
		AuditSvc:  auditSvc,
		Now:       time.Now,
	}
}

// RSVPView is what the anonymous token endpoint returns.
type RSVPView struct {
	Guest          *Guest       `json:"guest"`
	Event          EventSummary `json:"event"`
	DeadlinePassed bool         `json:"deadline_passed"`
}

type EventSummary struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	StartsAt            time.Time  `json:"starts_at"`
	EndsAt              *time.Time `json:"ends_at,omitempty"`
	RSVPDeadline        *time.Time `json:"rsvp_deadline,omitempty"`
	MaxGuestsPerInvitee *int       `json:"max_guests_per_invitee,omitempty"`
}

// GetByToken returns the guest with their event summary for the anonymous
// RSVP page.
func (s *Service) GetByToken(token string) (*RSVPView, error) {
	g, err := s.Repo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGuestNotFound
	}

	return &RSVPView{
		Guest: g,
		Event: EventSummary{
			Title:               g.Event.Title,
			Description:         g.Event.Description,
			Location:            g.Event.Location,
			StartsAt:            g.Event.StartsAt,
			EndsAt:              g.Event.EndsAt,
			RSVPDeadline:        g.Event.RSVPDeadline,
			MaxGuestsPerInvitee: g.Event.MaxGuestsPerInvitee,
		},
		DeadlinePassed: !DeadlineAllows(g.Event.RSVPDeadline, s.Now()),
	}, nil
}

// trimNames drops blank entries and trims the rest, preserving order.
func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ApplyUpdate runs the RSVP state machine for one guest patch: token lookup,
// deadline gate, guest-limit gate, transactional persist, awaited guest
// confirmations, async host fan-out. Validation failures abort with no
// partial writes; notification failures never surface to the guest.
func (s *Service) ApplyUpdate(ctx context.Context, token string, patch UpdateRSVPRequest, ip string) (*Guest, error) {
	g, err := s.Repo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGuestNotFound
	}

	now := s.Now()
	if !DeadlineAllows(g.Event.RSVPDeadline, now) {
		s.audit(ctx, nil, &g.EventID, auditlog.ActionRSVPUpdated, map[string]interface{}{
			"guest_id": g.ID,
			"error":    "DEADLINE_PASSED",
		}, ip, "FAILURE")
		return nil, ErrDeadlinePassed
	}

	resultingStatus := g.Status
	if patch.Status != nil {
		st := strings.ToUpper(strings.TrimSpace(*patch.Status))
		if _, ok := validStatuses[st]; !ok {
			return nil, &ValidationError{Msg: fmt.Sprintf("invalid status: %s", *patch.Status)}
		}
		resultingStatus = st
	}

	var newAdditional []string
	replaceAdditional := patch.AdditionalGuests != nil
	if replaceAdditional {
		newAdditional = trimNames(*patch.AdditionalGuests)
	}

	proposedCount := len(g.AdditionalGuests)
	if replaceAdditional {
		proposedCount = len(newAdditional)
	}

	if resultingStatus == StatusAttending {
		limit := EffectiveLimit(g.MaxGuests, g.Event.MaxGuestsPerInvitee)
		if err := ValidateGuestLimit(limit, proposedCount); err != nil {
			s.audit(ctx, nil, &g.EventID, auditlog.ActionRSVPUpdated, map[string]interface{}{
				"guest_id": g.ID,
				"error":    "LIMIT_EXCEEDED",
			}, ip, "FAILURE")
			return nil, err
		}
	}

	oldStatus := g.Status
	firstResponse := g.RespondedAt == nil && resultingStatus != StatusPending

	changed := false
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" && *patch.Name != g.Name {
		g.Name = strings.TrimSpace(*patch.Name)
		changed = true
	}
	if patch.Phone != nil && (g.Phone == nil || *patch.Phone != *g.Phone) {
		phone := strings.TrimSpace(*patch.Phone)
		g.Phone = &phone
		g.NotifyBySMS = phone != ""
		changed = true
	}
	if patch.DietaryNotes != nil && *patch.DietaryNotes != g.DietaryNotes {
		g.DietaryNotes = *patch.DietaryNotes
		changed = true
	}
	statusChanged := resultingStatus != oldStatus
	if statusChanged {
		g.Status = resultingStatus
		changed = true
	}
	if replaceAdditional {
		changed = true
	}

	g.RespondedAt = &now

	additionalRows := make([]AdditionalGuest, 0, len(newAdditional))
	for _, name := range newAdditional {
		additionalRows = append(additionalRows, AdditionalGuest{Name: name})
	}

	if err := s.Repo.UpdateFromPatch(g, replaceAdditional, additionalRows); err != nil {
		return nil, fmt.Errorf("failed to persist rsvp update: %w", err)
	}

	// Guest confirmations are awaited but must never fail the request.
	s.Notif.SendGuestConfirmation(&g.Event, g.ID, g.Name, g.Email, g.Phone, g.Status, g.NotifyByEmail, g.NotifyBySMS)

	if changed {
		changeType := notification.ChangeUpdated
		if firstResponse {
			changeType = notification.ChangeNew
		} else if statusChanged {
			changeType = notification.ChangeStatusChanged
		}
		s.Notif.PublishRSVPAlert(ctx, notification.RSVPAlert{
			EventID:    g.EventID,
			GuestID:    g.ID,
			GuestName:  g.Name,
			OldStatus:  oldStatus,
			NewStatus:  g.Status,
			ChangeType: changeType,
			PartySize:  1 + len(g.AdditionalGuests),
			OccurredAt: now,
		})
	}

	s.audit(ctx, nil, &g.EventID, auditlog.ActionRSVPUpdated, map[string]interface{}{
		"guest_id":   g.ID,
		"old_status": oldStatus,
		"new_status": g.Status,
	}, ip, "SUCCESS")
	return g, nil
}

// ---- host-side guest management ---------------------------------------

func (s *Service) loadEventForUser(user *auth.User, eventID uint) (*event.Event, string, error) {
	ev, err := s.EventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, "", event.ErrEventNotFound
	}
	role := event.ResolveRole(user, ev)
	if !event.CanRead(role) {
		return nil, "", event.ErrEventNotFound
	}
	return ev, role, nil
}

// AddGuest invites a guest to an event and sends the invitation through the
// guest's opted-in channels.
func (s *Service) AddGuest(ctx context.Context, user *auth.User, eventID uint, req AddGuestRequest, ip string) (*Guest, error) {
	ev, role, err := s.loadEventForUser(user, eventID)
	if err != nil {
		return nil, err
	}
	if !event.CanManage(role) {
		return nil, ErrAccessDenied
	}

	if !emailPattern.MatchString(req.Email) {
		return nil, &ValidationError{Msg: "invalid email address"}
	}
	if req.MaxGuests != nil && *req.MaxGuests < 1 {
		return nil, &ValidationError{Msg: "max_guests must be at least 1"}
	}

	hasPhone := req.Phone != nil && strings.TrimSpace(*req.Phone) != ""

	g := &Guest{
		EventID:       eventID,
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         req.Phone,
		Status:        StatusPending,
		MaxGuests:     req.MaxGuests,
		NotifyByEmail: true,
		NotifyBySMS:   hasPhone,
		Token:         uuid.NewString(),
	}
	if req.NotifyByEmail != nil {
		g.NotifyByEmail = *req.NotifyByEmail
	}
	if req.NotifyBySMS != nil {
		g.NotifyBySMS = *req.NotifyBySMS && hasPhone
	}

	if err := s.Repo.Create(g); err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	s.Notif.SendInvitation(ev, g.ID, g.Name, g.Email, g.Phone, g.Token, g.NotifyByEmail, g.NotifyBySMS)

	s.audit(ctx, &user.ID, &eventID, auditlog.ActionGuestInvited, map[string]interface{}{
		"guest_id": g.ID,
		"email":    g.Email,
	}, ip, "SUCCESS")
	return g, nil
}

func (s *Service) ListGuests(user *auth.User, eventID uint) ([]Guest, error) {
	if _, _, err := s.loadEventForUser(user, eventID); err != nil {
		return nil, err
	}
	return s.Repo.ListByEvent(eventID)
}

func (s *Service) RemoveGuest(ctx context.Context, user *auth.User, eventID, guestID uint, ip string) error {
	_, role, err := s.loadEventForUser(user, eventID)
	if err != nil {
		return err
	}
	if !event.CanManage(role) {
		return ErrAccessDenied
	}

	g, err := s.Repo.GetByID(guestID)
	if err != nil {
		return err
	}
	if g == nil || g.EventID != eventID {
		return ErrGuestNotFound
	}

	if err := s.Repo.Delete(guestID); err != nil {
		return fmt.Errorf("failed to remove guest: %w", err)
	}

	s.audit(ctx, &user.ID, &eventID, auditlog.ActionGuestRemoved, map[string]interface{}{
		"guest_id": guestID,
		"email":    g.Email,
	}, ip, "SUCCESS")
	return nil
}

func (s *Service) audit(ctx context.Context, userID, eventID *uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	if err := s.AuditSvc.LogAction(ctx, userID, eventID, action, details, ip, status); err != nil {
		log.Printf("⚠️ Audit log write failed: %v", err)
	}
}
