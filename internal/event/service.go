package event

import (
	"context"
	"errors"
	"time"

	"github.com/mithunkr7/event-invite-backend/internal/auditlog"
	"github.com/mithunkr7/event-invite-backend/internal/auth"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrAccessDenied  = errors.New("access denied")
)

// Service wraps business logic for events, co-hosts, and reminder schedules.
type Service struct {
	Repo     *Repository
	AuditSvc auditlog.Service
}

func NewService(r *Repository, auditSvc auditlog.Service) *Service {
	return &Service{Repo: r, AuditSvc: auditSvc}
}

// ===========================
// 🎯 Create Event
func (s *Service) CreateEvent(req *CreateEventRequest, user auth.User, ip string) (*Event, error) {
	if user.Role.RoleName != auth.RoleAdmin && user.Role.RoleName != auth.RoleHost {
		return nil, ErrAccessDenied
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, errors.New("invalid starts_at, want RFC 3339")
	}

	var endsAt *time.Time
	if req.EndsAt != "" {
		t, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, errors.New("invalid ends_at, want RFC 3339")
		}
		endsAt = &t
	}

	var deadline *time.Time
	if req.RSVPDeadline != "" {
		t, err := time.Parse(time.RFC3339, req.RSVPDeadline)
		if err != nil {
			return nil, errors.New("invalid rsvp_deadline, want RFC 3339")
		}
		deadline = &t
	}

	if req.MaxGuestsPerInvitee != nil && *req.MaxGuestsPerInvitee < 1 {
		return nil, errors.New("max_guests_per_invitee must be at least 1")
	}

	notify := true
	if req.NotifyOnRSVP != nil {
		notify = *req.NotifyOnRSVP
	}

	ev := &Event{
		HostID:              user.ID,
		Title:               req.Title,
		Description:         req.Description,
		Location:            req.Location,
		StartsAt:            startsAt,
		EndsAt:              endsAt,
		RSVPDeadline:        deadline,
		MaxGuestsPerInvitee: req.MaxGuestsPerInvitee,
		NotifyOnRSVP:        notify,
		IsActive:            true,
	}

	if err := s.Repo.CreateEvent(ev); err != nil {
		s.audit(&user.ID, nil, auditlog.ActionEventCreated,
			map[string]interface{}{"title": req.Title, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.audit(&user.ID, &ev.ID, auditlog.ActionEventCreated, map[string]interface{}{
		"event_id":  ev.ID,
		"title":     ev.Title,
		"starts_at": ev.StartsAt.Format(time.RFC3339),
	}, ip, "success")

	return ev, nil
}

// GetEvent returns the event if the user has any role on it.
func (s *Service) GetEvent(id uint, user auth.User) (*Event, string, error) {
	ev, err := s.Repo.GetEventByID(id)
	if err != nil {
		return nil, "", ErrEventNotFound
	}
	role := ResolveRole(&user, ev)
	if !CanRead(role) {
		return nil, "", ErrEventNotFound // do not leak existence to outsiders
	}
	return ev, role, nil
}

func (s *Service) ListEvents(user auth.User, limit, offset int, search string) ([]Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListEventsByHost(user.ID, limit, offset, search)
}

// ===========================
// 🛠 Update Event
func (s *Service) UpdateEvent(req *UpdateEventRequest, user auth.User, ip string) (*Event, error) {
	ev, role, err := s.GetEvent(req.ID, user)
	if err != nil {
		return nil, err
	}
	if role != RoleAdmin && role != RoleHost {
		return nil, ErrAccessDenied
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, errors.New("invalid starts_at, want RFC 3339")
	}
	ev.StartsAt = startsAt

	ev.EndsAt = nil
	if req.EndsAt != "" {
		t, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, errors.New("invalid ends_at, want RFC 3339")
		}
		ev.EndsAt = &t
	}

	ev.RSVPDeadline = nil
	if req.RSVPDeadline != "" {
		t, err := time.Parse(time.RFC3339, req.RSVPDeadline)
		if err != nil {
			return nil, errors.New("invalid rsvp_deadline, want RFC 3339")
		}
		ev.RSVPDeadline = &t
	}

	if req.MaxGuestsPerInvitee != nil && *req.MaxGuestsPerInvitee < 1 {
		return nil, errors.New("max_guests_per_invitee must be at least 1")
	}

	ev.Title = req.Title
	ev.Description = req.Description
	ev.Location = req.Location
	ev.MaxGuestsPerInvitee = req.MaxGuestsPerInvitee
	if req.NotifyOnRSVP != nil {
		ev.NotifyOnRSVP = *req.NotifyOnRSVP
	}
	if req.IsActive != nil {
		ev.IsActive = *req.IsActive
	}

	if err := s.Repo.UpdateEvent(ev); err != nil {
		s.audit(&user.ID, &ev.ID, auditlog.ActionEventUpdated,
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.audit(&user.ID, &ev.ID, auditlog.ActionEventUpdated,
		map[string]interface{}{"title": ev.Title}, ip, "success")
	return ev, nil
}

func (s *Service) DeleteEvent(id uint, user auth.User, ip string) error {
	_, role, err := s.GetEvent(id, user)
	if err != nil {
		return err
	}
	if role != RoleAdmin && role != RoleHost {
		return ErrAccessDenied
	}

	if err := s.Repo.DeleteEvent(id); err != nil {
		return err
	}
	s.audit(&user.ID, &id, auditlog.ActionEventDeleted, nil, ip, "success")
	return nil
}

// ===========================
// ⏰ Reminder schedule

// SetReminderSchedule validates the specs and persists them in the tagged
// form, upgrading any legacy encoding on the way through.
func (s *Service) SetReminderSchedule(eventID uint, specs []ReminderSpec, user auth.User, ip string) error {
	_, role, err := s.GetEvent(eventID, user)
	if err != nil {
		return err
	}
	if !CanManage(role) {
		return ErrAccessDenied
	}

	if err := ValidateReminderSchedule(specs); err != nil {
		s.audit(&user.ID, &eventID, auditlog.ActionScheduleUpdated,
			map[string]interface{}{"error": err.Error()}, ip, "failure")
		return err
	}

	if err := s.Repo.UpdateReminderSchedule(eventID, EncodeReminderSchedule(specs)); err != nil {
		return err
	}

	s.audit(&user.ID, &eventID, auditlog.ActionScheduleUpdated,
		map[string]interface{}{"specs": len(specs)}, ip, "success")
	return nil
}

// GetReminderSchedule returns the decoded schedule.
func (s *Service) GetReminderSchedule(eventID uint, user auth.User) ([]ReminderSpec, error) {
	ev, _, err := s.GetEvent(eventID, user)
	if err != nil {
		return nil, err
	}
	return DecodeReminderSchedule(ev.ReminderSchedule), nil
}

// ===========================
// 👥 Co-hosts

func (s *Service) AddCoHost(eventID uint, req *AddCoHostRequest, user auth.User, ip string) (*CoHost, error) {
	_, role, err := s.GetEvent(eventID, user)
	if err != nil {
		return nil, err
	}
	if role != RoleAdmin && role != RoleHost {
		return nil, ErrAccessDenied
	}

	chRole := req.Role
	if chRole == "" {
		chRole = CoHostRoleCoHost
	}
	if chRole != CoHostRoleCoHost && chRole != CoHostRoleViewer {
		return nil, errors.New("invalid co-host role")
	}

	notify := true
	if req.NotifyOnRSVP != nil {
		notify = *req.NotifyOnRSVP
	}

	ch := &CoHost{
		EventID:      eventID,
		UserID:       req.UserID,
		Role:         chRole,
		NotifyOnRSVP: notify,
	}
	if err := s.Repo.AddCoHost(ch); err != nil {
		return nil, err
	}

	s.audit(&user.ID, &eventID, auditlog.ActionCoHostAdded,
		map[string]interface{}{"cohost_user_id": req.UserID, "role": chRole}, ip, "success")
	return ch, nil
}

func (s *Service) RemoveCoHost(eventID, userID uint, user auth.User, ip string) error {
	_, role, err := s.GetEvent(eventID, user)
	if err != nil {
		return err
	}
	if role != RoleAdmin && role != RoleHost {
		return ErrAccessDenied
	}

	if err := s.Repo.RemoveCoHost(eventID, userID); err != nil {
		return err
	}
	s.audit(&user.ID, &eventID, auditlog.ActionCoHostRemoved,
		map[string]interface{}{"cohost_user_id": userID}, ip, "success")
	return nil
}

func (s *Service) ListCoHosts(eventID uint, user auth.User) ([]CoHost, error) {
	_, _, err := s.GetEvent(eventID, user)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListCoHosts(eventID)
}

func (s *Service) audit(userID, eventID *uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(context.Background(), userID, eventID, action, details, ip, status)
}
