package reminder

import (
	"context"
	"log"
	"time"

	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/internal/guest"
	"github.com/mithunkr7/event-invite-backend/internal/notification"
)

// EventStore is the slice of the event repository the scheduler reads.
type EventStore interface {
	ListUpcoming(now time.Time, window time.Duration) ([]event.Event, error)
}

// GuestStore is the slice of the guest repository the scheduler touches: the
// two "sent" markers are the only fields it ever writes.
type GuestStore interface {
	ListPendingByEvent(eventID uint) ([]guest.Guest, error)
	MarkEmailReminderSent(guestID uint, at time.Time) error
	MarkSMSReminderSent(guestID uint, at time.Time) error
}

// Sender delivers reminders; the notification service satisfies it.
type Sender interface {
	SendReminderEmail(ev *event.Event, guestID uint, guestName, guestEmail, token string) error
	SendReminderSMS(ev *event.Event, guestID uint, phone, token string) notification.Outcome
}

// Scheduler periodically reminds non-responders as their events approach.
type Scheduler struct {
	Events    EventStore
	Guests    GuestStore
	Sender    Sender
	Tick      time.Duration
	Lookahead time.Duration

	// Now is swappable for tests.
	Now func() time.Time
}

func New(events EventStore, guests GuestStore, sender Sender, tick, lookahead time.Duration) *Scheduler {
	return &Scheduler{
		Events:    events,
		Guests:    guests,
		Sender:    sender,
		Tick:      tick,
		Lookahead: lookahead,
		Now:       time.Now,
	}
}

// Run executes one pass immediately, then once per tick until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("✅ Reminder scheduler started (tick %s, lookahead %s)", s.Tick, s.Lookahead)
	s.RunOnce(s.Now())

	ticker := time.NewTicker(s.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(s.Now())
		}
	}
}

// unitsUntil is the ceiling of remaining/unit: "1 day before" covers the
// whole 24-hour window before the event regardless of when the pass runs.
func unitsUntil(remaining, unit time.Duration) int {
	if remaining <= 0 {
		return 0
	}
	return int((remaining + unit - 1) / unit)
}

func specMatches(spec event.ReminderSpec, remaining time.Duration) bool {
	switch spec.Type {
	case event.ReminderUnitDay:
		return unitsUntil(remaining, 24*time.Hour) == spec.Value
	case event.ReminderUnitHour:
		return unitsUntil(remaining, time.Hour) == spec.Value
	default:
		return false
	}
}

// RunOnce executes a single scheduler pass. Failures are isolated per event
// and per guest; nothing aborts the run.
func (s *Scheduler) RunOnce(now time.Time) {
	events, err := s.Events.ListUpcoming(now, s.Lookahead)
	if err != nil {
		log.Printf("❌ Reminder pass failed to list events: %v", err)
		return
	}

	for i := range events {
		ev := &events[i]

		specs := event.DecodeReminderSchedule(ev.ReminderSchedule)
		if len(specs) == 0 {
			continue
		}

		remaining := ev.StartsAt.Sub(now)
		if remaining <= 0 {
			continue
		}

		eligible := false
		for _, spec := range specs {
			if specMatches(spec, remaining) {
				eligible = true
				break
			}
		}
		if !eligible {
			continue
		}

		guests, err := s.Guests.ListPendingByEvent(ev.ID)
		if err != nil {
			log.Printf("⚠️ Reminder pass: pending guests for event %d failed: %v", ev.ID, err)
			continue
		}

		for i := range guests {
			s.remindGuest(ev, &guests[i], now)
		}
	}
}

// remindGuest sends at most one reminder per channel per guest, ever: the
// marker timestamps gate resends across all passes and all specs. The marker
// is set after the attempt either way, so a failed send is not retried until
// an operator clears it.
func (s *Scheduler) remindGuest(ev *event.Event, g *guest.Guest, now time.Time) {
	if g.ReminderSentAt == nil && g.NotifyByEmail && g.Email != "" {
		if err := s.Sender.SendReminderEmail(ev, g.ID, g.Name, g.Email, g.Token); err != nil {
			log.Printf("⚠️ Reminder email to guest %d failed: %v", g.ID, err)
		}
		if err := s.Guests.MarkEmailReminderSent(g.ID, now); err != nil {
			log.Printf("⚠️ Failed to mark email reminder for guest %d: %v", g.ID, err)
		}
	}

	if g.SMSReminderSentAt == nil && g.NotifyBySMS && g.Phone != nil && *g.Phone != "" {
		outcome := s.Sender.SendReminderSMS(ev, g.ID, *g.Phone, g.Token)
		if !outcome.Sent {
			log.Printf("⚠️ Reminder SMS to guest %d not sent: %s", g.ID, outcome.Reason)
		}
		if err := s.Guests.MarkSMSReminderSent(g.ID, now); err != nil {
			log.Printf("⚠️ Failed to mark sms reminder for guest %d: %v", g.ID, err)
		}
	}
}
