package reminder

import (
	"errors"
	"testing"
	"time"

	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/internal/guest"
	"github.com/mithunkr7/event-invite-backend/internal/notification"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type fakeEventStore struct {
	events []event.Event
}

func (s *fakeEventStore) ListUpcoming(time.Time, time.Duration) ([]event.Event, error) {
	return s.events, nil
}

type fakeGuestStore struct {
	guests map[uint][]*guest.Guest
}

func (s *fakeGuestStore) ListPendingByEvent(eventID uint) ([]guest.Guest, error) {
	var out []guest.Guest
	for _, g := range s.guests[eventID] {
		out = append(out, *g)
	}
	return out, nil
}

func (s *fakeGuestStore) mark(guestID uint, set func(*guest.Guest, time.Time), at time.Time) error {
	for _, list := range s.guests {
		for _, g := range list {
			if g.ID == guestID {
				set(g, at)
				return nil
			}
		}
	}
	return errors.New("guest not found")
}

func (s *fakeGuestStore) MarkEmailReminderSent(guestID uint, at time.Time) error {
	return s.mark(guestID, func(g *guest.Guest, t time.Time) { g.ReminderSentAt = &t }, at)
}

func (s *fakeGuestStore) MarkSMSReminderSent(guestID uint, at time.Time) error {
	return s.mark(guestID, func(g *guest.Guest, t time.Time) { g.SMSReminderSentAt = &t }, at)
}

type fakeSender struct {
	emails   int
	sms      int
	emailErr error
}

func (s *fakeSender) SendReminderEmail(*event.Event, uint, string, string, string) error {
	s.emails++
	return s.emailErr
}

func (s *fakeSender) SendReminderSMS(*event.Event, uint, string, string) notification.Outcome {
	s.sms++
	return notification.Outcome{Sent: true, MessageID: "m1"}
}

func schedule(specs ...event.ReminderSpec) *string {
	return event.EncodeReminderSchedule(specs)
}

func upcomingEvent(id uint, startsAt time.Time, specs ...event.ReminderSpec) event.Event {
	return event.Event{ID: id, Title: "Reunion", StartsAt: startsAt, ReminderSchedule: schedule(specs...)}
}

func pendingGuest(id, eventID uint, phone string) *guest.Guest {
	g := &guest.Guest{
		ID:            id,
		EventID:       eventID,
		Name:          "Ravi",
		Email:         "ravi@example.com",
		Status:        guest.StatusPending,
		NotifyByEmail: true,
		Token:         "tok",
	}
	if phone != "" {
		g.Phone = &phone
		g.NotifyBySMS = true
	}
	return g
}

func newScheduler(events *fakeEventStore, guests *fakeGuestStore, sender *fakeSender) *Scheduler {
	s := New(events, guests, sender, time.Hour, 30*24*time.Hour)
	s.Now = func() time.Time { return testNow }
	return s
}

func TestScheduler_DayCeilingWindow(t *testing.T) {
	daySpec := event.ReminderSpec{Type: event.ReminderUnitDay, Value: 1}

	t.Run("23h59m out is within the 1-day window", func(t *testing.T) {
		events := &fakeEventStore{events: []event.Event{
			upcomingEvent(1, testNow.Add(23*time.Hour+59*time.Minute), daySpec),
		}}
		guests := &fakeGuestStore{guests: map[uint][]*guest.Guest{1: {pendingGuest(1, 1, "")}}}
		sender := &fakeSender{}

		newScheduler(events, guests, sender).RunOnce(testNow)

		if sender.emails != 1 {
			t.Fatalf("got %d emails, want 1", sender.emails)
		}
	})

	t.Run("25h out rounds up to 2 days, not eligible", func(t *testing.T) {
		events := &fakeEventStore{events: []event.Event{
			upcomingEvent(1, testNow.Add(25*time.Hour), daySpec),
		}}
		guests := &fakeGuestStore{guests: map[uint][]*guest.Guest{1: {pendingGuest(1, 1, "")}}}
		sender := &fakeSender{}

		newScheduler(events, guests, sender).RunOnce(testNow)

		if sender.emails != 0 {
			t.Fatalf("got %d emails, want 0", sender.emails)
		}
	})
}

func TestScheduler_HourSpec(t *testing.T) {
	events := &fakeEventStore{events: []event.Event{
		upcomingEvent(1, testNow.Add(4*time.Hour+30*time.Minute), event.ReminderSpec{Type: event.ReminderUnitHour, Value: 5}),
	}}
	guests := &fakeGuestStore{guests: map[uint][]*guest.Guest{1: {pendingGuest(1, 1, "")}}}
	sender := &fakeSender{}

	newScheduler(events, guests, sender).RunOnce(testNow)

	if sender.emails != 1 {
		t.Fatalf("4h30m out must match a 5-hour spec (ceil), got %d emails", sender.emails)
	}
}

func TestScheduler_Idempotence(t *testing.T) {
	events := &fakeEventStore{events: []event.Event{
		upcomingEvent(1, testNow.Add(20*time.Hour), event.ReminderSpec{Type: event.ReminderUnitDay, Value: 1}),
	}}
	guests := &fakeGuestStore{guests: map[uint][]*guest.Guest{1: {pendingGuest(1, 1, "+15550001111")}}}
	sender := &fakeSender{}
	s := newScheduler(events, guests, sender)

	s.RunOnce(testNow)
	s.RunOnce(testNow.Add(time.Hour))

	if sender.emails != 1 || sender.sms != 1 {
		t.Fatalf("two passes must send at most one email and one sms, got %d/%d", sender.emails, sender.sms)
	}
}

func TestScheduler_SingleMarkerPerChannel(t *testing.T) {
	// Two specs, 2 days and 1 day out. The marker is one blunt flag per
	// channel, so the first firing spec consumes both: the 1-day reminder
	// never goes out.
	specs := []event.ReminderSpec{
		{Type: event.ReminderUnitDay, Value: 2},
		{Type: event.ReminderUnitDay, Value: 1},
	}
	startsAt := testNow.Add(40 * time.Hour)
	events := &fakeEventStore{events: []event.Event{upcomingEvent(1, startsAt, specs...)}}
	guests := &fakeGuestStore{guests: map[uint][]*guest.Guest{1: {pendingGuest(1, 1, "")}}}
	sender := &fakeSender{}
	s := newScheduler(events, guests, sender)

	s.RunOnce(testNow)                     // 40h out: ceil = 2 days, fires
	s.RunOnce(testNow.Add(24 * time.Hour)) // 16h out: ceil = 1 day, marker already set

	if sender.emails != 1 {
		t.Fatalf("blunt per-channel marker must suppress the second spec, got %d emails", sender.emails)
	}
}

func TestScheduler_MarksAfterFailedAttempt(t *testing.T) {
	events := &fakeEventStore{events: []event.Event{
		upcomingEvent(1, testNow.Add(20*time.Hour), event.ReminderSpec{Type: event.ReminderUnitDay, Value: 1}),
	}}
	guests := &fakeGuestStore{guests: map[uint][]*guest.Guest{1: {pendingGuest(1, 1, "")}}}
	sender := &fakeSender{emailErr: errors.New("smtp down")}
	s := newScheduler(events, guests, sender)

	s.RunOnce(testNow)
	s.RunOnce(testNow.Add(time.Hour))

	if sender.emails != 1 {
		t.Fatalf("an attempted send still sets the marker, got %d emails", sender.emails)
	}
}

func TestScheduler_FailureIsolatedPerGuest(t *testing.T) {
	events := &fakeEventStore{events: []event.Event{
		upcomingEvent(1, testNow.Add(20*time.Hour), event.ReminderSpec{Type: event.ReminderUnitDay, Value: 1}),
	}}
	guests := &fakeGuestStore{guests: map[uint][]*guest.Guest{1: {
		pendingGuest(1, 1, ""),
		pendingGuest(2, 1, ""),
		pendingGuest(3, 1, ""),
	}}}
	sender := &fakeSender{emailErr: errors.New("smtp down")}
	s := newScheduler(events, guests, sender)

	s.RunOnce(testNow)

	if sender.emails != 3 {
		t.Fatalf("one failing guest must not halt the run, got %d attempts", sender.emails)
	}
}

func TestScheduler_SkipsEventsWithoutSchedule(t *testing.T) {
	raw := ""
	events := &fakeEventStore{events: []event.Event{
		{ID: 1, StartsAt: testNow.Add(20 * time.Hour)},
		{ID: 2, StartsAt: testNow.Add(20 * time.Hour), ReminderSchedule: &raw},
	}}
	guests := &fakeGuestStore{guests: map[uint][]*guest.Guest{
		1: {pendingGuest(1, 1, "")},
		2: {pendingGuest(2, 2, "")},
	}}
	sender := &fakeSender{}

	newScheduler(events, guests, sender).RunOnce(testNow)

	if sender.emails != 0 {
		t.Fatalf("events without a schedule must be skipped, got %d emails", sender.emails)
	}
}
