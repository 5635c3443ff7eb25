package guest

import (
	"context"
	"testing"
	"time"

	"github.com/mithunkr7/event-invite-backend/internal/event"
	"github.com/mithunkr7/event-invite-backend/internal/notification"
)

type fakeRepo struct {
	guests map[string]*Guest

	updateCalls int
	lastReplace bool
	lastRows    []AdditionalGuest
}

func newFakeRepo(guests ...*Guest) *fakeRepo {
	r := &fakeRepo{guests: map[string]*Guest{}}
	for _, g := range guests {
		r.guests[g.Token] = g
	}
	return r
}

func (r *fakeRepo) Create(g *Guest) error { return nil }

func (r *fakeRepo) GetByToken(token string) (*Guest, error) {
	g, ok := r.guests[token]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (r *fakeRepo) GetByID(id uint) (*Guest, error)             { return nil, nil }
func (r *fakeRepo) ListByEvent(eventID uint) ([]Guest, error)   { return nil, nil }
func (r *fakeRepo) ListPendingByEvent(uint) ([]Guest, error)    { return nil, nil }
func (r *fakeRepo) Delete(id uint) error                        { return nil }
func (r *fakeRepo) MarkEmailReminderSent(uint, time.Time) error { return nil }
func (r *fakeRepo) MarkSMSReminderSent(uint, time.Time) error   { return nil }

func (r *fakeRepo) UpdateFromPatch(g *Guest, replaceAdditional bool, additional []AdditionalGuest) error {
	r.updateCalls++
	r.lastReplace = replaceAdditional
	r.lastRows = additional
	if replaceAdditional {
		g.AdditionalGuests = additional
	}
	r.guests[g.Token] = g
	return nil
}

type fakeNotifier struct {
	confirmations int
	lastStatus    string
	alerts        []notification.RSVPAlert
}

func (n *fakeNotifier) SendInvitation(*event.Event, uint, string, string, *string, string, bool, bool) {
}

func (n *fakeNotifier) SendGuestConfirmation(_ *event.Event, _ uint, _, _ string, _ *string, status string, _, _ bool) {
	n.confirmations++
	n.lastStatus = status
}

func (n *fakeNotifier) PublishRSVPAlert(_ context.Context, alert notification.RSVPAlert) {
	n.alerts = append(n.alerts, alert)
}

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo, notif *fakeNotifier) *Service {
	svc := NewService(repo, nil, notif, nil)
	svc.Now = func() time.Time { return testNow }
	return svc
}

func pendingGuest(token string, ev event.Event) *Guest {
	return &Guest{
		ID:            1,
		EventID:       ev.ID,
		Event:         ev,
		Name:          "Priya",
		Email:         "priya@example.com",
		Status:        StatusPending,
		NotifyByEmail: true,
		Token:         token,
	}
}

func strPtr(s string) *string { return &s }

func TestApplyUpdate_AttendingWithinLimit(t *testing.T) {
	ev := event.Event{ID: 10, Title: "Housewarming", StartsAt: testNow.Add(72 * time.Hour), MaxGuestsPerInvitee: intPtr(2)}
	repo := newFakeRepo(pendingGuest("tok-a", ev))
	notif := &fakeNotifier{}
	svc := newTestService(repo, notif)

	g, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{
		Status:           strPtr("ATTENDING"),
		AdditionalGuests: &[]string{"Alice"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Status != StatusAttending {
		t.Fatalf("got status %s, want ATTENDING", g.Status)
	}
	if g.RespondedAt == nil || !g.RespondedAt.Equal(testNow) {
		t.Fatal("respondedAt must be set to now")
	}
	if len(g.AdditionalGuests) != 1 || g.AdditionalGuests[0].Name != "Alice" {
		t.Fatalf("additional guests not persisted: %+v", g.AdditionalGuests)
	}
	if notif.confirmations != 1 || notif.lastStatus != StatusAttending {
		t.Fatalf("expected one confirmation for ATTENDING, got %d (%s)", notif.confirmations, notif.lastStatus)
	}
}

func TestApplyUpdate_LimitExceeded(t *testing.T) {
	ev := event.Event{ID: 10, StartsAt: testNow.Add(72 * time.Hour), MaxGuestsPerInvitee: intPtr(2)}
	repo := newFakeRepo(pendingGuest("tok-a", ev))
	notif := &fakeNotifier{}
	svc := newTestService(repo, notif)

	// Two additional names against a cap of 2 (invitee + 1) must fail.
	_, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{
		Status:           strPtr("ATTENDING"),
		AdditionalGuests: &[]string{"Alice", "Bob"},
	}, "")

	if _, ok := err.(*LimitError); !ok {
		t.Fatalf("expected *LimitError, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatal("a rejected update must not write anything")
	}
	if notif.confirmations != 0 || len(notif.alerts) != 0 {
		t.Fatal("a rejected update must not notify anyone")
	}
}

func TestApplyUpdate_DeadlinePassed(t *testing.T) {
	deadline := testNow.Add(-time.Hour)
	ev := event.Event{ID: 10, StartsAt: testNow.Add(72 * time.Hour), RSVPDeadline: &deadline}
	repo := newFakeRepo(pendingGuest("tok-a", ev))
	notif := &fakeNotifier{}
	svc := newTestService(repo, notif)

	_, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{
		Status: strPtr("ATTENDING"),
	}, "")
	if err != ErrDeadlinePassed {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}
	if repo.updateCalls != 0 {
		t.Fatal("deadline rejection must leave the record unchanged")
	}
}

func TestApplyUpdate_GuestOverrideBeatsEventCap(t *testing.T) {
	ev := event.Event{ID: 10, StartsAt: testNow.Add(72 * time.Hour), MaxGuestsPerInvitee: intPtr(1)}

	overridden := pendingGuest("tok-vip", ev)
	overridden.MaxGuests = intPtr(5)
	sibling := pendingGuest("tok-plain", ev)
	sibling.ID = 2

	repo := newFakeRepo(overridden, sibling)
	notif := &fakeNotifier{}
	svc := newTestService(repo, notif)

	patch := UpdateRSVPRequest{
		Status:           strPtr("ATTENDING"),
		AdditionalGuests: &[]string{"A", "B", "C", "D"},
	}

	if _, err := svc.ApplyUpdate(context.Background(), "tok-vip", patch, ""); err != nil {
		t.Fatalf("override of 5 must allow 4 additional guests: %v", err)
	}
	if _, err := svc.ApplyUpdate(context.Background(), "tok-plain", patch, ""); err == nil {
		t.Fatal("sibling without override must still hit the event cap of 1")
	}
}

func TestApplyUpdate_OmittedListPreservesAdditionalGuests(t *testing.T) {
	ev := event.Event{ID: 10, StartsAt: testNow.Add(72 * time.Hour), MaxGuestsPerInvitee: intPtr(3)}
	g := pendingGuest("tok-a", ev)
	g.Status = StatusAttending
	responded := testNow.Add(-24 * time.Hour)
	g.RespondedAt = &responded
	g.AdditionalGuests = []AdditionalGuest{{GuestID: 1, Name: "Alice"}, {GuestID: 1, Name: "Bob"}}

	repo := newFakeRepo(g)
	notif := &fakeNotifier{}
	svc := newTestService(repo, notif)

	updated, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{
		DietaryNotes: strPtr("no peanuts"),
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.lastReplace {
		t.Fatal("omitting additional_guests must not replace the stored set")
	}
	if len(updated.AdditionalGuests) != 2 {
		t.Fatalf("stored additional guests lost: %+v", updated.AdditionalGuests)
	}
}

func TestApplyUpdate_BlankNamesTrimmedBeforeLimitCheck(t *testing.T) {
	ev := event.Event{ID: 10, StartsAt: testNow.Add(72 * time.Hour), MaxGuestsPerInvitee: intPtr(2)}
	repo := newFakeRepo(pendingGuest("tok-a", ev))
	svc := newTestService(repo, &fakeNotifier{})

	g, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{
		Status:           strPtr("ATTENDING"),
		AdditionalGuests: &[]string{"  Alice  ", "", "   "},
	}, "")
	if err != nil {
		t.Fatalf("blank names must not count against the limit: %v", err)
	}
	if len(g.AdditionalGuests) != 1 || g.AdditionalGuests[0].Name != "Alice" {
		t.Fatalf("got %+v, want single trimmed name Alice", g.AdditionalGuests)
	}
}

func TestApplyUpdate_ChangeTypes(t *testing.T) {
	ev := event.Event{ID: 10, StartsAt: testNow.Add(72 * time.Hour)}

	t.Run("first response publishes NEW", func(t *testing.T) {
		repo := newFakeRepo(pendingGuest("tok-a", ev))
		notif := &fakeNotifier{}
		svc := newTestService(repo, notif)

		if _, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{Status: strPtr("MAYBE")}, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notif.alerts) != 1 || notif.alerts[0].ChangeType != notification.ChangeNew {
			t.Fatalf("expected one NEW alert, got %+v", notif.alerts)
		}
	})

	t.Run("status flip publishes STATUS_CHANGED", func(t *testing.T) {
		g := pendingGuest("tok-a", ev)
		g.Status = StatusMaybe
		responded := testNow.Add(-24 * time.Hour)
		g.RespondedAt = &responded

		repo := newFakeRepo(g)
		notif := &fakeNotifier{}
		svc := newTestService(repo, notif)

		if _, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{Status: strPtr("NOT_ATTENDING")}, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notif.alerts) != 1 || notif.alerts[0].ChangeType != notification.ChangeStatusChanged {
			t.Fatalf("expected STATUS_CHANGED, got %+v", notif.alerts)
		}
		if notif.alerts[0].OldStatus != StatusMaybe {
			t.Fatalf("alert must carry the old status, got %s", notif.alerts[0].OldStatus)
		}
	})

	t.Run("detail-only change publishes UPDATED", func(t *testing.T) {
		g := pendingGuest("tok-a", ev)
		g.Status = StatusAttending
		responded := testNow.Add(-24 * time.Hour)
		g.RespondedAt = &responded

		repo := newFakeRepo(g)
		notif := &fakeNotifier{}
		svc := newTestService(repo, notif)

		if _, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{DietaryNotes: strPtr("vegan")}, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notif.alerts) != 1 || notif.alerts[0].ChangeType != notification.ChangeUpdated {
			t.Fatalf("expected UPDATED, got %+v", notif.alerts)
		}
	})

	t.Run("no observable change publishes nothing", func(t *testing.T) {
		g := pendingGuest("tok-a", ev)
		g.Status = StatusAttending
		responded := testNow.Add(-24 * time.Hour)
		g.RespondedAt = &responded

		repo := newFakeRepo(g)
		notif := &fakeNotifier{}
		svc := newTestService(repo, notif)

		if _, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{}, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notif.alerts) != 0 {
			t.Fatalf("empty patch must not alert hosts, got %+v", notif.alerts)
		}
	})
}

func TestApplyUpdate_PhoneDerivesSMSOptIn(t *testing.T) {
	ev := event.Event{ID: 10, StartsAt: testNow.Add(72 * time.Hour)}
	repo := newFakeRepo(pendingGuest("tok-a", ev))
	svc := newTestService(repo, &fakeNotifier{})

	g, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{
		Status: strPtr("ATTENDING"),
		Phone:  strPtr("+15550001111"),
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.NotifyBySMS {
		t.Fatal("supplying a phone number must opt the guest into SMS")
	}
}

func TestApplyUpdate_UnknownToken(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeNotifier{})

	_, err := svc.ApplyUpdate(context.Background(), "nope", UpdateRSVPRequest{}, "")
	if err != ErrGuestNotFound {
		t.Fatalf("expected ErrGuestNotFound, got %v", err)
	}
}

func TestApplyUpdate_InvalidStatus(t *testing.T) {
	ev := event.Event{ID: 10, StartsAt: testNow.Add(72 * time.Hour)}
	svc := newTestService(newFakeRepo(pendingGuest("tok-a", ev)), &fakeNotifier{})

	_, err := svc.ApplyUpdate(context.Background(), "tok-a", UpdateRSVPRequest{Status: strPtr("PERHAPS")}, "")
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}
