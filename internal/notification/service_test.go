package notification

import (
	"context"
	"testing"
	"time"

	"github.com/mithunkr7/event-invite-backend/config"
	"github.com/mithunkr7/event-invite-backend/internal/auditlog"
	"github.com/mithunkr7/event-invite-backend/internal/event"
)

type fakeRepo struct {
	logs  []NotificationLog
	inApp []InAppNotification
}

func (f *fakeRepo) GetChannelSetting() (*ChannelSetting, error) { return nil, nil }
func (f *fakeRepo) SaveChannelSetting(*ChannelSetting) error    { return nil }
func (f *fakeRepo) CreateLog(entry *NotificationLog) error {
	f.logs = append(f.logs, *entry)
	return nil
}
func (f *fakeRepo) ListLogsByEvent(uint, int, int) ([]NotificationLog, int64, error) {
	return nil, 0, nil
}
func (f *fakeRepo) CreateInApp(n *InAppNotification) error {
	f.inApp = append(f.inApp, *n)
	return nil
}
func (f *fakeRepo) ListInAppByUser(uint, bool, int, int) ([]InAppNotification, int64, error) {
	return nil, 0, nil
}
func (f *fakeRepo) MarkInAppRead(uint, uint) error                    { return nil }
func (f *fakeRepo) MarkAllInAppRead(uint) error                       { return nil }
func (f *fakeRepo) UpsertDeviceToken(*FCMDeviceToken) error           { return nil }
func (f *fakeRepo) RemoveDeviceToken(uint, string) error              { return nil }
func (f *fakeRepo) ListDeviceTokens([]uint) ([]FCMDeviceToken, error) { return nil, nil }
func (f *fakeRepo) DeleteDeviceTokensByValue([]string) error          { return nil }

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) LogAction(_ context.Context, _, _ *uint, action string, _ map[string]interface{}, _ string, _ string) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAudit) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

func (f *fakeAudit) GetAuditLogByID(context.Context, uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func TestReminderSends_WriteAuditTrail(t *testing.T) {
	repo := &fakeRepo{}
	audit := &fakeAudit{}
	svc := NewService(repo, &config.Config{}, nil, nil, audit)

	ev := &event.Event{ID: 7, Title: "Launch Party", StartsAt: time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)}

	if err := svc.SendReminderEmail(ev, 3, "Ana", "ana@example.com", "tok-1"); err == nil {
		t.Fatal("unconfigured SMTP must surface a send error")
	}
	out := svc.SendReminderSMS(ev, 3, "+15550006666", "tok-1")
	if out.Sent {
		t.Fatal("unconfigured SMS provider must not report Sent")
	}

	if len(repo.logs) != 2 {
		t.Fatalf("want 2 delivery log rows, got %d", len(repo.logs))
	}
	for _, entry := range repo.logs {
		if entry.Kind != KindReminder {
			t.Fatalf("want kind %s, got %s", KindReminder, entry.Kind)
		}
		if entry.Status != LogStatusFailed {
			t.Fatalf("unconfigured channel must log %s, got %s", LogStatusFailed, entry.Status)
		}
	}

	if len(audit.actions) != 2 {
		t.Fatalf("want one audit row per reminder attempt, got %v", audit.actions)
	}
	for _, action := range audit.actions {
		if action != auditlog.ActionReminderSent {
			t.Fatalf("got audit action %s, want %s", action, auditlog.ActionReminderSent)
		}
	}
}

func TestRecordInApp_LogsDelivery(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &config.Config{}, nil, nil, nil)

	ev := &event.Event{ID: 9, Title: "Launch Party"}
	svc.recordInApp(4, ev, "RSVP update: Launch Party", "Ana responded ATTENDING (party of 2).", []byte(`{}`))

	if len(repo.inApp) != 1 {
		t.Fatalf("want 1 in-app row, got %d", len(repo.inApp))
	}
	if repo.inApp[0].UserID != 4 {
		t.Fatalf("in-app row stored for user %d, want 4", repo.inApp[0].UserID)
	}

	if len(repo.logs) != 1 {
		t.Fatalf("want 1 delivery log row, got %d", len(repo.logs))
	}
	entry := repo.logs[0]
	if entry.Channel != ChannelInApp || entry.Kind != KindHostAlert {
		t.Fatalf("got channel=%s kind=%s, want %s/%s", entry.Channel, entry.Kind, ChannelInApp, KindHostAlert)
	}
	if entry.Status != LogStatusSent {
		t.Fatalf("in-app delivery must log %s, got %s", LogStatusSent, entry.Status)
	}
}
