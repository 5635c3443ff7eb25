package auditlog

import "time"

// Actions written by the RSVP and notification subsystems.
const (
	ActionRSVPUpdated      = "RSVP_UPDATED"
	ActionGuestInvited     = "GUEST_INVITED"
	ActionGuestRemoved     = "GUEST_REMOVED"
	ActionEventCreated     = "EVENT_CREATED"
	ActionEventUpdated     = "EVENT_UPDATED"
	ActionEventDeleted     = "EVENT_DELETED"
	ActionScheduleUpdated  = "REMINDER_SCHEDULE_UPDATED"
	ActionCoHostAdded      = "COHOST_ADDED"
	ActionCoHostRemoved    = "COHOST_REMOVED"
	ActionReminderSent     = "REMINDER_SENT"
	ActionHostAlertSent    = "HOST_ALERT_SENT"
	ActionChannelConfigSet = "CHANNEL_CONFIG_UPDATED"
)

// AuditLog represents the audit_logs table. EventID is nullable because some
// actions (login failures, channel config changes) are not event-scoped.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	EventID   *uint     `gorm:"index" json:"event_id"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:jsonb" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Status    string    `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID  *uint  `json:"user_id"`
	EventID *uint  `json:"event_id"`
	Action  string `json:"action"`
	Status  string `json:"status"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
}

// PaginatedAuditLogs represents a paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
