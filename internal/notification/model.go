package notification

import (
	"time"

	"gorm.io/datatypes"
)

// ChannelSetting is the single-row table holding the active notification
// channel configuration. Environment variables act as the fallback when no
// row exists or a field is blank.
type ChannelSetting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SMSProvider   string `gorm:"size:32" json:"sms_provider"`
	SMSAccountSID string `gorm:"size:128" json:"sms_account_sid"`
	SMSAuthToken  string `gorm:"size:128" json:"-"`
	SMSAPIKey     string `gorm:"size:128" json:"-"`
	SMSAPISecret  string `gorm:"size:128" json:"-"`
	SMSFrom       string `gorm:"size:32" json:"sms_from"`

	SMTPHost     string `gorm:"size:128" json:"smtp_host"`
	SMTPPort     string `gorm:"size:8" json:"smtp_port"`
	SMTPUsername string `gorm:"size:128" json:"smtp_username"`
	SMTPPassword string `gorm:"size:128" json:"-"`
	SMTPFrom     string `gorm:"size:128" json:"smtp_from"`

	UpdatedByID *uint     `json:"updated_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Notification log statuses.
const (
	LogStatusSent   = "SENT"
	LogStatusFailed = "FAILED"
)

// Notification log channels.
const (
	ChannelEmail = "EMAIL"
	ChannelSMS   = "SMS"
	ChannelPush  = "PUSH"
	ChannelInApp = "IN_APP"
)

// Notification log kinds.
const (
	KindInvitation   = "INVITATION"
	KindConfirmation = "CONFIRMATION"
	KindReminder     = "REMINDER"
	KindHostAlert    = "HOST_ALERT"
)

// NotificationLog records every outbound delivery attempt.
type NotificationLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	EventID   *uint          `gorm:"index" json:"event_id"`
	GuestID   *uint          `gorm:"index" json:"guest_id"`
	Channel   string         `gorm:"size:16;index" json:"channel"`
	Kind      string         `gorm:"size:24" json:"kind"`
	Recipient string         `gorm:"size:256" json:"recipient"`
	Status    string         `gorm:"size:16" json:"status"`
	Reason    string         `gorm:"size:64" json:"reason,omitempty"`
	MessageID string         `gorm:"size:128" json:"message_id,omitempty"`
	Details   datatypes.JSON `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// InAppNotification is the bell-icon feed entry shown to hosts and co-hosts.
type InAppNotification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	EventID   *uint          `gorm:"index" json:"event_id"`
	Title     string         `gorm:"size:160" json:"title"`
	Body      string         `gorm:"size:512" json:"body"`
	Data      datatypes.JSON `json:"data,omitempty"`
	IsRead    bool           `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

// FCMDeviceToken maps a user to a registered push device.
type FCMDeviceToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_fcm_user_token,unique" json:"user_id"`
	Token     string    `gorm:"size:512;index:idx_fcm_user_token,unique" json:"token"`
	Platform  string    `gorm:"size:16" json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
