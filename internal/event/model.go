package event

import (
	"time"
)

// Co-host roles. A cohost may manage guests and notifications, a viewer may
// only read.
const (
	CoHostRoleCoHost = "cohost"
	CoHostRoleViewer = "viewer"
)

// Resolved event-level roles, in precedence order.
const (
	RoleAdmin  = "ADMIN"
	RoleHost   = "HOST"
	RoleCoHost = "COHOST"
	RoleViewer = "VIEWER"
)

type Event struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	HostID      uint       `gorm:"not null;index" json:"host_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"type:text" json:"location"`
	StartsAt    time.Time  `gorm:"not null;index" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`

	// RSVPDeadline, when set, rejects guest responses after it passes.
	RSVPDeadline *time.Time `json:"rsvp_deadline,omitempty"`

	// MaxGuestsPerInvitee caps the party size per invitee (the invitee plus
	// additional guests). Null means unlimited.
	MaxGuestsPerInvitee *int `json:"max_guests_per_invitee,omitempty"`

	// ReminderSchedule is a JSON string column, either the legacy flat
	// int-array form or the tagged {type,value} form. Decoded through
	// DecodeReminderSchedule, re-encoded tagged on every host edit.
	ReminderSchedule *string `gorm:"type:text" json:"reminder_schedule,omitempty"`

	// NotifyOnRSVP is the host's opt-in for RSVP change alerts.
	NotifyOnRSVP bool `gorm:"default:true" json:"notify_on_rsvp"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	CoHosts []CoHost `gorm:"foreignKey:EventID" json:"co_hosts,omitempty"`
}

type CoHost struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      uint      `gorm:"not null;index:idx_event_user,unique" json:"event_id"`
	UserID       uint      `gorm:"not null;index:idx_event_user,unique" json:"user_id"`
	Role         string    `gorm:"size:20;not null;default:'cohost'" json:"role"` // cohost, viewer
	NotifyOnRSVP bool      `gorm:"default:true" json:"notify_on_rsvp"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type CreateEventRequest struct {
	Title               string `json:"title" binding:"required"`
	Description         string `json:"description"`
	Location            string `json:"location"`
	StartsAt            string `json:"starts_at" binding:"required"` // RFC 3339
	EndsAt              string `json:"ends_at,omitempty"`
	RSVPDeadline        string `json:"rsvp_deadline,omitempty"`
	MaxGuestsPerInvitee *int   `json:"max_guests_per_invitee,omitempty"`
	NotifyOnRSVP        *bool  `json:"notify_on_rsvp,omitempty"`
}

type UpdateEventRequest struct {
	ID                  uint   `json:"-"`
	Title               string `json:"title" binding:"required"`
	Description         string `json:"description"`
	Location            string `json:"location"`
	StartsAt            string `json:"starts_at" binding:"required"`
	EndsAt              string `json:"ends_at,omitempty"`
	RSVPDeadline        string `json:"rsvp_deadline,omitempty"`
	MaxGuestsPerInvitee *int   `json:"max_guests_per_invitee,omitempty"`
	NotifyOnRSVP        *bool  `json:"notify_on_rsvp,omitempty"`
	IsActive            *bool  `json:"is_active,omitempty"`
}

type AddCoHostRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	Role         string `json:"role"`
	NotifyOnRSVP *bool  `json:"notify_on_rsvp,omitempty"`
}
