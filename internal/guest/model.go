package guest

import (
	"time"

	"github.com/mithunkr7/event-invite-backend/internal/event"
)

// Guest response statuses. PENDING is the initial value only; any status may
// transition to any other until the event's RSVP deadline.
const (
	StatusPending      = "PENDING"
	StatusAttending    = "ATTENDING"
	StatusNotAttending = "NOT_ATTENDING"
	StatusMaybe        = "MAYBE"
)

type Guest struct {
	ID      uint        `gorm:"primaryKey" json:"id"`
	EventID uint        `gorm:"not null;index" json:"event_id"`
	Event   event.Event `gorm:"foreignKey:EventID" json:"-"`

	Name  string  `gorm:"type:varchar(255);not null" json:"name"`
	Email string  `gorm:"type:varchar(255);not null" json:"email"`
	Phone *string `gorm:"type:varchar(32)" json:"phone,omitempty"`

	Status string `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	// MaxGuests, when set, overrides the event-level cap for this guest only.
	MaxGuests *int `json:"max_guests,omitempty"`

	NotifyByEmail bool   `gorm:"default:true" json:"notify_by_email"`
	NotifyBySMS   bool   `gorm:"default:false" json:"notify_by_sms"`
	DietaryNotes  string `gorm:"type:text" json:"dietary_notes"`

	// Token is the unguessable handle for anonymous RSVP access.
	Token string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`

	RespondedAt *time.Time `json:"responded_at,omitempty"`

	// Per-channel reminder dedup markers.
	ReminderSentAt    *time.Time `json:"reminder_sent_at,omitempty"`
	SMSReminderSentAt *time.Time `json:"sms_reminder_sent_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	AdditionalGuests []AdditionalGuest `gorm:"foreignKey:GuestID" json:"additional_guests,omitempty"`
}

// AdditionalGuest is a plus-one named by the primary guest. The set is
// replaced wholesale whenever an RSVP update supplies a new list.
type AdditionalGuest struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	GuestID  uint   `gorm:"not null;index" json:"guest_id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Position int    `gorm:"not null;default:0" json:"position"`
}

// UpdateRSVPRequest is the partial patch a guest submits through their token.
// Nil means "leave unchanged"; a supplied additional-guest list replaces the
// stored set.
type UpdateRSVPRequest struct {
	Name             *string   `json:"name,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Status           *string   `json:"status,omitempty"`
	AdditionalGuests *[]string `json:"additional_guests,omitempty"`
	DietaryNotes     *string   `json:"dietary_notes,omitempty"`
}

type AddGuestRequest struct {
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Phone         *string `json:"phone,omitempty"`
	MaxGuests     *int    `json:"max_guests,omitempty"`
	NotifyByEmail *bool   `json:"notify_by_email,omitempty"`
	NotifyBySMS   *bool   `json:"notify_by_sms,omitempty"`
}
