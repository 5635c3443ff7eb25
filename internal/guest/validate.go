package guest

import (
	"fmt"
	"time"
)

// EffectiveLimit resolves the additional-guest cap for one guest: the
// guest-level override wins, else the event-level cap, else unlimited (nil).
func EffectiveLimit(guestMax, eventMax *int) *int {
	if guestMax != nil {
		return guestMax
	}
	return eventMax
}

// LimitError reports how many additional guests were actually allowed.
type LimitError struct {
	MaxAdditional int
}

func (e *LimitError) Error() string {
	if e.MaxAdditional == 1 {
		return "guest limit exceeded: at most 1 additional guest is allowed"
	}
	return fmt.Sprintf("guest limit exceeded: at most %d additional guests are allowed", e.MaxAdditional)
}

// ValidateGuestLimit checks a proposed additional-guest count against the
// effective limit. The limit counts the invitee themself, so a limit of L
// permits at most L-1 additional names (zero when L is 1). A nil limit means
// unlimited.
func ValidateGuestLimit(limit *int, additionalCount int) error {
	if limit == nil {
		return nil
	}
	maxAdditional := *limit - 1
	if maxAdditional < 0 {
		maxAdditional = 0
	}
	if additionalCount > maxAdditional {
		return &LimitError{MaxAdditional: maxAdditional}
	}
	return nil
}

// DeadlineAllows reports whether an RSVP change is still permitted: true when
// no deadline is set or now is at or before it.
func DeadlineAllows(deadline *time.Time, now time.Time) bool {
	return deadline == nil || !now.After(*deadline)
}
