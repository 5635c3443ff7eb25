package guest

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestValidateGuestLimit(t *testing.T) {
	t.Run("nil limit is unlimited", func(t *testing.T) {
		for _, k := range []int{0, 1, 5, 100} {
			if err := ValidateGuestLimit(nil, k); err != nil {
				t.Fatalf("nil limit with %d additional guests: unexpected error %v", k, err)
			}
		}
	})

	t.Run("limit counts the invitee", func(t *testing.T) {
		// A limit of L allows at most L-1 additional names.
		cases := []struct {
			limit int
			count int
			ok    bool
		}{
			{1, 0, true},
			{1, 1, false},
			{2, 1, true},
			{2, 2, false},
			{5, 4, true},
			{5, 5, false},
		}
		for _, tc := range cases {
			err := ValidateGuestLimit(intPtr(tc.limit), tc.count)
			if tc.ok && err != nil {
				t.Errorf("limit=%d count=%d: unexpected error %v", tc.limit, tc.count, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("limit=%d count=%d: expected limit error", tc.limit, tc.count)
			}
		}
	})

	t.Run("error carries the allowed maximum", func(t *testing.T) {
		err := ValidateGuestLimit(intPtr(3), 5)
		limitErr, ok := err.(*LimitError)
		if !ok {
			t.Fatalf("expected *LimitError, got %T", err)
		}
		if limitErr.MaxAdditional != 2 {
			t.Fatalf("got max %d, want 2", limitErr.MaxAdditional)
		}
	})
}

func TestEffectiveLimit(t *testing.T) {
	eventCap := intPtr(1)
	override := intPtr(5)

	if got := EffectiveLimit(override, eventCap); got != override {
		t.Fatal("guest-level override must win over the event cap")
	}
	if got := EffectiveLimit(nil, eventCap); got != eventCap {
		t.Fatal("event cap must apply when no override is set")
	}
	if got := EffectiveLimit(nil, nil); got != nil {
		t.Fatal("both nil must mean unlimited")
	}
}

func TestDeadlineAllows(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("nil deadline always allows", func(t *testing.T) {
		if !DeadlineAllows(nil, now) {
			t.Fatal("nil deadline must allow updates")
		}
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		deadline := now
		if !DeadlineAllows(&deadline, now) {
			t.Fatal("now == deadline must still allow")
		}
	})

	t.Run("past deadline rejects", func(t *testing.T) {
		deadline := now.Add(-time.Hour)
		if DeadlineAllows(&deadline, now) {
			t.Fatal("deadline one hour ago must reject")
		}
	})

	t.Run("future deadline allows", func(t *testing.T) {
		deadline := now.Add(24 * time.Hour)
		if !DeadlineAllows(&deadline, now) {
			t.Fatal("future deadline must allow")
		}
	})
}
