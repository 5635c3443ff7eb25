package event

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestDecodeReminderSchedule(t *testing.T) {
	t.Run("nil and empty decode to nothing", func(t *testing.T) {
		if got := DecodeReminderSchedule(nil); len(got) != 0 {
			t.Fatalf("nil raw: got %v", got)
		}
		if got := DecodeReminderSchedule(strPtr("")); len(got) != 0 {
			t.Fatalf("empty raw: got %v", got)
		}
	})

	t.Run("legacy int array upgrades to day specs", func(t *testing.T) {
		got := DecodeReminderSchedule(strPtr("[7,3,1]"))
		want := []ReminderSpec{
			{Type: ReminderUnitDay, Value: 7},
			{Type: ReminderUnitDay, Value: 3},
			{Type: ReminderUnitDay, Value: 1},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("legacy array drops non-positive entries", func(t *testing.T) {
		got := DecodeReminderSchedule(strPtr("[7,0,-2]"))
		want := []ReminderSpec{{Type: ReminderUnitDay, Value: 7}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("tagged form passes through", func(t *testing.T) {
		got := DecodeReminderSchedule(strPtr(`[{"type":"day","value":2},{"type":"hour","value":6}]`))
		want := []ReminderSpec{
			{Type: ReminderUnitDay, Value: 2},
			{Type: ReminderUnitHour, Value: 6},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("garbage never errors", func(t *testing.T) {
		for _, raw := range []string{"not json", "{}", `"seven"`, "[[1]]"} {
			if got := DecodeReminderSchedule(strPtr(raw)); len(got) != 0 {
				t.Errorf("raw %q: got %v, want empty", raw, got)
			}
		}
	})
}

func TestEncodeReminderSchedule_RoundTrip(t *testing.T) {
	specs := []ReminderSpec{
		{Type: ReminderUnitDay, Value: 7},
		{Type: ReminderUnitHour, Value: 12},
	}

	raw := EncodeReminderSchedule(specs)
	if raw == nil {
		t.Fatal("non-empty specs must encode")
	}
	if got := DecodeReminderSchedule(raw); !reflect.DeepEqual(got, specs) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, specs)
	}

	if EncodeReminderSchedule(nil) != nil {
		t.Fatal("empty list must encode to nil, not \"[]\"")
	}
}

func TestValidateReminderSchedule(t *testing.T) {
	valid := []ReminderSpec{
		{Type: ReminderUnitDay, Value: 7},
		{Type: ReminderUnitDay, Value: 1},
		{Type: ReminderUnitHour, Value: 1},
	}
	if err := ValidateReminderSchedule(valid); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}

	cases := map[string][]ReminderSpec{
		"unknown unit":   {{Type: "week", Value: 1}},
		"zero value":     {{Type: ReminderUnitDay, Value: 0}},
		"negative value": {{Type: ReminderUnitHour, Value: -3}},
		"duplicate pair": {{Type: ReminderUnitDay, Value: 3}, {Type: ReminderUnitDay, Value: 3}},
	}
	for name, specs := range cases {
		t.Run(name, func(t *testing.T) {
			if err := ValidateReminderSchedule(specs); err == nil {
				t.Fatalf("expected rejection for %v", specs)
			}
		})
	}

	t.Run("same value different units is not a duplicate", func(t *testing.T) {
		specs := []ReminderSpec{
			{Type: ReminderUnitDay, Value: 1},
			{Type: ReminderUnitHour, Value: 1},
		}
		if err := ValidateReminderSchedule(specs); err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
	})
}
