package event

import (
	"encoding/json"
	"fmt"
)

// Reminder spec units.
const (
	ReminderUnitDay  = "day"
	ReminderUnitHour = "hour"
)

// ReminderSpec is one host-configured reminder rule: "Value Units before the
// event starts".
type ReminderSpec struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// DecodeReminderSchedule parses the persisted schedule column. Two shapes are
// accepted for backward compatibility: a flat array of positive ints (each a
// day offset) and the tagged {type,value} form. Anything else, including a
// parse failure, decodes to an empty list; bad stored data must never take
// down a reminder run.
func DecodeReminderSchedule(raw *string) []ReminderSpec {
	if raw == nil || *raw == "" {
		return nil
	}

	var tagged []ReminderSpec
	if err := json.Unmarshal([]byte(*raw), &tagged); err == nil && allTagged(tagged) {
		return tagged
	}

	var legacy []int
	if err := json.Unmarshal([]byte(*raw), &legacy); err == nil {
		specs := make([]ReminderSpec, 0, len(legacy))
		for _, days := range legacy {
			if days > 0 {
				specs = append(specs, ReminderSpec{Type: ReminderUnitDay, Value: days})
			}
		}
		return specs
	}

	return nil
}

// allTagged rejects decodes where json.Unmarshal produced zero-value specs
// out of a non-tagged payload (e.g. "[7,3,1]" does not unmarshal into
// structs, but "[{}]" would).
func allTagged(specs []ReminderSpec) bool {
	if len(specs) == 0 {
		return false
	}
	for _, s := range specs {
		if s.Type == "" {
			return false
		}
	}
	return true
}

// EncodeReminderSchedule serializes specs in the tagged form. An empty list
// encodes to nil so the column stays NULL rather than holding "[]".
func EncodeReminderSchedule(specs []ReminderSpec) *string {
	if len(specs) == 0 {
		return nil
	}
	raw, err := json.Marshal(specs)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

// ValidateReminderSchedule rejects duplicate (type,value) pairs, non-positive
// values, and unknown units, naming the first offending spec.
func ValidateReminderSchedule(specs []ReminderSpec) error {
	seen := make(map[ReminderSpec]struct{}, len(specs))
	for _, spec := range specs {
		if spec.Type != ReminderUnitDay && spec.Type != ReminderUnitHour {
			return fmt.Errorf("invalid reminder unit %q (want day or hour)", spec.Type)
		}
		if spec.Value <= 0 {
			return fmt.Errorf("reminder value must be positive, got %d %s(s)", spec.Value, spec.Type)
		}
		if _, dup := seen[spec]; dup {
			return fmt.Errorf("duplicate reminder: %d %s(s) before", spec.Value, spec.Type)
		}
		seen[spec] = struct{}{}
	}
	return nil
}
