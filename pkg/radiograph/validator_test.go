package radiograph

import (
	"strings"
	"testing"
)

func TestValidatorAcceptsCompleteRecord(t *testing.T) {
	v := NewValidator()
	in := validInput()
	in.Site = "distal"
	in.ProcedureType = "Non-Operative"
	in.CastType = "short arm cast"

	if err := v.Validate(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatorRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RecordInput)
	}{
		{"missing patient name", func(in *RecordInput) { in.PatientName = "  " }},
		{"missing age", func(in *RecordInput) { in.Age = nil }},
		{"negative age", func(in *RecordInput) { in.Age = intPtr(-1) }},
		{"missing sex", func(in *RecordInput) { in.Sex = "" }},
		{"unknown sex", func(in *RecordInput) { in.Sex = "other" }},
		{"unknown pathomechanism", func(in *RecordInput) { in.Pathomechanism = "earthquake" }},
		{"unknown xray type", func(in *RecordInput) { in.XrayType = "skull" }},
		{"unknown xray pattern", func(in *RecordInput) { in.XrayPattern = "greenstick" }},
		{"unknown site", func(in *RecordInput) { in.Site = "medial" }},
		{"missing injury type", func(in *RecordInput) { in.InjuryType = "" }},
		{"unknown injury count", func(in *RecordInput) { in.InjuryCount = "several" }},
		{"unknown procedure type", func(in *RecordInput) { in.ProcedureType = "operative" }},
		{"notes too long", func(in *RecordInput) { in.Notes = strings.Repeat("x", 501) }},
	}

	v := NewValidator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			err := v.Validate(in)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestValidatorAllowsOptionalFieldsEmpty(t *testing.T) {
	v := NewValidator()
	if err := v.Validate(validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatorAcceptsNotesAtLimit(t *testing.T) {
	v := NewValidator()
	in := validInput()
	in.Notes = strings.Repeat("x", 500)
	if err := v.Validate(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
