package radiograph

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func invalidf(format string, args ...interface{}) error {
	return ValidationError{reason: fmt.Errorf(format, args...)}
}

type Validator struct {
	sexes           map[string]struct{}
	pathomechanisms map[string]struct{}
	xrayTypes       map[string]struct{}
	xrayPatterns    map[string]struct{}
	sites           map[string]struct{}
	injuryTypes     map[string]struct{}
	injuryCounts    map[string]struct{}
	procedureTypes  map[string]struct{}
}

func NewValidator() *Validator {
	return &Validator{
		sexes:           toSet(Sexes),
		pathomechanisms: toSet(Pathomechanisms),
		xrayTypes:       toSet(XrayTypes),
		xrayPatterns:    toSet(XrayPatterns),
		sites:           toSet(Sites),
		injuryTypes:     toSet(InjuryTypes),
		injuryCounts:    toSet(InjuryCounts),
		procedureTypes:  toSet(ProcedureTypes),
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (v *Validator) Validate(in RecordInput) error {
	if strings.TrimSpace(in.PatientName) == "" {
		return invalidf("patientName required")
	}
	if in.Age == nil {
		return invalidf("age required")
	}
	if *in.Age < 0 {
		return invalidf("age must not be negative")
	}

	if err := v.requireEnum("sex", in.Sex, v.sexes); err != nil {
		return err
	}
	if err := v.requireEnum("pathomechanism", in.Pathomechanism, v.pathomechanisms); err != nil {
		return err
	}
	if err := v.requireEnum("xrayType", in.XrayType, v.xrayTypes); err != nil {
		return err
	}
	if err := v.requireEnum("xrayPattern", in.XrayPattern, v.xrayPatterns); err != nil {
		return err
	}
	if err := v.optionalEnum("site", in.Site, v.sites); err != nil {
		return err
	}
	if err := v.requireEnum("injuryType", in.InjuryType, v.injuryTypes); err != nil {
		return err
	}
	if err := v.requireEnum("injuryCount", in.InjuryCount, v.injuryCounts); err != nil {
		return err
	}
	if err := v.optionalEnum("procedureType", in.ProcedureType, v.procedureTypes); err != nil {
		return err
	}

	if len(in.Notes) > maxNotesLength {
		return invalidf("notes must not exceed %d characters", maxNotesLength)
	}

	return nil
}

func (v *Validator) requireEnum(field, value string, allowed map[string]struct{}) error {
	if value == "" {
		return invalidf("%s required", field)
	}
	if _, ok := allowed[value]; !ok {
		return invalidf("%s '%s' is not a valid value", field, value)
	}
	return nil
}

func (v *Validator) optionalEnum(field, value string, allowed map[string]struct{}) error {
	if value == "" {
		return nil
	}
	if _, ok := allowed[value]; !ok {
		return invalidf("%s '%s' is not a valid value", field, value)
	}
	return nil
}
