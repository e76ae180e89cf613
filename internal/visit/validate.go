package visit

import (
	"fmt"
	"strings"
)

// Details holds the raw step-two form fields before they are parsed into
// domain types. Values come straight from user input.
type Details struct {
	Place         string
	Date          string
	Mantra        string
	Purpose       string
	CustomPurpose string
}

// MemberInput holds one family member's raw form fields. Age is kept as
// text until submission, when it is parsed to an integer or dropped.
type MemberInput struct {
	Name         string
	Relationship string
	Age          string
	Mantra       string
}

// Field keys for details validation errors.
const (
	FieldPlace         = "place"
	FieldDate          = "date"
	FieldMantra        = "mantra"
	FieldPurpose       = "purpose"
	FieldCustomPurpose = "customPurpose"
)

// ValidateDetails checks the step-two fields and returns a map of field
// key to error message. An empty map means the step is valid. The check
// is pure: identical input always yields identical output.
func ValidateDetails(d Details) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(d.Place) == "" {
		errs[FieldPlace] = "Please enter the spiritual place name"
	}
	if d.Date == "" {
		errs[FieldDate] = "Please select the date of your visit"
	}
	if d.Mantra == "" {
		errs[FieldMantra] = "Please select your spiritual mantra"
	}
	if d.Purpose == "" {
		errs[FieldPurpose] = "Please select the purpose of your visit"
	}
	if d.Purpose == string(PurposeOther) && strings.TrimSpace(d.CustomPurpose) == "" {
		errs[FieldCustomPurpose] = "Please provide the custom purpose"
	}

	return errs
}

// ValidateMembers checks every family member's required fields and
// returns indexed error keys (member_<i>_name, member_<i>_relationship).
// An empty map means the family step is valid.
func ValidateMembers(members []MemberInput) map[string]string {
	errs := make(map[string]string)

	for i, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			errs[MemberFieldKey(i, "name")] = "Name is required"
		}
		if strings.TrimSpace(m.Relationship) == "" {
			errs[MemberFieldKey(i, "relationship")] = "Relationship is required"
		}
	}

	return errs
}

// MemberFieldKey builds the indexed error key for a member field.
func MemberFieldKey(index int, field string) string {
	return fmt.Sprintf("member_%d_%s", index, field)
}
