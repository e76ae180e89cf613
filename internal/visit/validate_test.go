package visit

import "testing"

func validDetails() Details {
	return Details{
		Place:   "Satlok Ashram",
		Date:    "2024-05-01",
		Mantra:  "Satnam",
		Purpose: "Seva",
	}
}

func TestValidateDetailsValid(t *testing.T) {
	errs := ValidateDetails(validDetails())
	if len(errs) != 0 {
		t.Fatalf("got %d errors, want 0: %v", len(errs), errs)
	}
}

func TestValidateDetailsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Details)
		field  string
	}{
		{"missing place", func(d *Details) { d.Place = "" }, FieldPlace},
		{"whitespace place", func(d *Details) { d.Place = "   " }, FieldPlace},
		{"missing date", func(d *Details) { d.Date = "" }, FieldDate},
		{"missing mantra", func(d *Details) { d.Mantra = "" }, FieldMantra},
		{"missing purpose", func(d *Details) { d.Purpose = "" }, FieldPurpose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.modify(&d)

			errs := ValidateDetails(d)
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
			}
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("expected error keyed on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateDetailsCustomPurpose(t *testing.T) {
	d := validDetails()
	d.Purpose = "Other"

	errs := ValidateDetails(d)
	if _, ok := errs[FieldCustomPurpose]; !ok {
		t.Errorf("expected customPurpose error, got %v", errs)
	}

	d.CustomPurpose = "Naam Diksha"
	errs = ValidateDetails(d)
	if len(errs) != 0 {
		t.Errorf("got %v, want no errors", errs)
	}

	// Custom purpose is only checked when the purpose is Other.
	d.Purpose = "Seva"
	d.CustomPurpose = ""
	errs = ValidateDetails(d)
	if len(errs) != 0 {
		t.Errorf("got %v, want no errors", errs)
	}
}

func TestValidateDetailsEmpty(t *testing.T) {
	errs := ValidateDetails(Details{})
	want := []string{FieldPlace, FieldDate, FieldMantra, FieldPurpose}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), errs)
	}
	for _, field := range want {
		if errs[field] == "" {
			t.Errorf("expected message for %q", field)
		}
	}
}

func TestValidateDetailsIdempotent(t *testing.T) {
	d := Details{Place: "Ashram"}
	first := ValidateDetails(d)
	second := ValidateDetails(d)

	if len(first) != len(second) {
		t.Fatalf("runs disagree: %v vs %v", first, second)
	}
	for k, v := range first {
		if second[k] != v {
			t.Errorf("key %q: %q vs %q", k, v, second[k])
		}
	}
}

func TestValidateMembers(t *testing.T) {
	members := []MemberInput{
		{Name: "Ram", Relationship: "Parent"},
		{Name: "", Relationship: "Child"},
	}

	errs := ValidateMembers(members)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[MemberFieldKey(1, "name")] != "Name is required" {
		t.Errorf("errors = %v, want name error on member 1", errs)
	}
}

func TestValidateMembersAllBlank(t *testing.T) {
	errs := ValidateMembers([]MemberInput{{}, {}})
	wantKeys := []string{
		MemberFieldKey(0, "name"),
		MemberFieldKey(0, "relationship"),
		MemberFieldKey(1, "name"),
		MemberFieldKey(1, "relationship"),
	}
	if len(errs) != len(wantKeys) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(wantKeys), errs)
	}
	for _, key := range wantKeys {
		if errs[key] == "" {
			t.Errorf("expected message for %q", key)
		}
	}
}

func TestMemberFieldKey(t *testing.T) {
	if got := MemberFieldKey(2, "name"); got != "member_2_name" {
		t.Errorf("got %q, want member_2_name", got)
	}
	if got := MemberFieldKey(0, "relationship"); got != "member_0_relationship" {
		t.Errorf("got %q, want member_0_relationship", got)
	}
}
