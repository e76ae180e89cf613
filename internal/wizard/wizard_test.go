package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/yatrik/yatra/internal/visit"
)

// captureSubmitter records payloads and returns a canned error.
type captureSubmitter struct {
	payloads []visit.Payload
	err      error
}

func (s *captureSubmitter) Submit(p visit.Payload) error {
	s.payloads = append(s.payloads, p)
	return s.err
}

func fillDetails(w *Wizard) {
	w.SetDetail(visit.FieldPlace, "  Satlok Ashram  ")
	w.SetDetail(visit.FieldDate, "2024-05-01")
	w.SetDetail(visit.FieldMantra, "Satnam")
	w.SetDetail(visit.FieldPurpose, "Seva")
}

func TestNewDefaults(t *testing.T) {
	w := New()

	if w.Step() != StepVisitType {
		t.Errorf("step = %d, want %d", w.Step(), StepVisitType)
	}
	if w.VisitType() != visit.Individual {
		t.Errorf("visit type = %q, want individual", w.VisitType())
	}
	if len(w.Members()) != 1 {
		t.Errorf("got %d member rows, want 1 blank row", len(w.Members()))
	}
	if want := time.Now().Format("2006-01-02"); w.Details().Date != want {
		t.Errorf("date = %q, want today %q", w.Details().Date, want)
	}
	if w.Done() {
		t.Error("new wizard reports done")
	}
}

func TestStepOneAlwaysAdvances(t *testing.T) {
	w := New()
	s := &captureSubmitter{}

	submitted, err := w.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if submitted {
		t.Error("step one should not submit")
	}
	if w.Step() != StepDetails {
		t.Errorf("step = %d, want %d", w.Step(), StepDetails)
	}
}

func TestStepTwoBlocksOnErrors(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.Next(s)

	w.SetDetail(visit.FieldDate, "")
	submitted, err := w.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if submitted {
		t.Error("invalid details should not submit")
	}
	if w.Step() != StepDetails {
		t.Errorf("step = %d, want to stay on details", w.Step())
	}
	if len(w.Errors()) == 0 {
		t.Error("expected validation errors")
	}
	if len(s.payloads) != 0 {
		t.Error("submitter called despite validation errors")
	}
}

func TestSetDetailClearsError(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.Next(s)

	w.SetDetail(visit.FieldDate, "")
	w.Next(s)
	if w.Errors()[visit.FieldDate] == "" {
		t.Fatal("expected date error")
	}

	w.SetDetail(visit.FieldDate, "2024-05-01")
	if _, ok := w.Errors()[visit.FieldDate]; ok {
		t.Error("setting the field should clear its error")
	}
}

func TestIndividualSubmitsFromStepTwo(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.Next(s)
	fillDetails(w)

	submitted, err := w.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !submitted {
		t.Fatal("valid individual details should submit directly")
	}
	if !w.Done() {
		t.Error("wizard should be done")
	}

	if len(s.payloads) != 1 {
		t.Fatalf("got %d payloads, want 1", len(s.payloads))
	}
	p := s.payloads[0]
	if p.VisitType != visit.Individual {
		t.Errorf("visitType = %q, want individual", p.VisitType)
	}
	if p.Place != "Satlok Ashram" {
		t.Errorf("place = %q, want trimmed", p.Place)
	}
	if p.Date != "2024-05-01" {
		t.Errorf("date = %q", p.Date)
	}
	if p.CustomPurpose != nil {
		t.Errorf("customPurpose = %v, want nil", *p.CustomPurpose)
	}
	if p.FamilyMembers == nil || len(p.FamilyMembers) != 0 {
		t.Errorf("familyMembers = %v, want empty slice", p.FamilyMembers)
	}
}

func TestFamilyGoesToStepThree(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.SetVisitType(visit.Family)
	w.Next(s)
	fillDetails(w)

	submitted, err := w.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if submitted {
		t.Error("family visit should not submit from step two")
	}
	if w.Step() != StepFamilyOrReview {
		t.Errorf("step = %d, want %d", w.Step(), StepFamilyOrReview)
	}
}

func TestFamilySubmit(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.SetVisitType(visit.Family)
	w.Next(s)
	fillDetails(w)
	w.Next(s)

	w.SetMemberField(0, "name", "Ram")
	w.SetMemberField(0, "relationship", "Parent")
	w.SetMemberField(0, "age", "52")
	w.SetMemberField(0, "mantra", "Satnam")

	submitted, err := w.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !submitted {
		t.Fatalf("valid family step should submit, errors: %v", w.Errors())
	}

	p := s.payloads[0]
	if len(p.FamilyMembers) != 1 {
		t.Fatalf("got %d members, want 1", len(p.FamilyMembers))
	}
	m := p.FamilyMembers[0]
	if m.Name != "Ram" || m.Relationship != "Parent" {
		t.Errorf("member = %+v", m)
	}
	if m.Age == nil || *m.Age != 52 {
		t.Errorf("age = %v, want 52", m.Age)
	}
}

func TestFamilySubmitBlocksOnMemberErrors(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.SetVisitType(visit.Family)
	w.Next(s)
	fillDetails(w)
	w.Next(s)

	w.AddMember()
	w.SetMemberField(0, "name", "Ram")
	w.SetMemberField(0, "relationship", "Parent")
	// member 1 left blank

	submitted, err := w.Next(s)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if submitted {
		t.Error("blank member should block submission")
	}
	if w.Errors()[visit.MemberFieldKey(1, "name")] == "" {
		t.Errorf("errors = %v, want member_1_name", w.Errors())
	}
	if len(s.payloads) != 0 {
		t.Error("submitter called despite member errors")
	}
}

func TestStaleMembersDroppedForIndividual(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.SetVisitType(visit.Family)
	w.Next(s)
	fillDetails(w)
	w.Next(s)
	w.SetMemberField(0, "name", "Ram")
	w.SetMemberField(0, "relationship", "Parent")

	// Switch back to individual; the member row stays in the form but
	// must not reach the payload.
	w.GoTo(StepVisitType)
	w.SetVisitType(visit.Individual)

	submitted, err := w.Next(s)
	if err != nil || submitted {
		t.Fatalf("step one: submitted=%v err=%v", submitted, err)
	}
	submitted, err = w.Next(s)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !submitted {
		t.Fatalf("expected submission, errors: %v", w.Errors())
	}
	if len(s.payloads[0].FamilyMembers) != 0 {
		t.Errorf("payload members = %v, want none", s.payloads[0].FamilyMembers)
	}
	if len(w.Members()) != 1 {
		t.Errorf("form rows = %d, the stale row should survive in the form", len(w.Members()))
	}
}

func TestCustomPurposeOnlyForOther(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.Next(s)
	fillDetails(w)
	w.SetDetail(visit.FieldPurpose, "Other")
	w.SetDetail(visit.FieldCustomPurpose, "  Naam Diksha  ")

	submitted, err := w.Next(s)
	if err != nil || !submitted {
		t.Fatalf("submitted=%v err=%v errors=%v", submitted, err, w.Errors())
	}

	p := s.payloads[0]
	if p.CustomPurpose == nil || *p.CustomPurpose != "Naam Diksha" {
		t.Errorf("customPurpose = %v, want trimmed Naam Diksha", p.CustomPurpose)
	}
}

func TestRemoveMemberGuard(t *testing.T) {
	w := New()

	if w.RemoveMember(0) {
		t.Error("removing the last member should fail")
	}

	w.AddMember()
	if !w.RemoveMember(1) {
		t.Error("removing with two rows should succeed")
	}
	if len(w.Members()) != 1 {
		t.Errorf("got %d rows, want 1", len(w.Members()))
	}

	if w.RemoveMember(-1) || w.RemoveMember(5) {
		t.Error("out-of-range removal should fail")
	}
}

func TestRemoveMemberRekeysErrors(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.SetVisitType(visit.Family)
	w.Next(s)
	fillDetails(w)
	w.Next(s)

	w.AddMember()
	w.AddMember()
	w.SetMemberField(1, "name", "Ram") // row 1 still lacks relationship
	// rows 0 and 2 fully blank

	w.Next(s) // populate errors
	if w.Errors()[visit.MemberFieldKey(2, "name")] == "" {
		t.Fatalf("setup errors = %v", w.Errors())
	}

	if !w.RemoveMember(0) {
		t.Fatal("remove failed")
	}

	errs := w.Errors()
	if errs[visit.MemberFieldKey(0, "relationship")] == "" {
		t.Errorf("row 1's error should shift to index 0: %v", errs)
	}
	if _, ok := errs[visit.MemberFieldKey(0, "name")]; ok {
		t.Errorf("removed row's name error should be dropped: %v", errs)
	}
	if errs[visit.MemberFieldKey(1, "name")] == "" {
		t.Errorf("row 2's errors should shift to index 1: %v", errs)
	}
	if _, ok := errs[visit.MemberFieldKey(2, "name")]; ok {
		t.Errorf("no errors should remain on index 2: %v", errs)
	}
}

func TestFailedSubmitKeepsState(t *testing.T) {
	w := New()
	s := &captureSubmitter{err: errors.New("server unavailable")}
	w.Next(s)
	fillDetails(w)

	submitted, err := w.Next(s)
	if submitted {
		t.Error("failed submission reported as submitted")
	}
	if err == nil || err.Error() != "server unavailable" {
		t.Errorf("err = %v, want server message", err)
	}
	if w.Done() {
		t.Error("wizard done after failed submit")
	}
	if w.Details().Place == "" {
		t.Error("form state lost after failed submit")
	}

	// Retry after the server recovers.
	s.err = nil
	submitted, err = w.Next(s)
	if err != nil || !submitted {
		t.Fatalf("retry: submitted=%v err=%v", submitted, err)
	}
}

func TestSubmitAfterDone(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.Next(s)
	fillDetails(w)

	if submitted, err := w.Next(s); err != nil || !submitted {
		t.Fatalf("first submit: submitted=%v err=%v", submitted, err)
	}

	if _, err := w.Submit(s); !errors.Is(err, ErrDone) {
		t.Errorf("err = %v, want ErrDone", err)
	}
	if len(s.payloads) != 1 {
		t.Errorf("submitter called %d times, want 1", len(s.payloads))
	}
}

// reentrantSubmitter triggers a second submission from within the first.
type reentrantSubmitter struct {
	w   *Wizard
	err error
}

func (s *reentrantSubmitter) Submit(p visit.Payload) error {
	_, s.err = s.w.Submit(noopSubmitter{})
	return nil
}

type noopSubmitter struct{}

func (noopSubmitter) Submit(p visit.Payload) error { return nil }

func TestSubmitWhilePending(t *testing.T) {
	w := New()
	s := &reentrantSubmitter{w: w}
	w.Next(s)
	fillDetails(w)

	if submitted, err := w.Next(s); err != nil || !submitted {
		t.Fatalf("submit: submitted=%v err=%v", submitted, err)
	}
	if !errors.Is(s.err, ErrSubmitPending) {
		t.Errorf("inner submit err = %v, want ErrSubmitPending", s.err)
	}
}

func TestBackAndGoTo(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.Next(s)

	w.Back()
	if w.Step() != StepVisitType {
		t.Errorf("step = %d, want step one", w.Step())
	}
	w.Back()
	if w.Step() != StepVisitType {
		t.Errorf("back below step one moved to %d", w.Step())
	}

	// Jumps are unguarded even with invalid details.
	w.SetDetail(visit.FieldPlace, "")
	w.GoTo(StepFamilyOrReview)
	if w.Step() != StepFamilyOrReview {
		t.Errorf("step = %d, want step three", w.Step())
	}
	w.GoTo(Step(99))
	if w.Step() != StepFamilyOrReview {
		t.Errorf("invalid jump moved to %d", w.Step())
	}
}

func TestJumpSubmitRevalidatesDetails(t *testing.T) {
	w := New()
	s := &captureSubmitter{}
	w.SetVisitType(visit.Family)
	w.GoTo(StepFamilyOrReview)
	w.SetMemberField(0, "name", "Ram")
	w.SetMemberField(0, "relationship", "Parent")

	submitted, err := w.Submit(s)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted {
		t.Error("dirty details step should block a jumped submit")
	}
	if w.Errors()[visit.FieldPlace] == "" {
		t.Errorf("errors = %v, want place error", w.Errors())
	}
}

func TestLoadPrefillsFromVisit(t *testing.T) {
	age := 52
	custom := "Naam Diksha"
	v := &visit.Visit{
		ID:            "v1",
		VisitType:     visit.Family,
		Place:         "Satlok Ashram",
		Date:          "2024-05-01",
		Mantra:        visit.Satnam,
		Purpose:       visit.PurposeOther,
		CustomPurpose: &custom,
		FamilyMembers: []visit.FamilyMember{
			{Name: "Ram", Relationship: visit.Parent, Age: &age, Mantra: visit.Satnam},
		},
	}

	w := Load(v)
	if w.VisitType() != visit.Family {
		t.Errorf("visit type = %q", w.VisitType())
	}
	d := w.Details()
	if d.Place != "Satlok Ashram" || d.Date != "2024-05-01" || d.CustomPurpose != "Naam Diksha" {
		t.Errorf("details = %+v", d)
	}
	members := w.Members()
	if len(members) != 1 {
		t.Fatalf("got %d members, want 1", len(members))
	}
	if members[0].Name != "Ram" || members[0].Age != "52" {
		t.Errorf("member = %+v", members[0])
	}
}
