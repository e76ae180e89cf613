// Package wizard drives the three-step visit entry workflow: visit type,
// details, then family members or review. Forward movement is gated on
// validation; backward movement and step jumps are unguarded.
package wizard

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yatrik/yatra/internal/visit"
)

// Step identifies a wizard step.
type Step int

const (
	StepVisitType Step = iota + 1
	StepDetails
	StepFamilyOrReview
)

// ErrSubmitPending is returned when Submit is called while a previous
// submission is still in flight. There is no idempotency key; refusing
// the second call is the duplicate-submission guard.
var ErrSubmitPending = errors.New("submission already in progress")

// ErrDone is returned when the wizard has already submitted successfully.
var ErrDone = errors.New("visit already submitted")

// Submitter delivers the composed payload to the API. The CLI passes a
// closure over the client's create or update call.
type Submitter interface {
	Submit(p visit.Payload) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(p visit.Payload) error

// Submit calls f.
func (f SubmitterFunc) Submit(p visit.Payload) error {
	return f(p)
}

// Wizard holds the accumulated form state. All methods are meant for a
// single goroutine; the UI event loop is the sole mutator.
type Wizard struct {
	step       Step
	visitType  visit.VisitType
	details    visit.Details
	members    []visit.MemberInput
	errors     map[string]string
	submitting bool
	done       bool
}

// New creates a wizard on step one with an individual visit type, one
// blank family member row, and today's date pre-filled.
func New() *Wizard {
	return &Wizard{
		step:      StepVisitType,
		visitType: visit.Individual,
		details:   visit.Details{Date: time.Now().Format("2006-01-02")},
		members:   []visit.MemberInput{{}},
		errors:    map[string]string{},
	}
}

// Load pre-populates the wizard from an existing visit for the edit flow.
func Load(v *visit.Visit) *Wizard {
	w := New()
	w.visitType = v.VisitType
	w.details = visit.Details{
		Place:   v.Place,
		Date:    v.Date,
		Mantra:  string(v.Mantra),
		Purpose: string(v.Purpose),
	}
	if v.CustomPurpose != nil {
		w.details.CustomPurpose = *v.CustomPurpose
	}
	if len(v.FamilyMembers) > 0 {
		w.members = make([]visit.MemberInput, 0, len(v.FamilyMembers))
		for _, m := range v.FamilyMembers {
			in := visit.MemberInput{
				Name:         m.Name,
				Relationship: string(m.Relationship),
				Mantra:       string(m.Mantra),
			}
			if m.Age != nil {
				in.Age = strconv.Itoa(*m.Age)
			}
			w.members = append(w.members, in)
		}
	}
	return w
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Done reports whether the visit was submitted successfully.
func (w *Wizard) Done() bool { return w.done }

// VisitType returns the selected visit type.
func (w *Wizard) VisitType() visit.VisitType { return w.visitType }

// Details returns the current step-two fields.
func (w *Wizard) Details() visit.Details { return w.details }

// Members returns the family member rows in insertion order.
func (w *Wizard) Members() []visit.MemberInput { return w.members }

// Errors returns the current field errors. An empty map means the last
// validated step was clean.
func (w *Wizard) Errors() map[string]string { return w.errors }

// SetVisitType selects individual or family. Unknown types are ignored.
func (w *Wizard) SetVisitType(t visit.VisitType) {
	if t.IsValid() {
		w.visitType = t
	}
}

// SetDetail sets one step-two field by its error key and clears any
// error recorded against it.
func (w *Wizard) SetDetail(field, value string) {
	switch field {
	case visit.FieldPlace:
		w.details.Place = value
	case visit.FieldDate:
		w.details.Date = value
	case visit.FieldMantra:
		w.details.Mantra = value
	case visit.FieldPurpose:
		w.details.Purpose = value
	case visit.FieldCustomPurpose:
		w.details.CustomPurpose = value
	default:
		return
	}
	delete(w.errors, field)
}

// AddMember appends a blank family member row. There is no upper bound.
func (w *Wizard) AddMember() {
	w.members = append(w.members, visit.MemberInput{})
}

// RemoveMember deletes the row at index, provided at least one row
// remains. Errors keyed to the removed index are dropped and errors for
// later rows are re-keyed so they stay aligned with their members.
func (w *Wizard) RemoveMember(index int) bool {
	if len(w.members) <= 1 || index < 0 || index >= len(w.members) {
		return false
	}

	w.members = append(w.members[:index:index], w.members[index+1:]...)

	rekeyed := make(map[string]string, len(w.errors))
	for key, msg := range w.errors {
		i, field, ok := parseMemberKey(key)
		if !ok {
			rekeyed[key] = msg
			continue
		}
		switch {
		case i < index:
			rekeyed[key] = msg
		case i == index:
			// dropped with the member
		default:
			rekeyed[visit.MemberFieldKey(i-1, field)] = msg
		}
	}
	w.errors = rekeyed

	return true
}

// SetMemberField sets one field of the member at index and clears any
// error recorded against it.
func (w *Wizard) SetMemberField(index int, field, value string) {
	if index < 0 || index >= len(w.members) {
		return
	}
	switch field {
	case "name":
		w.members[index].Name = value
	case "relationship":
		w.members[index].Relationship = value
	case "age":
		w.members[index].Age = value
	case "mantra":
		w.members[index].Mantra = value
	default:
		return
	}
	delete(w.errors, visit.MemberFieldKey(index, field))
}

// GoTo jumps directly to a step, bypassing forward validation. Step
// indicator clicks and backward navigation are always unguarded.
func (w *Wizard) GoTo(step Step) {
	if step >= StepVisitType && step <= StepFamilyOrReview {
		w.step = step
	}
}

// Back moves one step backward without validation.
func (w *Wizard) Back() {
	if w.step > StepVisitType {
		w.step--
	}
}

// Next advances the workflow. From step one it always moves on. From
// step two it validates the details: on errors it stays put; otherwise a
// family visit moves to step three and an individual visit submits
// immediately (step three collapses into the final review). From step
// three it submits, validating the member rows first for family visits.
//
// The returned bool reports whether the visit was submitted. A false
// return with a nil error means the wizard stayed on its step; the
// caller reads Errors for the inline messages. A submission failure is
// returned as the error with all state intact so the user can retry.
func (w *Wizard) Next(s Submitter) (bool, error) {
	switch w.step {
	case StepVisitType:
		w.step = StepDetails
		return false, nil

	case StepDetails:
		if w.errors = visit.ValidateDetails(w.details); len(w.errors) > 0 {
			return false, nil
		}
		if w.visitType == visit.Individual {
			return w.submit(s)
		}
		w.step = StepFamilyOrReview
		return false, nil

	case StepFamilyOrReview:
		return w.Submit(s)

	default:
		return false, nil
	}
}

// Submit runs the final validation and delivers the payload. Both steps
// are re-checked: jumps can land here with a dirty details step.
func (w *Wizard) Submit(s Submitter) (bool, error) {
	if w.errors = visit.ValidateDetails(w.details); len(w.errors) > 0 {
		return false, nil
	}
	if w.visitType == visit.Family {
		if w.errors = visit.ValidateMembers(w.members); len(w.errors) > 0 {
			return false, nil
		}
	}
	return w.submit(s)
}

func (w *Wizard) submit(s Submitter) (bool, error) {
	if w.done {
		return false, ErrDone
	}
	if w.submitting {
		return false, ErrSubmitPending
	}

	w.submitting = true
	err := s.Submit(w.Payload())
	w.submitting = false

	if err != nil {
		// Stay on the current step with the form intact for retry.
		return false, err
	}

	w.done = true
	return true, nil
}

// Payload composes the request body from the accumulated fields. An
// individual visit always submits an empty member list, even when stale
// rows are left over from a prior family selection; customPurpose is
// only carried when the purpose is "Other".
func (w *Wizard) Payload() visit.Payload {
	p := visit.Payload{
		VisitType:     w.visitType,
		Place:         strings.TrimSpace(w.details.Place),
		Date:          w.details.Date,
		Mantra:        w.details.Mantra,
		Purpose:       w.details.Purpose,
		FamilyMembers: []visit.MemberPayload{},
	}

	if w.details.Purpose == string(visit.PurposeOther) {
		custom := strings.TrimSpace(w.details.CustomPurpose)
		p.CustomPurpose = &custom
	}

	if w.visitType == visit.Family {
		for _, m := range w.members {
			p.FamilyMembers = append(p.FamilyMembers, visit.MemberPayload{
				Name:         strings.TrimSpace(m.Name),
				Relationship: strings.TrimSpace(m.Relationship),
				Age:          parseAge(m.Age),
				Mantra:       m.Mantra,
			})
		}
	}

	return p
}

// parseAge converts the raw age text to a positive integer or nil.
func parseAge(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// parseMemberKey splits "member_<i>_<field>" into its parts.
func parseMemberKey(key string) (index int, field string, ok bool) {
	rest, found := strings.CutPrefix(key, "member_")
	if !found {
		return 0, "", false
	}
	idxStr, field, found := strings.Cut(rest, "_")
	if !found {
		return 0, "", false
	}
	index, err := strconv.Atoi(idxStr)
	if err != nil {
		return 0, "", false
	}
	return index, field, true
}
