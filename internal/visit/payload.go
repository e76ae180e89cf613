package visit

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid marks a payload that fails a domain invariant. Handlers map
// it to a 400 response.
var ErrInvalid = errors.New("invalid visit")

// MemberPayload is the wire form of one family member on create/update.
type MemberPayload struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Age          *int   `json:"age"`
	Mantra       string `json:"mantra"`
}

// Payload is the full create/update request body for a visit. Updates
// are full replacements: every field is taken from the payload.
type Payload struct {
	VisitType     VisitType       `json:"visitType"`
	Place         string          `json:"place"`
	Date          string          `json:"date"`
	Mantra        string          `json:"mantra"`
	Purpose       string          `json:"purpose"`
	CustomPurpose *string         `json:"customPurpose"`
	FamilyMembers []MemberPayload `json:"familyMembers"`
}

// Check verifies the payload against the domain invariants: a family
// visit carries at least one named member with a relationship, an
// individual visit carries none, and customPurpose is present exactly
// when purpose is "Other".
func (p Payload) Check() error {
	if !p.VisitType.IsValid() {
		return fmt.Errorf("%w: unknown visit type %q", ErrInvalid, p.VisitType)
	}
	if strings.TrimSpace(p.Place) == "" {
		return fmt.Errorf("%w: place is required", ErrInvalid)
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	}
	if !Mantra(p.Mantra).IsValid() {
		return fmt.Errorf("%w: unknown mantra %q", ErrInvalid, p.Mantra)
	}
	if !Purpose(p.Purpose).IsValid() {
		return fmt.Errorf("%w: unknown purpose %q", ErrInvalid, p.Purpose)
	}

	if Purpose(p.Purpose) == PurposeOther {
		if p.CustomPurpose == nil || strings.TrimSpace(*p.CustomPurpose) == "" {
			return fmt.Errorf("%w: custom purpose is required for purpose Other", ErrInvalid)
		}
	} else if p.CustomPurpose != nil {
		return fmt.Errorf("%w: custom purpose is only allowed for purpose Other", ErrInvalid)
	}

	switch p.VisitType {
	case Family:
		if len(p.FamilyMembers) == 0 {
			return fmt.Errorf("%w: a family visit needs at least one member", ErrInvalid)
		}
		for i, m := range p.FamilyMembers {
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("%w: member %d name is required", ErrInvalid, i+1)
			}
			if !Relationship(m.Relationship).IsValid() {
				return fmt.Errorf("%w: member %d has unknown relationship %q", ErrInvalid, i+1, m.Relationship)
			}
			if m.Age != nil && *m.Age <= 0 {
				return fmt.Errorf("%w: member %d age must be positive", ErrInvalid, i+1)
			}
			if m.Mantra != "" && !Mantra(m.Mantra).IsValid() {
				return fmt.Errorf("%w: member %d has unknown mantra %q", ErrInvalid, i+1, m.Mantra)
			}
		}
	case Individual:
		if len(p.FamilyMembers) > 0 {
			return fmt.Errorf("%w: an individual visit cannot have family members", ErrInvalid)
		}
	}

	return nil
}
