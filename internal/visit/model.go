// Package visit provides the spiritual visit domain model, validation,
// and the client-side filter/sort pipeline.
package visit

import "time"

// VisitType represents how a visit was made.
type VisitType string

const (
	Individual VisitType = "individual"
	Family     VisitType = "family"
)

// ValidTypes is the set of allowed visit types.
var ValidTypes = []VisitType{Individual, Family}

// IsValid checks if a visit type is recognized.
func (t VisitType) IsValid() bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the visit type.
func (t VisitType) Label() string {
	switch t {
	case Individual:
		return "Individual"
	case Family:
		return "Family"
	default:
		return string(t)
	}
}

// Mantra is one of the fixed spiritual mantras.
type Mantra string

const (
	PrathamNam Mantra = "Pratham Nam"
	Satnam     Mantra = "Satnam"
	Saarnam    Mantra = "Saarnam"
)

// ValidMantras is the set of allowed mantras.
var ValidMantras = []Mantra{PrathamNam, Satnam, Saarnam}

// IsValid checks if a mantra is recognized.
func (m Mantra) IsValid() bool {
	for _, v := range ValidMantras {
		if m == v {
			return true
		}
	}
	return false
}

// Purpose is one of the fixed visit purposes. PurposeOther requires an
// accompanying custom purpose text on the visit.
type Purpose string

const (
	Seva         Purpose = "Seva"
	Bhandara     Purpose = "Bhandara"
	Satsang      Purpose = "Satsang"
	Darshan      Purpose = "Darshan"
	PurposeOther Purpose = "Other"
)

// ValidPurposes is the set of allowed purposes.
var ValidPurposes = []Purpose{Seva, Bhandara, Satsang, Darshan, PurposeOther}

// IsValid checks if a purpose is recognized.
func (p Purpose) IsValid() bool {
	for _, v := range ValidPurposes {
		if p == v {
			return true
		}
	}
	return false
}

// Relationship describes how a family member relates to the devotee.
type Relationship string

const (
	Spouse      Relationship = "Spouse"
	Child       Relationship = "Child"
	Parent      Relationship = "Parent"
	Sibling     Relationship = "Sibling"
	Grandparent Relationship = "Grandparent"
	Grandchild  Relationship = "Grandchild"
	Relative    Relationship = "Relative"
	Friend      Relationship = "Friend"
)

// ValidRelationships is the set of allowed relationships.
var ValidRelationships = []Relationship{
	Spouse, Child, Parent, Sibling, Grandparent, Grandchild, Relative, Friend,
}

// IsValid checks if a relationship is recognized.
func (r Relationship) IsValid() bool {
	for _, v := range ValidRelationships {
		if r == v {
			return true
		}
	}
	return false
}

// FamilyMember is one person accompanying a family visit.
// Age and Mantra are optional; Name and Relationship are required.
type FamilyMember struct {
	Name         string       `json:"name"`
	Relationship Relationship `json:"relationship"`
	Age          *int         `json:"age"`
	Mantra       Mantra       `json:"mantra,omitempty"`
}

// Visit is one recorded spiritual visit. The server owns the record of
// truth; IDs are opaque strings assigned on creation.
type Visit struct {
	ID            string         `json:"id"`
	UserID        string         `json:"-"`
	VisitType     VisitType      `json:"visitType"`
	Place         string         `json:"place"`
	Date          string         `json:"date"` // YYYY-MM-DD
	Mantra        Mantra         `json:"mantra"`
	Purpose       Purpose        `json:"purpose"`
	CustomPurpose *string        `json:"customPurpose"`
	FamilyMembers []FamilyMember `json:"familyMembers"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// PurposeText returns the effective purpose: the custom text for "Other"
// visits, the fixed purpose otherwise.
func (v *Visit) PurposeText() string {
	if v.Purpose == PurposeOther && v.CustomPurpose != nil {
		return *v.CustomPurpose
	}
	return string(v.Purpose)
}
