package visit

import (
	"errors"
	"testing"
)

func validPayload() Payload {
	return Payload{
		VisitType: Individual,
		Place:     "Satlok Ashram",
		Date:      "2024-05-01",
		Mantra:    "Satnam",
		Purpose:   "Seva",
	}
}

func validFamilyPayload() Payload {
	p := validPayload()
	p.VisitType = Family
	p.FamilyMembers = []MemberPayload{
		{Name: "Ram", Relationship: "Parent"},
	}
	return p
}

func TestPayloadCheckValid(t *testing.T) {
	if err := validPayload().Check(); err != nil {
		t.Errorf("individual: %v", err)
	}
	if err := validFamilyPayload().Check(); err != nil {
		t.Errorf("family: %v", err)
	}
}

func TestPayloadCheckInvalid(t *testing.T) {
	custom := "Naam Diksha"
	blank := "   "
	age := 0

	tests := []struct {
		name   string
		modify func(*Payload)
	}{
		{"unknown visit type", func(p *Payload) { p.VisitType = "group" }},
		{"blank place", func(p *Payload) { p.Place = "   " }},
		{"bad date", func(p *Payload) { p.Date = "05/01/2024" }},
		{"unknown mantra", func(p *Payload) { p.Mantra = "Om" }},
		{"unknown purpose", func(p *Payload) { p.Purpose = "Tourism" }},
		{"other without custom", func(p *Payload) { p.Purpose = "Other" }},
		{"other with blank custom", func(p *Payload) { p.Purpose = "Other"; p.CustomPurpose = &blank }},
		{"custom without other", func(p *Payload) { p.CustomPurpose = &custom }},
		{"individual with members", func(p *Payload) {
			p.FamilyMembers = []MemberPayload{{Name: "Ram", Relationship: "Parent"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.modify(&p)

			err := p.Check()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}

	familyTests := []struct {
		name   string
		modify func(*Payload)
	}{
		{"family without members", func(p *Payload) { p.FamilyMembers = nil }},
		{"member without name", func(p *Payload) { p.FamilyMembers[0].Name = "" }},
		{"member unknown relationship", func(p *Payload) { p.FamilyMembers[0].Relationship = "Neighbor" }},
		{"member zero age", func(p *Payload) { p.FamilyMembers[0].Age = &age }},
		{"member unknown mantra", func(p *Payload) { p.FamilyMembers[0].Mantra = "Om" }},
	}

	for _, tt := range familyTests {
		t.Run(tt.name, func(t *testing.T) {
			p := validFamilyPayload()
			tt.modify(&p)

			err := p.Check()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestPayloadCheckOtherWithCustom(t *testing.T) {
	custom := "Naam Diksha"
	p := validPayload()
	p.Purpose = "Other"
	p.CustomPurpose = &custom

	if err := p.Check(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
