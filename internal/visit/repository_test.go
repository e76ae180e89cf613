package visit

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yatrik/yatra/internal/db"
)

func testSetup(t *testing.T) (*Repository, string) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("closing database: %v", err)
		}
	})

	const userID = "user-1"
	_, err = database.Exec(
		"INSERT INTO users (id, email, name, password_hash, verified, created_at) VALUES (?, ?, ?, ?, 1, ?)",
		userID, "devotee@example.com", "Devotee", "hash", time.Now(),
	)
	if err != nil {
		t.Fatalf("inserting user: %v", err)
	}

	return NewRepository(database), userID
}

func TestCreateAndGet(t *testing.T) {
	repo, userID := testSetup(t)

	v, err := repo.Create(userID, validFamilyPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.ID == "" {
		t.Error("expected non-empty ID")
	}
	if v.Place != "Satlok Ashram" {
		t.Errorf("place = %q, want %q", v.Place, "Satlok Ashram")
	}
	if v.VisitType != Family {
		t.Errorf("visit_type = %q, want %q", v.VisitType, Family)
	}
	if len(v.FamilyMembers) != 1 {
		t.Fatalf("got %d members, want 1", len(v.FamilyMembers))
	}
	if v.FamilyMembers[0].Name != "Ram" {
		t.Errorf("member name = %q, want Ram", v.FamilyMembers[0].Name)
	}

	got, err := repo.GetByID(userID, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != v.ID {
		t.Errorf("id = %q, want %q", got.ID, v.ID)
	}
	if got.FamilyMembers[0].Relationship != "Parent" {
		t.Errorf("relationship = %q, want Parent", got.FamilyMembers[0].Relationship)
	}
}

func TestCreateInvalidPayload(t *testing.T) {
	repo, userID := testSetup(t)

	p := validPayload()
	p.Date = "garbled"

	_, err := repo.Create(userID, p)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestIndividualVisitHasEmptyMembers(t *testing.T) {
	repo, userID := testSetup(t)

	v, err := repo.Create(userID, validPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.FamilyMembers == nil {
		t.Error("family_members should be an empty slice, not nil")
	}
	if len(v.FamilyMembers) != 0 {
		t.Errorf("got %d members, want 0", len(v.FamilyMembers))
	}
}

func TestListByUserOrder(t *testing.T) {
	repo, userID := testSetup(t)

	dates := []string{"2024-01-05", "2024-03-01", "2023-12-20"}
	for _, d := range dates {
		p := validPayload()
		p.Date = d
		if _, err := repo.Create(userID, p); err != nil {
			t.Fatalf("create %s: %v", d, err)
		}
	}

	visits, err := repo.ListByUser(userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visits) != 3 {
		t.Fatalf("got %d visits, want 3", len(visits))
	}
	if visits[0].Date != "2024-03-01" {
		t.Errorf("first = %q, want newest", visits[0].Date)
	}
	if visits[2].Date != "2023-12-20" {
		t.Errorf("last = %q, want oldest", visits[2].Date)
	}
}

func TestListScopedToUser(t *testing.T) {
	repo, userID := testSetup(t)

	if _, err := repo.Create(userID, validPayload()); err != nil {
		t.Fatalf("create: %v", err)
	}

	visits, err := repo.ListByUser("someone-else")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visits) != 0 {
		t.Errorf("got %d visits for another user, want 0", len(visits))
	}
}

func TestGetNotFound(t *testing.T) {
	repo, userID := testSetup(t)

	if _, err := repo.GetByID(userID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	v, err := repo.Create(userID, validPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.GetByID("someone-else", v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for other user", err)
	}
}

func TestUpdateReplacesMembers(t *testing.T) {
	repo, userID := testSetup(t)

	v, err := repo.Create(userID, validFamilyPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p := validFamilyPayload()
	p.Place = "Ganga Bhavan"
	p.FamilyMembers = []MemberPayload{
		{Name: "Sita", Relationship: "Spouse", Mantra: "Satnam"},
		{Name: "Lav", Relationship: "Child"},
	}

	updated, err := repo.Update(userID, v.ID, p)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Place != "Ganga Bhavan" {
		t.Errorf("place = %q, want Ganga Bhavan", updated.Place)
	}
	if len(updated.FamilyMembers) != 2 {
		t.Fatalf("got %d members, want 2", len(updated.FamilyMembers))
	}
	if updated.FamilyMembers[0].Name != "Sita" || updated.FamilyMembers[1].Name != "Lav" {
		t.Errorf("members out of order: %+v", updated.FamilyMembers)
	}
}

func TestUpdateToIndividualDropsMembers(t *testing.T) {
	repo, userID := testSetup(t)

	v, err := repo.Create(userID, validFamilyPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.Update(userID, v.ID, validPayload())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.VisitType != Individual {
		t.Errorf("visit_type = %q, want individual", updated.VisitType)
	}
	if len(updated.FamilyMembers) != 0 {
		t.Errorf("got %d members, want 0", len(updated.FamilyMembers))
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo, userID := testSetup(t)

	if _, err := repo.Update(userID, "missing", validPayload()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo, userID := testSetup(t)

	v, err := repo.Create(userID, validFamilyPayload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(userID, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(userID, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}

	if err := repo.Delete(userID, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
