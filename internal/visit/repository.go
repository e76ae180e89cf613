package visit

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a visit does not exist or belongs to
// another user.
var ErrNotFound = errors.New("visit not found")

// Repository provides CRUD operations for visits, scoped per user.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a visit repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new visit for the user and returns it with its
// assigned ID. The payload must pass Check.
func (r *Repository) Create(userID string, p Payload) (*Visit, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollback(tx)

	var custom sql.NullString
	if p.CustomPurpose != nil {
		custom = sql.NullString{String: strings.TrimSpace(*p.CustomPurpose), Valid: true}
	}

	if _, err := tx.Exec(
		"INSERT INTO visits (id, user_id, visit_type, place, date, mantra, purpose, custom_purpose) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, userID, p.VisitType, strings.TrimSpace(p.Place), p.Date, p.Mantra, p.Purpose, custom,
	); err != nil {
		return nil, fmt.Errorf("inserting visit: %w", err)
	}

	if err := insertMembers(tx, id, p.FamilyMembers); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing visit: %w", err)
	}

	return r.GetByID(userID, id)
}

// ListByUser returns all of a user's visits, newest visit date first.
// Filtering and sorting beyond that happen client-side.
func (r *Repository) ListByUser(userID string) (visits []*Visit, err error) {
	rows, err := r.db.Query(
		"SELECT id, user_id, visit_type, place, date, mantra, purpose, custom_purpose, created_at, updated_at FROM visits WHERE user_id = ? ORDER BY date DESC, created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visits: %w", err)
	}

	for _, v := range visits {
		if err := r.loadMembers(v); err != nil {
			return nil, err
		}
	}

	return visits, nil
}

// GetByID returns one visit owned by the user, or ErrNotFound.
func (r *Repository) GetByID(userID, id string) (*Visit, error) {
	row := r.db.QueryRow(
		"SELECT id, user_id, visit_type, place, date, mantra, purpose, custom_purpose, created_at, updated_at FROM visits WHERE id = ? AND user_id = ?",
		id, userID,
	)

	v, err := scanVisit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadMembers(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update replaces every field of a visit with the payload. Family
// members are rewritten wholesale to preserve the submitted order.
func (r *Repository) Update(userID, id string, p Payload) (*Visit, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollback(tx)

	var custom sql.NullString
	if p.CustomPurpose != nil {
		custom = sql.NullString{String: strings.TrimSpace(*p.CustomPurpose), Valid: true}
	}

	result, err := tx.Exec(
		"UPDATE visits SET visit_type = ?, place = ?, date = ?, mantra = ?, purpose = ?, custom_purpose = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?",
		p.VisitType, strings.TrimSpace(p.Place), p.Date, p.Mantra, p.Purpose, custom, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating visit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	if _, err := tx.Exec("DELETE FROM family_members WHERE visit_id = ?", id); err != nil {
		return nil, fmt.Errorf("clearing family members: %w", err)
	}
	if err := insertMembers(tx, id, p.FamilyMembers); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	return r.GetByID(userID, id)
}

// Delete removes a visit and its family members.
func (r *Repository) Delete(userID, id string) error {
	result, err := r.db.Exec("DELETE FROM visits WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting visit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVisit(s scanner) (*Visit, error) {
	var v Visit
	var custom sql.NullString

	err := s.Scan(&v.ID, &v.UserID, &v.VisitType, &v.Place, &v.Date, &v.Mantra, &v.Purpose, &custom, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning visit: %w", err)
	}

	if custom.Valid {
		v.CustomPurpose = &custom.String
	}
	v.FamilyMembers = []FamilyMember{}

	return &v, nil
}

// loadMembers fills in the visit's family members in insertion order.
func (r *Repository) loadMembers(v *Visit) (err error) {
	rows, err := r.db.Query(
		"SELECT name, relationship, age, mantra FROM family_members WHERE visit_id = ? ORDER BY position",
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("loading family members: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var m FamilyMember
		var age sql.NullInt64
		if err := rows.Scan(&m.Name, &m.Relationship, &age, &m.Mantra); err != nil {
			return fmt.Errorf("scanning family member: %w", err)
		}
		if age.Valid {
			a := int(age.Int64)
			m.Age = &a
		}
		v.FamilyMembers = append(v.FamilyMembers, m)
	}

	return rows.Err()
}

func insertMembers(tx *sql.Tx, visitID string, members []MemberPayload) error {
	for i, m := range members {
		var age sql.NullInt64
		if m.Age != nil {
			age = sql.NullInt64{Int64: int64(*m.Age), Valid: true}
		}
		if _, err := tx.Exec(
			"INSERT INTO family_members (visit_id, position, name, relationship, age, mantra) VALUES (?, ?, ?, ?, ?, ?)",
			visitID, i, strings.TrimSpace(m.Name), m.Relationship, age, m.Mantra,
		); err != nil {
			return fmt.Errorf("inserting family member %d: %w", i+1, err)
		}
	}
	return nil
}

// rollback is deferred under transactions; after a successful commit it
// is a no-op returning ErrTxDone.
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		fmt.Fprintf(os.Stderr, "warning: rolling back: %v\n", err)
	}
}
