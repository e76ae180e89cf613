package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yatrik/yatra/internal/auth"
	"github.com/yatrik/yatra/internal/visit"
)

// handleVisits routes /api/v1/visits: list or create.
func (s *Server) handleVisits(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		apiError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.listVisits(w, u)
	case http.MethodPost:
		s.createVisit(w, r, u)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVisitByID routes /api/v1/visits/{id}: get, replace or delete.
func (s *Server) handleVisitByID(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		apiError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/visits/")
	if id == "" || strings.Contains(id, "/") {
		apiError(w, "invalid visit ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getVisit(w, u, id)
	case http.MethodPut:
		s.updateVisit(w, r, u, id)
	case http.MethodDelete:
		s.deleteVisit(w, u, id)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// listVisits returns the user's full unfiltered collection, newest
// first. Filtering and sorting are the client's job.
func (s *Server) listVisits(w http.ResponseWriter, u *auth.User) {
	visits, err := s.visits.ListByUser(u.ID)
	if err != nil {
		apiError(w, fmt.Sprintf("listing visits: %v", err), http.StatusInternalServerError)
		return
	}

	if visits == nil {
		visits = make([]*visit.Visit, 0)
	}

	apiJSON(w, map[string]interface{}{"visits": visits}, http.StatusOK)
}

// createVisit stores a new visit from the payload.
func (s *Server) createVisit(w http.ResponseWriter, r *http.Request, u *auth.User) {
	var p visit.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	v, err := s.visits.Create(u.ID, p)
	if errors.Is(err, visit.ErrInvalid) {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("creating visit: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, v, http.StatusCreated)
}

// getVisit returns one visit the user owns.
func (s *Server) getVisit(w http.ResponseWriter, u *auth.User, id string) {
	v, err := s.visits.GetByID(u.ID, id)
	if errors.Is(err, visit.ErrNotFound) {
		apiError(w, "visit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("loading visit: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, v, http.StatusOK)
}

// updateVisit replaces every field of a visit with the payload.
func (s *Server) updateVisit(w http.ResponseWriter, r *http.Request, u *auth.User, id string) {
	var p visit.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	v, err := s.visits.Update(u.ID, id, p)
	if errors.Is(err, visit.ErrNotFound) {
		apiError(w, "visit not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, visit.ErrInvalid) {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("updating visit: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, v, http.StatusOK)
}

// deleteVisit removes a visit the user owns.
func (s *Server) deleteVisit(w http.ResponseWriter, u *auth.User, id string) {
	err := s.visits.Delete(u.ID, id)
	if errors.Is(err, visit.ErrNotFound) {
		apiError(w, "visit not found", http.StatusNotFound)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("deleting visit: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
}
