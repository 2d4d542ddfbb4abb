package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/globetrotter/backend/internal/middleware"
)

var (
	shareErrs  = errMessages{notFound: "trip not found", conflict: "share link already in use, try again"}
	sharedErrs = errMessages{notFound: "shared trip not found", conflict: tripConflict}
)

// ShareTrip handles POST /trips/{id}/share. Each call mints a new token.
func (s *Server) ShareTrip(w http.ResponseWriter, r *http.Request) {
	res, err := s.shares.Share(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, shareErrs)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetSharedTrip handles GET /trips/shared/{shareToken}. No authentication.
func (s *Server) GetSharedTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.shares.GetShared(r.Context(), chi.URLParam(r, "shareToken"))
	if err != nil {
		s.handleError(w, r, err, sharedErrs)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// CopyTrip handles POST /trips/{id}/copy.
func (s *Server) CopyTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.shares.Copy(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}
