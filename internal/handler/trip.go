package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/middleware"
)

const tripConflict = "trip conflicts with an existing record"

var tripErrs = errMessages{notFound: "trip not found", conflict: tripConflict}

type createTripRequest struct {
	Name          string              `json:"name" validate:"required"`
	Description   *string             `json:"description"`
	StartDate     *openapi_types.Date `json:"startDate" validate:"required"`
	EndDate       *openapi_types.Date `json:"endDate" validate:"required"`
	TravelerCount *int                `json:"travelerCount" validate:"omitempty,min=1"`
	TotalBudget   *float64            `json:"totalBudget" validate:"omitempty,gte=0,lte=1000000000000"`
	Currency      *string             `json:"currency" validate:"omitempty,len=3,alpha"`
	TripType      *string             `json:"tripType"`
	CoverImage    *string             `json:"coverImage"`
}

type updateTripRequest struct {
	Name          *string             `json:"name" validate:"omitempty,min=1"`
	Description   *string             `json:"description"`
	StartDate     *openapi_types.Date `json:"startDate"`
	EndDate       *openapi_types.Date `json:"endDate"`
	TravelerCount *int                `json:"travelerCount" validate:"omitempty,min=1"`
	TotalBudget   *float64            `json:"totalBudget" validate:"omitempty,gte=0,lte=1000000000000"`
	Currency      *string             `json:"currency" validate:"omitempty,len=3,alpha"`
	TripType      *string             `json:"tripType"`
	CoverImage    *string             `json:"coverImage"`
	Status        *string             `json:"status" validate:"omitempty,oneof=draft planned completed"`
	IsPublic      *bool               `json:"isPublic"`
}

// ListTrips handles GET /trips. Without page or limit every trip is returned;
// with either, the list is paginated.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	page, okPage := queryInt(r, "page")
	limit, okLimit := queryInt(r, "limit")
	if !okPage || !okLimit {
		writeError(w, http.StatusBadRequest, "bad_request", "page and limit must be integers")
		return
	}

	var (
		trips []domain.Trip
		err   error
	)
	if page == nil && limit == nil {
		trips, err = s.trips.List(r.Context(), userID)
	} else {
		trips, err = s.trips.ListPage(r.Context(), userID, domain.NewPaginationParams(page, limit))
	}
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body createTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip, err := s.trips.Create(r.Context(), middleware.UserID(r.Context()), domain.TripInput{
		Name:          body.Name,
		Description:   body.Description,
		StartDate:     formatDate(body.StartDate),
		EndDate:       formatDate(body.EndDate),
		TravelerCount: body.TravelerCount,
		TotalBudget:   body.TotalBudget,
		Currency:      body.Currency,
		TripType:      body.TripType,
		CoverImage:    body.CoverImage,
	})
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /trips/{id}. Only the fields present in the body change.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var body updateTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	u := domain.TripUpdate{
		Name:          body.Name,
		Description:   body.Description,
		TravelerCount: body.TravelerCount,
		TotalBudget:   body.TotalBudget,
		Currency:      body.Currency,
		TripType:      body.TripType,
		CoverImage:    body.CoverImage,
		IsPublic:      body.IsPublic,
	}
	if body.StartDate != nil {
		d := formatDate(body.StartDate)
		u.StartDate = &d
	}
	if body.EndDate != nil {
		d := formatDate(body.EndDate)
		u.EndDate = &d
	}
	if body.Status != nil {
		st := domain.TripStatus(*body.Status)
		u.Status = &st
	}

	trip, err := s.trips.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), u)
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Trip deleted successfully"})
}

// GetTripBudget handles GET /trips/{id}/budget.
func (s *Server) GetTripBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.trips.Budget(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

// queryInt reads an optional integer query parameter. ok is false only when
// the parameter is present but not an integer.
func queryInt(r *http.Request, key string) (v *int, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &n, true
}

func formatDate(d *openapi_types.Date) string {
	if d == nil {
		return ""
	}
	return d.Format(domain.DateLayout)
}
