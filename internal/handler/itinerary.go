package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/middleware"
)

var (
	cityErrs = errMessages{notFound: "trip or city not found", conflict: tripConflict}
	dayErrs  = errMessages{notFound: "trip, city or day not found", conflict: tripConflict}
)

type addCityRequest struct {
	Name    string  `json:"name" validate:"required"`
	Country string  `json:"country" validate:"required"`
	Image   *string `json:"image"`
}

type addDayRequest struct {
	Date  *openapi_types.Date `json:"date" validate:"required"`
	Notes *string             `json:"notes"`
}

type addActivityRequest struct {
	Name            string   `json:"name" validate:"required"`
	Type            *string  `json:"type"`
	Time            *string  `json:"time" validate:"omitempty,datetime=15:04"`
	DurationMinutes *int     `json:"durationMinutes" validate:"omitempty,gte=0,lte=1440"`
	Cost            *float64 `json:"cost" validate:"omitempty,gte=0,lte=1000000000000"`
	Notes           *string  `json:"notes"`
}

// AddCity handles POST /trips/{id}/cities.
func (s *Server) AddCity(w http.ResponseWriter, r *http.Request) {
	var body addCityRequest
	if !decodeBody(w, r, &body) {
		return
	}
	city, err := s.trips.AddCity(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), domain.CityInput{
		Name:    body.Name,
		Country: body.Country,
		Image:   body.Image,
	})
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusCreated, city)
}

// RemoveCity handles DELETE /trips/{id}/cities/{cityId}.
func (s *Server) RemoveCity(w http.ResponseWriter, r *http.Request) {
	err := s.trips.RemoveCity(r.Context(), middleware.UserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "cityId"))
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "City removed"})
}

// AddDay handles POST /trips/{id}/cities/{cityId}/days.
func (s *Server) AddDay(w http.ResponseWriter, r *http.Request) {
	var body addDayRequest
	if !decodeBody(w, r, &body) {
		return
	}
	day, err := s.trips.AddDay(r.Context(), middleware.UserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "cityId"),
		domain.DayInput{Date: formatDate(body.Date), Notes: body.Notes})
	if err != nil {
		s.handleError(w, r, err, cityErrs)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

// AddActivity handles POST /trips/{id}/cities/{cityId}/days/{dayId}/activities.
// The day's feasibility is recomputed by the service.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	var body addActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}
	activity, err := s.trips.AddActivity(r.Context(), middleware.UserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "cityId"), chi.URLParam(r, "dayId"),
		domain.ActivityInput{
			Name:            body.Name,
			Type:            body.Type,
			Time:            body.Time,
			DurationMinutes: body.DurationMinutes,
			Cost:            body.Cost,
			Notes:           body.Notes,
		})
	if err != nil {
		s.handleError(w, r, err, dayErrs)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

// RemoveActivity handles DELETE /trips/{id}/cities/{cityId}/days/{dayId}/activities/{activityId}.
func (s *Server) RemoveActivity(w http.ResponseWriter, r *http.Request) {
	err := s.trips.RemoveActivity(r.Context(), middleware.UserID(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "cityId"), chi.URLParam(r, "dayId"), chi.URLParam(r, "activityId"))
	if err != nil {
		s.handleError(w, r, err, dayErrs)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Activity removed"})
}
