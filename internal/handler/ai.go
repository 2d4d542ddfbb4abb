package handler

import (
	"net/http"

	"github.com/pkordes/globetrotter/backend/internal/service"
)

type suggestionsRequest struct {
	CityName string `json:"cityName" validate:"required"`
	Country  string `json:"country" validate:"required"`
	TripType string `json:"tripType"`
	Budget   string `json:"budget"`
}

type daySummaryRequest struct {
	CityName   string   `json:"cityName" validate:"required"`
	Activities []string `json:"activities"`
}

type packingListRequest struct {
	Destinations []string `json:"destinations" validate:"required,min=1"`
	Duration     int      `json:"duration" validate:"required,min=1"`
	TripType     string   `json:"tripType"`
}

type travelTipsRequest struct {
	CityName string `json:"cityName" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

// The /ai handlers never fail once the body is valid: the service answers
// with a default payload whenever the provider cannot.

// Suggestions handles POST /ai/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	var body suggestionsRequest
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, s.ai.Suggestions(r.Context(), service.SuggestionRequest{
		CityName: body.CityName,
		Country:  body.Country,
		TripType: body.TripType,
		Budget:   body.Budget,
	}))
}

// DaySummary handles POST /ai/day-summary.
func (s *Server) DaySummary(w http.ResponseWriter, r *http.Request) {
	var body daySummaryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"summary": s.ai.DaySummary(r.Context(), body.CityName, body.Activities),
	})
}

// PackingList handles POST /ai/packing-list.
func (s *Server) PackingList(w http.ResponseWriter, r *http.Request) {
	var body packingListRequest
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, s.ai.PackingList(r.Context(), service.PackingRequest{
		Destinations: body.Destinations,
		Duration:     body.Duration,
		TripType:     body.TripType,
	}))
}

// TravelTips handles POST /ai/travel-tips.
func (s *Server) TravelTips(w http.ResponseWriter, r *http.Request) {
	var body travelTipsRequest
	if !decodeBody(w, r, &body) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tips": s.ai.TravelTips(r.Context(), body.CityName, body.Country),
	})
}
