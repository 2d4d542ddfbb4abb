// Package handler implements the GlobeTrotter HTTP API on a chi router.
// Handlers decode and validate the request, call one service method and map
// the result (or the domain error) onto the JSON response.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/service"
)

// TripServicer is the subset of service.TripService the handlers need.
// Defined here, in the consumer package, so tests can supply a mock.
type TripServicer interface {
	Create(ctx context.Context, ownerID string, in domain.TripInput) (domain.Trip, error)
	List(ctx context.Context, ownerID string) ([]domain.Trip, error)
	ListPage(ctx context.Context, ownerID string, p domain.PaginationParams) ([]domain.Trip, error)
	Get(ctx context.Context, requesterID, tripID string) (domain.Trip, error)
	Update(ctx context.Context, requesterID, tripID string, u domain.TripUpdate) (domain.Trip, error)
	Delete(ctx context.Context, requesterID, tripID string) error
	AddCity(ctx context.Context, requesterID, tripID string, in domain.CityInput) (domain.City, error)
	RemoveCity(ctx context.Context, requesterID, tripID, cityID string) error
	AddDay(ctx context.Context, requesterID, tripID, cityID string, in domain.DayInput) (domain.Day, error)
	AddActivity(ctx context.Context, requesterID, tripID, cityID, dayID string, in domain.ActivityInput) (domain.Activity, error)
	RemoveActivity(ctx context.Context, requesterID, tripID, cityID, dayID, activityID string) error
	Budget(ctx context.Context, requesterID, tripID string) (domain.Budget, error)
	Export(ctx context.Context, requesterID, tripID string) ([]domain.ExportRow, error)
}

// ShareServicer is the subset of service.ShareService the handlers need.
type ShareServicer interface {
	Share(ctx context.Context, requesterID, tripID string) (service.ShareResult, error)
	GetShared(ctx context.Context, token string) (domain.Trip, error)
	Copy(ctx context.Context, requesterID, tripID string) (domain.Trip, error)
}

// AuthServicer is the subset of service.AuthService the handlers need.
type AuthServicer interface {
	Signup(ctx context.Context, in service.SignupInput) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	Me(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) (domain.User, error)
}

// SuggestionServicer is the subset of service.SuggestionService the handlers need.
type SuggestionServicer interface {
	Suggestions(ctx context.Context, req service.SuggestionRequest) []domain.Suggestion
	DaySummary(ctx context.Context, cityName string, activities []string) string
	PackingList(ctx context.Context, req service.PackingRequest) domain.PackingList
	TravelTips(ctx context.Context, cityName, country string) []domain.Tip
}

// Server holds the services behind the API routes.
type Server struct {
	trips  TripServicer
	shares ShareServicer
	auth   AuthServicer
	ai     SuggestionServicer
	logger *slog.Logger
}

// NewServer constructs a Server. A nil logger falls back to slog.Default.
func NewServer(trips TripServicer, shares ShareServicer, auth AuthServicer, ai SuggestionServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{trips: trips, shares: shares, auth: auth, ai: ai, logger: logger}
}

// Routes registers every API route on r. requireAuth guards the account and
// trip routes; the signup/login, shared-trip and /ai routes are public.
func (s *Server) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/openapi.yaml", GetOpenAPI)

	r.Post("/auth/signup", s.Signup)
	r.Post("/auth/login", s.Login)
	r.Get("/trips/shared/{shareToken}", s.GetSharedTrip)

	r.Route("/ai", func(r chi.Router) {
		r.Post("/suggestions", s.Suggestions)
		r.Post("/day-summary", s.DaySummary)
		r.Post("/packing-list", s.PackingList)
		r.Post("/travel-tips", s.TravelTips)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/auth/me", s.Me)
		r.Put("/auth/profile", s.UpdateProfile)

		r.Get("/trips", s.ListTrips)
		r.Post("/trips", s.CreateTrip)
		r.Get("/trips/{id}", s.GetTrip)
		r.Put("/trips/{id}", s.UpdateTrip)
		r.Delete("/trips/{id}", s.DeleteTrip)
		r.Get("/trips/{id}/budget", s.GetTripBudget)
		r.Get("/trips/{id}/export", s.ExportTrip)
		r.Post("/trips/{id}/share", s.ShareTrip)
		r.Post("/trips/{id}/copy", s.CopyTrip)

		r.Post("/trips/{id}/cities", s.AddCity)
		r.Delete("/trips/{id}/cities/{cityId}", s.RemoveCity)
		r.Post("/trips/{id}/cities/{cityId}/days", s.AddDay)
		r.Post("/trips/{id}/cities/{cityId}/days/{dayId}/activities", s.AddActivity)
		r.Delete("/trips/{id}/cities/{cityId}/days/{dayId}/activities/{activityId}", s.RemoveActivity)
	})
}

type messageResponse struct {
	Message string `json:"message"`
}
