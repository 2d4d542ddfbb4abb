package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/handler"
	"github.com/pkordes/globetrotter/backend/internal/middleware"
	"github.com/pkordes/globetrotter/backend/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create         func(ctx context.Context, ownerID string, in domain.TripInput) (domain.Trip, error)
	list           func(ctx context.Context, ownerID string) ([]domain.Trip, error)
	listPage       func(ctx context.Context, ownerID string, p domain.PaginationParams) ([]domain.Trip, error)
	get            func(ctx context.Context, requesterID, tripID string) (domain.Trip, error)
	update         func(ctx context.Context, requesterID, tripID string, u domain.TripUpdate) (domain.Trip, error)
	delete         func(ctx context.Context, requesterID, tripID string) error
	addCity        func(ctx context.Context, requesterID, tripID string, in domain.CityInput) (domain.City, error)
	removeCity     func(ctx context.Context, requesterID, tripID, cityID string) error
	addDay         func(ctx context.Context, requesterID, tripID, cityID string, in domain.DayInput) (domain.Day, error)
	addActivity    func(ctx context.Context, requesterID, tripID, cityID, dayID string, in domain.ActivityInput) (domain.Activity, error)
	removeActivity func(ctx context.Context, requesterID, tripID, cityID, dayID, activityID string) error
	budget         func(ctx context.Context, requesterID, tripID string) (domain.Budget, error)
	export         func(ctx context.Context, requesterID, tripID string) ([]domain.ExportRow, error)
}

func (m *mockTripServicer) Create(ctx context.Context, ownerID string, in domain.TripInput) (domain.Trip, error) {
	return m.create(ctx, ownerID, in)
}
func (m *mockTripServicer) List(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	return m.list(ctx, ownerID)
}
func (m *mockTripServicer) ListPage(ctx context.Context, ownerID string, p domain.PaginationParams) ([]domain.Trip, error) {
	return m.listPage(ctx, ownerID, p)
}
func (m *mockTripServicer) Get(ctx context.Context, requesterID, tripID string) (domain.Trip, error) {
	return m.get(ctx, requesterID, tripID)
}
func (m *mockTripServicer) Update(ctx context.Context, requesterID, tripID string, u domain.TripUpdate) (domain.Trip, error) {
	return m.update(ctx, requesterID, tripID, u)
}
func (m *mockTripServicer) Delete(ctx context.Context, requesterID, tripID string) error {
	return m.delete(ctx, requesterID, tripID)
}
func (m *mockTripServicer) AddCity(ctx context.Context, requesterID, tripID string, in domain.CityInput) (domain.City, error) {
	return m.addCity(ctx, requesterID, tripID, in)
}
func (m *mockTripServicer) RemoveCity(ctx context.Context, requesterID, tripID, cityID string) error {
	return m.removeCity(ctx, requesterID, tripID, cityID)
}
func (m *mockTripServicer) AddDay(ctx context.Context, requesterID, tripID, cityID string, in domain.DayInput) (domain.Day, error) {
	return m.addDay(ctx, requesterID, tripID, cityID, in)
}
func (m *mockTripServicer) AddActivity(ctx context.Context, requesterID, tripID, cityID, dayID string, in domain.ActivityInput) (domain.Activity, error) {
	return m.addActivity(ctx, requesterID, tripID, cityID, dayID, in)
}
func (m *mockTripServicer) RemoveActivity(ctx context.Context, requesterID, tripID, cityID, dayID, activityID string) error {
	return m.removeActivity(ctx, requesterID, tripID, cityID, dayID, activityID)
}
func (m *mockTripServicer) Budget(ctx context.Context, requesterID, tripID string) (domain.Budget, error) {
	return m.budget(ctx, requesterID, tripID)
}
func (m *mockTripServicer) Export(ctx context.Context, requesterID, tripID string) ([]domain.ExportRow, error) {
	return m.export(ctx, requesterID, tripID)
}

type mockShareServicer struct {
	share     func(ctx context.Context, requesterID, tripID string) (service.ShareResult, error)
	getShared func(ctx context.Context, token string) (domain.Trip, error)
	copyTrip  func(ctx context.Context, requesterID, tripID string) (domain.Trip, error)
}

func (m *mockShareServicer) Share(ctx context.Context, requesterID, tripID string) (service.ShareResult, error) {
	return m.share(ctx, requesterID, tripID)
}
func (m *mockShareServicer) GetShared(ctx context.Context, token string) (domain.Trip, error) {
	return m.getShared(ctx, token)
}
func (m *mockShareServicer) Copy(ctx context.Context, requesterID, tripID string) (domain.Trip, error) {
	return m.copyTrip(ctx, requesterID, tripID)
}

type mockAuthServicer struct {
	signup        func(ctx context.Context, in service.SignupInput) (service.Session, error)
	login         func(ctx context.Context, email, password string) (service.Session, error)
	me            func(ctx context.Context, userID string) (domain.User, error)
	updateProfile func(ctx context.Context, userID string, p domain.ProfileUpdate) (domain.User, error)
}

func (m *mockAuthServicer) Signup(ctx context.Context, in service.SignupInput) (service.Session, error) {
	return m.signup(ctx, in)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (service.Session, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Me(ctx context.Context, userID string) (domain.User, error) {
	return m.me(ctx, userID)
}
func (m *mockAuthServicer) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) (domain.User, error) {
	return m.updateProfile(ctx, userID, p)
}

type mockSuggestionServicer struct {
	suggestions func(ctx context.Context, req service.SuggestionRequest) []domain.Suggestion
	daySummary  func(ctx context.Context, cityName string, activities []string) string
	packingList func(ctx context.Context, req service.PackingRequest) domain.PackingList
	travelTips  func(ctx context.Context, cityName, country string) []domain.Tip
}

func (m *mockSuggestionServicer) Suggestions(ctx context.Context, req service.SuggestionRequest) []domain.Suggestion {
	return m.suggestions(ctx, req)
}
func (m *mockSuggestionServicer) DaySummary(ctx context.Context, cityName string, activities []string) string {
	return m.daySummary(ctx, cityName, activities)
}
func (m *mockSuggestionServicer) PackingList(ctx context.Context, req service.PackingRequest) domain.PackingList {
	return m.packingList(ctx, req)
}
func (m *mockSuggestionServicer) TravelTips(ctx context.Context, cityName, country string) []domain.Tip {
	return m.travelTips(ctx, cityName, country)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer       = (*mockTripServicer)(nil)
	_ handler.ShareServicer      = (*mockShareServicer)(nil)
	_ handler.AuthServicer       = (*mockAuthServicer)(nil)
	_ handler.SuggestionServicer = (*mockSuggestionServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testUser = "user-1"

// fakeAuth stands in for middleware.RequireAuth: the bearer token is taken
// verbatim as the user ID.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || id == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), id)))
	})
}

type deps struct {
	trips  handler.TripServicer
	shares *mockShareServicer
	auth   *mockAuthServicer
	ai     *mockSuggestionServicer
}

// newRouter wires a Server with the given mocks into a chi router.
// This mirrors how main.go wires it in production.
func newRouter(d deps) http.Handler {
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.shares == nil {
		d.shares = &mockShareServicer{}
	}
	if d.auth == nil {
		d.auth = &mockAuthServicer{}
	}
	if d.ai == nil {
		d.ai = &mockSuggestionServicer{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(d.trips, d.shares, d.auth, d.ai, logger)
	r := chi.NewRouter()
	srv.Routes(r, fakeAuth)
	return r
}

// do sends a request as testUser. A nil body sends no body; a string is sent
// verbatim; anything else is JSON-encoded.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doAs(t, h, testUser, method, path, body)
}

// doAs is do for an explicit user; an empty userID sends no Authorization header.
func doAs(t *testing.T, h http.Handler, userID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
