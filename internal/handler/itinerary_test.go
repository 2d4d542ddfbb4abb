package handler_test

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

func TestAddCity_Returns201(t *testing.T) {
	svc := &mockTripServicer{
		addCity: func(_ context.Context, _, tripID string, in domain.CityInput) (domain.City, error) {
			assert.Equal(t, "trip-1", tripID)
			return domain.City{ID: "city-1", Name: in.Name, Country: in.Country, Order: 1, Days: []domain.Day{}}, nil
		},
	}
	h := newRouter(deps{trips: svc})
	rec := do(t, h, http.MethodPost, "/trips/trip-1/cities", map[string]string{"name": "Paris", "country": "France"})

	require.Equal(t, http.StatusCreated, rec.Code)
	city := decodeJSON[domain.City](t, rec)
	assert.Equal(t, "Paris", city.Name)
	assert.Equal(t, 1, city.Order)
}

func TestAddCity_MissingCountry_Returns422(t *testing.T) {
	h := newRouter(deps{})
	rec := do(t, h, http.MethodPost, "/trips/trip-1/cities", map[string]string{"name": "Paris"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "is required", decodeError(t, rec).Error.Details["country"])
}

func TestRemoveCity_ReturnsMessage(t *testing.T) {
	svc := &mockTripServicer{
		removeCity: func(_ context.Context, _, tripID, cityID string) error {
			assert.Equal(t, "trip-1", tripID)
			assert.Equal(t, "city-7", cityID)
			return nil
		},
	}
	h := newRouter(deps{trips: svc})
	rec := do(t, h, http.MethodDelete, "/trips/trip-1/cities/city-7", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"City removed"}`, rec.Body.String())
}

func TestAddDay_UnknownCity_Returns404(t *testing.T) {
	svc := &mockTripServicer{
		addDay: func(context.Context, string, string, string, domain.DayInput) (domain.Day, error) {
			return domain.Day{}, fmt.Errorf("service.TripService.AddDay: city city-x: %w", domain.ErrNotFound)
		},
	}
	h := newRouter(deps{trips: svc})
	rec := do(t, h, http.MethodPost, "/trips/trip-1/cities/city-x/days", map[string]string{"date": "2025-06-01"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, "trip or city not found", body.Error.Message)
}

func TestAddDay_PassesDate(t *testing.T) {
	svc := &mockTripServicer{
		addDay: func(_ context.Context, _, _, cityID string, in domain.DayInput) (domain.Day, error) {
			assert.Equal(t, "city-1", cityID)
			assert.Equal(t, "2025-06-01", in.Date)
			return domain.Day{ID: "day-1", Date: in.Date, DayNumber: 1, Activities: []domain.Activity{}, Feasibility: domain.FeasibilitySmooth}, nil
		},
	}
	h := newRouter(deps{trips: svc})
	rec := do(t, h, http.MethodPost, "/trips/trip-1/cities/city-1/days", map[string]string{"date": "2025-06-01"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.FeasibilitySmooth, decodeJSON[domain.Day](t, rec).Feasibility)
}

func TestAddActivity_PassesPathAndFields(t *testing.T) {
	var got domain.ActivityInput
	svc := &mockTripServicer{
		addActivity: func(_ context.Context, requesterID, tripID, cityID, dayID string, in domain.ActivityInput) (domain.Activity, error) {
			assert.Equal(t, testUser, requesterID)
			assert.Equal(t, []string{"trip-1", "city-1", "day-1"}, []string{tripID, cityID, dayID})
			got = in
			return domain.Activity{ID: "act-1", Name: in.Name}, nil
		},
	}
	h := newRouter(deps{trips: svc})
	rec := do(t, h, http.MethodPost, "/trips/trip-1/cities/city-1/days/day-1/activities", map[string]any{
		"name":            "Louvre",
		"time":            "10:30",
		"durationMinutes": 180,
		"cost":            17.5,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Louvre", got.Name)
	assert.Equal(t, strPtr("10:30"), got.Time)
	assert.Equal(t, intPtr(180), got.DurationMinutes)
	assert.Nil(t, got.Type)
}

func TestAddActivity_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]any
		wantField string
	}{
		{"bad time", map[string]any{"name": "x", "time": "25:00"}, "time"},
		{"negative duration", map[string]any{"name": "x", "durationMinutes": -5}, "durationMinutes"},
		{"negative cost", map[string]any{"name": "x", "cost": -1}, "cost"},
		{"duration longer than a day", map[string]any{"name": "x", "durationMinutes": 1441}, "durationMinutes"},
		{"max int duration", map[string]any{"name": "x", "durationMinutes": math.MaxInt64}, "durationMinutes"},
		{"oversized cost", map[string]any{"name": "x", "cost": 1e308}, "cost"},
		{"missing name", map[string]any{"time": "09:00"}, "name"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newRouter(deps{})
			rec := do(t, h, http.MethodPost, "/trips/trip-1/cities/city-1/days/day-1/activities", tc.body)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, decodeError(t, rec).Error.Details, tc.wantField)
		})
	}
}

func TestRemoveActivity_ReturnsMessage(t *testing.T) {
	svc := &mockTripServicer{
		removeActivity: func(_ context.Context, _, _, _, _, activityID string) error {
			assert.Equal(t, "act-3", activityID)
			return nil
		},
	}
	h := newRouter(deps{trips: svc})
	rec := do(t, h, http.MethodDelete, "/trips/trip-1/cities/city-1/days/day-1/activities/act-3", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Activity removed"}`, rec.Body.String())
}
