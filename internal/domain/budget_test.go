package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

func TestSummarize(t *testing.T) {
	trip := domain.Trip{
		Currency:      "INR",
		TotalBudget:   1200,
		TravelerCount: 2,
		Cities: []domain.City{
			{ID: "city-1", Name: "Paris", Days: []domain.Day{
				{ID: "day-1", Date: "2026-01-01", DayNumber: 1, Activities: []domain.Activity{
					{Type: "food", Cost: 100},
					{Type: "museum", Cost: 50},
				}},
				{ID: "day-2", Date: "2026-01-02", DayNumber: 2, Activities: []domain.Activity{
					{Type: "food", Cost: 500},
				}},
			}},
			{ID: "city-2", Name: "Rome", Days: []domain.Day{
				{ID: "day-3", Date: "2026-01-03", DayNumber: 1, Activities: []domain.Activity{
					{Cost: 50},
				}},
			}},
			{ID: "city-3", Name: "Nice"},
		},
	}

	b := domain.Summarize(trip)

	assert.Equal(t, 700.0, b.Total)
	assert.Equal(t, 500.0, b.Remaining)
	assert.InDelta(t, 700.0/1200*100, b.PercentUsed, 1e-9)
	assert.InDelta(t, 700.0/3, b.DailyAverage, 1e-9)
	assert.InDelta(t, 700.0/3/2, b.PerPersonDaily, 1e-9)
	assert.InDelta(t, 400.0, b.DailyThreshold, 1e-9)

	require.Len(t, b.ByCity, 3)
	assert.Equal(t, 650.0, b.ByCity[0].Total)
	assert.Equal(t, 2, b.ByCity[0].Days)
	assert.Equal(t, 50.0, b.ByCity[1].Total)
	assert.Equal(t, 0.0, b.ByCity[2].Total)

	require.Len(t, b.ByDay, 3)
	assert.Equal(t, "Paris", b.ByDay[1].City)
	assert.Equal(t, 1, b.ByDay[1].ActivityCount)

	assert.Equal(t, map[string]float64{"food": 600, "museum": 50, "other": 50}, b.ByCategory)

	// 500 > 1.2 * 400, every other day is below.
	require.Len(t, b.OverBudgetDays, 1)
	assert.Equal(t, "day-2", b.OverBudgetDays[0].DayID)
}

func TestSummarize_EmptyTrip(t *testing.T) {
	b := domain.Summarize(domain.Trip{TotalBudget: 500, TravelerCount: 2})

	assert.Equal(t, 0.0, b.Total)
	assert.Equal(t, 500.0, b.Remaining)
	assert.Equal(t, 0.0, b.DailyAverage)
	assert.Equal(t, 500.0, b.DailyThreshold)
	assert.NotNil(t, b.ByCity)
	assert.NotNil(t, b.ByDay)
	assert.NotNil(t, b.OverBudgetDays)
	assert.Empty(t, b.ByCategory)
}

func TestSummarize_ZeroBudget(t *testing.T) {
	trip := domain.Trip{Cities: []domain.City{{Days: []domain.Day{{Activities: []domain.Activity{{Type: "food", Cost: 10}}}}}}}

	b := domain.Summarize(trip)

	assert.Equal(t, 0.0, b.PercentUsed)
	assert.Equal(t, -10.0, b.Remaining)
	assert.Equal(t, 0.0, b.PerPersonDaily, "no travellers means no per-person figure")
}
