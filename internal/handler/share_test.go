package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/service"
)

func TestShareTrip_ReturnsToken(t *testing.T) {
	shares := &mockShareServicer{
		share: func(_ context.Context, requesterID, tripID string) (service.ShareResult, error) {
			assert.Equal(t, testUser, requesterID)
			assert.Equal(t, "trip-1", tripID)
			return service.ShareResult{ShareToken: "share-abc", IsPublic: true}, nil
		},
	}
	h := newRouter(deps{shares: shares})
	rec := do(t, h, http.MethodPost, "/trips/trip-1/share", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"shareToken":"share-abc","isPublic":true}`, rec.Body.String())
}

func TestShareTrip_NotOwner_Returns403(t *testing.T) {
	shares := &mockShareServicer{
		share: func(context.Context, string, string) (service.ShareResult, error) {
			return service.ShareResult{}, fmt.Errorf("service.ShareService.Share: %w", domain.ErrForbidden)
		},
	}
	h := newRouter(deps{shares: shares})
	rec := do(t, h, http.MethodPost, "/trips/trip-1/share", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestShareTrip_TokenCollision_Returns400(t *testing.T) {
	shares := &mockShareServicer{
		share: func(context.Context, string, string) (service.ShareResult, error) {
			return service.ShareResult{}, fmt.Errorf("service.ShareService.Share: %w: share token already in use", domain.ErrConflict)
		},
	}
	h := newRouter(deps{shares: shares})
	rec := do(t, h, http.MethodPost, "/trips/trip-1/share", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "conflict", body.Error.Code)
	assert.Equal(t, "share link already in use, try again", body.Error.Message)
	assert.NotContains(t, body.Error.Message, "email")
}

// TestGetSharedTrip_IsPublic verifies the shared route needs no token even
// though it sits under /trips.
func TestGetSharedTrip_IsPublic(t *testing.T) {
	shares := &mockShareServicer{
		getShared: func(_ context.Context, token string) (domain.Trip, error) {
			assert.Equal(t, "share-abc", token)
			trip := tripFixture()
			trip.IsPublic = true
			trip.ShareToken = strPtr(token)
			return trip, nil
		},
	}
	h := newRouter(deps{shares: shares})
	rec := doAs(t, h, "", http.MethodGet, "/trips/shared/share-abc", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	trip := decodeJSON[domain.Trip](t, rec)
	assert.True(t, trip.IsPublic)
}

func TestGetSharedTrip_Unknown_Returns404(t *testing.T) {
	shares := &mockShareServicer{
		getShared: func(context.Context, string) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.ShareService.GetShared: %w", domain.ErrNotFound)
		},
	}
	h := newRouter(deps{shares: shares})
	rec := doAs(t, h, "", http.MethodGet, "/trips/shared/share-nope", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "shared trip not found", decodeError(t, rec).Error.Message)
}

func TestCopyTrip_Returns201(t *testing.T) {
	shares := &mockShareServicer{
		copyTrip: func(_ context.Context, requesterID, tripID string) (domain.Trip, error) {
			trip := tripFixture()
			trip.ID = "trip-2"
			trip.OwnerUserID = requesterID
			trip.Name += " (Copy)"
			return trip, nil
		},
	}
	h := newRouter(deps{shares: shares})
	rec := doAs(t, h, "user-2", http.MethodPost, "/trips/trip-1/copy", nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	trip := decodeJSON[domain.Trip](t, rec)
	assert.Equal(t, "user-2", trip.OwnerUserID)
	assert.Equal(t, "Europe Loop (Copy)", trip.Name)
}
