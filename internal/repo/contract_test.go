package repo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/repo"
)

// The contract tests below run unchanged against every backend. Each backend
// test file supplies a constructor for a fresh, empty repository.

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture(owner string) domain.Trip {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:            domain.NewID(domain.PrefixTrip),
		OwnerUserID:   owner,
		Name:          "Europe Tour",
		StartDate:     "2026-05-01",
		EndDate:       "2026-05-10",
		TravelerCount: 2,
		TotalBudget:   50000,
		Currency:      "INR",
		TripType:      "leisure",
		Status:        domain.StatusDraft,
		Cities: []domain.City{{
			ID: domain.NewID(domain.PrefixCity), Name: "Paris", Country: "France", Order: 1,
			Days: []domain.Day{{
				ID: domain.NewID(domain.PrefixDay), Date: "2026-05-01", DayNumber: 1,
				Activities: []domain.Activity{{
					ID: domain.NewID(domain.PrefixActivity), Name: "Louvre", Type: "sightseeing",
					Time: "09:00", DurationMinutes: 180, Cost: 17,
				}},
				Feasibility: domain.FeasibilitySmooth,
			}},
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func userFixture(email string) domain.User {
	return domain.User{
		ID:           domain.NewID(domain.PrefixUser),
		Email:        email,
		Name:         "Ada",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func strPtr(s string) *string { return &s }

func runTripRepoContract(t *testing.T, newRepo func(t *testing.T) repo.TripRepo) {
	ctx := context.Background()

	t.Run("create and get round-trips the whole document", func(t *testing.T) {
		r := newRepo(t)
		in := tripFixture("user-a")

		_, err := r.Create(ctx, in)
		require.NoError(t, err)

		got, err := r.GetByID(ctx, in.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(in, got); diff != "" {
			t.Errorf("stored trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("get unknown id returns ErrNotFound", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.GetByID(ctx, "trip-missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
	})

	t.Run("list by owner keeps creation order", func(t *testing.T) {
		r := newRepo(t)
		var want []string
		for _, name := range []string{"first", "second", "third"} {
			tr := tripFixture("user-a")
			tr.Name = name
			_, err := r.Create(ctx, tr)
			require.NoError(t, err)
			want = append(want, tr.ID)
		}
		_, err := r.Create(ctx, tripFixture("user-b"))
		require.NoError(t, err)

		got, err := r.ListByOwner(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, tr := range got {
			assert.Equal(t, want[i], tr.ID)
		}

		none, err := r.ListByOwner(ctx, "user-nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update applies the mutation and persists it", func(t *testing.T) {
		r := newRepo(t)
		in := tripFixture("user-a")
		_, err := r.Create(ctx, in)
		require.NoError(t, err)

		updated, err := r.Update(ctx, in.ID, func(tr *domain.Trip) error {
			tr.Name = "Renamed"
			tr.IsPublic = true
			tr.ShareToken = strPtr("share-" + in.ID + "-abcd1234")
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)

		got, err := r.GetByID(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)

		shared, err := r.GetByShareToken(ctx, "share-"+in.ID+"-abcd1234")
		require.NoError(t, err)
		assert.Equal(t, in.ID, shared.ID)
	})

	t.Run("update error aborts the write", func(t *testing.T) {
		r := newRepo(t)
		in := tripFixture("user-a")
		_, err := r.Create(ctx, in)
		require.NoError(t, err)

		boom := errors.New("boom")
		_, err = r.Update(ctx, in.ID, func(tr *domain.Trip) error {
			tr.Name = "should not stick"
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := r.GetByID(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, in.Name, got.Name)
	})

	t.Run("update unknown id returns ErrNotFound", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Update(ctx, "trip-missing", func(*domain.Trip) error { return nil })
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("share token collision returns ErrConflict", func(t *testing.T) {
		r := newRepo(t)
		a := tripFixture("user-a")
		a.ShareToken = strPtr("share-taken")
		_, err := r.Create(ctx, a)
		require.NoError(t, err)

		b := tripFixture("user-a")
		_, err = r.Create(ctx, b)
		require.NoError(t, err)

		_, err = r.Update(ctx, b.ID, func(tr *domain.Trip) error {
			tr.ShareToken = strPtr("share-taken")
			return nil
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("unknown share token returns ErrNotFound", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.GetByShareToken(ctx, "share-nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete removes the trip", func(t *testing.T) {
		r := newRepo(t)
		in := tripFixture("user-a")
		_, err := r.Create(ctx, in)
		require.NoError(t, err)

		require.NoError(t, r.Delete(ctx, in.ID))
		_, err = r.GetByID(ctx, in.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, r.Delete(ctx, in.ID), domain.ErrNotFound)
	})
}

func runUserRepoContract(t *testing.T, newRepo func(t *testing.T) repo.UserRepo) {
	ctx := context.Background()

	t.Run("create and lookup", func(t *testing.T) {
		r := newRepo(t)
		in := userFixture("ada@example.com")
		in.Avatar = strPtr("https://example.com/a.png")

		_, err := r.Create(ctx, in)
		require.NoError(t, err)

		byID, err := r.GetByID(ctx, in.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(in, byID); diff != "" {
			t.Errorf("GetByID mismatch (-want +got):\n%s", diff)
		}

		byEmail, err := r.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, in.ID, byEmail.ID)
		assert.Equal(t, in.PasswordHash, byEmail.PasswordHash)
	})

	t.Run("duplicate email returns ErrConflict", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Create(ctx, userFixture("dup@example.com"))
		require.NoError(t, err)

		_, err = r.Create(ctx, userFixture("dup@example.com"))
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("unknown user returns ErrNotFound", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.GetByID(ctx, "user-missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = r.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update profile", func(t *testing.T) {
		r := newRepo(t)
		in := userFixture("grace@example.com")
		_, err := r.Create(ctx, in)
		require.NoError(t, err)

		in.Name = "Grace"
		in.Avatar = strPtr("https://example.com/g.png")
		got, err := r.UpdateProfile(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "Grace", got.Name)
		require.NotNil(t, got.Avatar)
		assert.Equal(t, "https://example.com/g.png", *got.Avatar)
		assert.Equal(t, "grace@example.com", got.Email)

		_, err = r.UpdateProfile(ctx, userFixture("ghost@example.com"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// runConcurrentUpdates checks that concurrent read-modify-writes on one trip
// never lose an update.
func runConcurrentUpdates(t *testing.T, r repo.TripRepo) {
	ctx := context.Background()
	in := tripFixture("user-a")
	in.TravelerCount = 0
	_, err := r.Create(ctx, in)
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Update(ctx, in.ID, func(tr *domain.Trip) error {
				tr.TravelerCount++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := r.GetByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.TravelerCount)
}
