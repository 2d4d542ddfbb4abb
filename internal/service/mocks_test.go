package service_test

import (
	"context"
	"time"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/repo"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
// Most service tests run against repo.NewMemoryTripRepo instead; the mock is
// for forcing storage errors.
type mockTripRepo struct {
	create          func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID         func(ctx context.Context, id string) (domain.Trip, error)
	getByShareToken func(ctx context.Context, token string) (domain.Trip, error)
	listByOwner     func(ctx context.Context, ownerID string) ([]domain.Trip, error)
	update          func(ctx context.Context, id string, fn repo.MutateFunc) (domain.Trip, error)
	delete          func(ctx context.Context, id string) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetByShareToken(ctx context.Context, token string) (domain.Trip, error) {
	return m.getByShareToken(ctx, token)
}
func (m *mockTripRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	return m.listByOwner(ctx, ownerID)
}
func (m *mockTripRepo) Update(ctx context.Context, id string, fn repo.MutateFunc) (domain.Trip, error) {
	return m.update(ctx, id, fn)
}
func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	create        func(ctx context.Context, user domain.User) (domain.User, error)
	getByID       func(ctx context.Context, id string) (domain.User, error)
	getByEmail    func(ctx context.Context, email string) (domain.User, error)
	updateProfile func(ctx context.Context, user domain.User) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	return m.updateProfile(ctx, user)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// mockProvider is a hand-written test double for service.SuggestionProvider.
type mockProvider struct {
	complete func(ctx context.Context, prompt string) (string, error)
	prompts  []string
}

func (m *mockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.complete(ctx, prompt)
}

// ---- helpers ---------------------------------------------------------------

// frozenClock always returns the same instant, which exercises the
// strictly-increasing updatedAt rule.
func frozenClock() func() time.Time {
	t := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool { return &b }
func statusPtr(s domain.TripStatus) *domain.TripStatus { return &s }

func validTripInput() domain.TripInput {
	return domain.TripInput{
		Name:      "Europe Tour",
		StartDate: "2026-05-01",
		EndDate:   "2026-05-10",
	}
}
