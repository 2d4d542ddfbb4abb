package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// memTripRepo is an in-process TripRepo used by tests and STORE_DRIVER=memory.
// Every read and write goes through domain.Trip.Clone so callers never alias
// the stored documents.
type memTripRepo struct {
	mu    sync.Mutex
	trips map[string]domain.Trip
	order []string
}

// NewMemoryTripRepo returns an empty in-memory TripRepo.
func NewMemoryTripRepo() TripRepo {
	return &memTripRepo{trips: make(map[string]domain.Trip)}
}

func (r *memTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[trip.ID]; ok {
		return domain.Trip{}, fmt.Errorf("repo.memTripRepo.Create: %w: id %s", domain.ErrConflict, trip.ID)
	}
	if err := r.checkShareToken(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.memTripRepo.Create: %w", err)
	}
	r.trips[trip.ID] = trip.Clone()
	r.order = append(r.order, trip.ID)
	return trip.Clone(), nil
}

func (r *memTripRepo) GetByID(_ context.Context, id string) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.memTripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return t.Clone(), nil
}

func (r *memTripRepo) GetByShareToken(_ context.Context, token string) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.trips {
		if t.ShareToken != nil && *t.ShareToken == token {
			return t.Clone(), nil
		}
	}
	return domain.Trip{}, fmt.Errorf("repo.memTripRepo.GetByShareToken: %w", domain.ErrNotFound)
}

func (r *memTripRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Trip
	for _, id := range r.order {
		if t := r.trips[id]; t.OwnerUserID == ownerID {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

// Update holds the repo lock for the whole read-modify-write, so fn sees and
// replaces the latest version of the document.
func (r *memTripRepo) Update(_ context.Context, id string, fn MutateFunc) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.memTripRepo.Update: %w", domain.ErrNotFound)
	}
	trip := stored.Clone()
	if err := fn(&trip); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.memTripRepo.Update: %w", err)
	}
	if err := r.checkShareToken(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.memTripRepo.Update: %w", err)
	}
	r.trips[id] = trip.Clone()
	return trip, nil
}

func (r *memTripRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[id]; !ok {
		return fmt.Errorf("repo.memTripRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.trips, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// checkShareToken enforces the unique index the SQL stores have on share_token.
// Callers must hold r.mu.
func (r *memTripRepo) checkShareToken(trip domain.Trip) error {
	if trip.ShareToken == nil {
		return nil
	}
	for id, other := range r.trips {
		if id != trip.ID && other.ShareToken != nil && *other.ShareToken == *trip.ShareToken {
			return fmt.Errorf("%w: share token already in use", domain.ErrConflict)
		}
	}
	return nil
}

// memUserRepo is an in-process UserRepo.
type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepo returns an empty in-memory UserRepo.
func NewMemoryUserRepo() UserRepo {
	return &memUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *memUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return domain.User{}, fmt.Errorf("repo.memUserRepo.Create: %w: email already registered", domain.ErrConflict)
	}
	if _, ok := r.byID[user.ID]; ok {
		return domain.User{}, fmt.Errorf("repo.memUserRepo.Create: %w: id %s", domain.ErrConflict, user.ID)
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, fmt.Errorf("repo.memUserRepo.GetByID: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, fmt.Errorf("repo.memUserRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	return r.byID[id], nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return domain.User{}, fmt.Errorf("repo.memUserRepo.UpdateProfile: %w", domain.ErrNotFound)
	}
	stored.Name = user.Name
	stored.Avatar = user.Avatar
	r.byID[user.ID] = stored
	return stored, nil
}
