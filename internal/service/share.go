package service

import (
	"context"
	"fmt"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/repo"
)

// ShareService publishes trips behind share tokens and copies trips between
// users.
type ShareService struct {
	trips repo.TripRepo
	opts  options
}

// NewShareService constructs a ShareService backed by the provided TripRepo.
func NewShareService(r repo.TripRepo, opts ...Option) *ShareService {
	return &ShareService{trips: r, opts: newOptions(opts)}
}

// ShareResult is what Share hands back to the caller.
type ShareResult struct {
	ShareToken string `json:"shareToken"`
	IsPublic   bool   `json:"isPublic"`
}

// Share makes a trip the requester owns public under a freshly minted token.
// Calling it again replaces the token, so earlier links stop working.
func (s *ShareService) Share(ctx context.Context, requesterID, tripID string) (ShareResult, error) {
	trip, err := s.trips.Update(ctx, tripID, func(trip *domain.Trip) error {
		if !trip.IsOwnedBy(requesterID) {
			return domain.ErrForbidden
		}
		token := domain.NewID(domain.PrefixShare)
		trip.ShareToken = &token
		trip.IsPublic = true
		trip.Touch(s.opts.now())
		return nil
	})
	if err != nil {
		return ShareResult{}, fmt.Errorf("service.ShareService.Share: %w", err)
	}
	return ShareResult{ShareToken: *trip.ShareToken, IsPublic: trip.IsPublic}, nil
}

// GetShared returns the public trip holding token. A trip that has been made
// private is reported exactly like an unknown token.
func (s *ShareService) GetShared(ctx context.Context, token string) (domain.Trip, error) {
	trip, err := s.trips.GetByShareToken(ctx, token)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ShareService.GetShared: %w", err)
	}
	if !trip.IsPublic {
		return domain.Trip{}, fmt.Errorf("service.ShareService.GetShared: %w", domain.ErrNotFound)
	}
	return trip, nil
}

// Copy duplicates a trip into a new, private trip owned by the requester.
// The nested city/day/activity tree is copied by value, ids included; ids are
// scoped by their enclosing trip so the copy never aliases the source.
func (s *ShareService) Copy(ctx context.Context, requesterID, tripID string) (domain.Trip, error) {
	src, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ShareService.Copy: %w", err)
	}
	if s.opts.enforceNestedOwnership && !src.CanBeReadBy(requesterID) {
		return domain.Trip{}, fmt.Errorf("service.ShareService.Copy: %w", domain.ErrForbidden)
	}

	now := s.opts.timestamp()
	cp := src.Clone()
	cp.ID = domain.NewID(domain.PrefixTrip)
	cp.OwnerUserID = requesterID
	cp.Name = src.Name + " (Copy)"
	cp.IsPublic = false
	cp.ShareToken = nil
	cp.CreatedAt = now
	cp.UpdatedAt = now

	result, err := s.trips.Create(ctx, cp)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ShareService.Copy: %w", err)
	}
	return result, nil
}
