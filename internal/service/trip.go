package service

import (
	"context"
	"fmt"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/repo"
)

// TripService implements business logic for trips and the cities, days and
// activities nested inside them. Every mutation goes through
// repo.TripRepo.Update so it is applied to the latest stored document.
type TripService struct {
	trips repo.TripRepo
	opts  options
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo, opts ...Option) *TripService {
	return &TripService{trips: r, opts: newOptions(opts)}
}

// Create validates and persists a new, empty draft trip owned by ownerID.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, ownerID string, in domain.TripInput) (domain.Trip, error) {
	if err := validateTripInput(in); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	now := s.opts.timestamp()
	trip := domain.Trip{
		ID:            domain.NewID(domain.PrefixTrip),
		OwnerUserID:   ownerID,
		Name:          in.Name,
		Description:   in.Description,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		TravelerCount: valueOr(in.TravelerCount, domain.DefaultTravelerCount),
		TotalBudget:   valueOr(in.TotalBudget, domain.DefaultTotalBudget),
		Currency:      valueOr(in.Currency, domain.DefaultCurrency),
		TripType:      valueOr(in.TripType, domain.DefaultTripType),
		CoverImage:    in.CoverImage,
		Cities:        []domain.City{},
		Status:        domain.StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// List returns all trips owned by ownerID in creation order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	trips, err := s.trips.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// ListPage returns one page of the owner's trips.
func (s *TripService) ListPage(ctx context.Context, ownerID string, p domain.PaginationParams) ([]domain.Trip, error) {
	trips, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return domain.Paginate(trips, p), nil
}

// Get returns a trip the requester may read.
// Returns domain.ErrNotFound if it does not exist and domain.ErrForbidden if
// the requester is neither the owner nor the trip is public.
func (s *TripService) Get(ctx context.Context, requesterID, tripID string) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if !trip.CanBeReadBy(requesterID) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", domain.ErrForbidden)
	}
	return trip, nil
}

// Update applies the non-nil fields of u to a trip the requester owns.
// Turning isPublic off clears the share token; turning it on mints one if
// the trip has none.
func (s *TripService) Update(ctx context.Context, requesterID, tripID string, u domain.TripUpdate) (domain.Trip, error) {
	result, err := s.trips.Update(ctx, tripID, func(trip *domain.Trip) error {
		if !trip.IsOwnedBy(requesterID) {
			return domain.ErrForbidden
		}
		if err := validateTripUpdate(*trip, u); err != nil {
			return err
		}
		applyTripUpdate(trip, u)
		trip.Touch(s.opts.now())
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip the requester owns, with everything nested in it.
func (s *TripService) Delete(ctx context.Context, requesterID, tripID string) error {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if !trip.IsOwnedBy(requesterID) {
		return fmt.Errorf("service.TripService.Delete: %w", domain.ErrForbidden)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddCity appends a city with order = current count + 1.
func (s *TripService) AddCity(ctx context.Context, requesterID, tripID string, in domain.CityInput) (domain.City, error) {
	var city domain.City
	_, err := s.trips.Update(ctx, tripID, func(trip *domain.Trip) error {
		if err := s.checkNested(*trip, requesterID); err != nil {
			return err
		}
		if err := validateCityInput(in); err != nil {
			return err
		}
		city = domain.City{
			ID:      domain.NewID(domain.PrefixCity),
			Name:    in.Name,
			Country: in.Country,
			Image:   in.Image,
			Order:   len(trip.Cities) + 1,
			Days:    []domain.Day{},
		}
		trip.Cities = append(trip.Cities, city)
		trip.Touch(s.opts.now())
		return nil
	})
	if err != nil {
		return domain.City{}, fmt.Errorf("service.TripService.AddCity: %w", err)
	}
	return city, nil
}

// RemoveCity deletes a city and its days. Removing a city that is not on the
// trip succeeds without changing anything but updatedAt.
func (s *TripService) RemoveCity(ctx context.Context, requesterID, tripID, cityID string) error {
	_, err := s.trips.Update(ctx, tripID, func(trip *domain.Trip) error {
		if err := s.checkNested(*trip, requesterID); err != nil {
			return err
		}
		kept := trip.Cities[:0]
		for _, c := range trip.Cities {
			if c.ID != cityID {
				kept = append(kept, c)
			}
		}
		trip.Cities = kept
		trip.Touch(s.opts.now())
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.TripService.RemoveCity: %w", err)
	}
	return nil
}

// AddDay appends a day with dayNumber = current count + 1 to a city.
func (s *TripService) AddDay(ctx context.Context, requesterID, tripID, cityID string, in domain.DayInput) (domain.Day, error) {
	var day domain.Day
	_, err := s.trips.Update(ctx, tripID, func(trip *domain.Trip) error {
		if err := s.checkNested(*trip, requesterID); err != nil {
			return err
		}
		city, ok := trip.City(cityID)
		if !ok {
			return fmt.Errorf("city %s: %w", cityID, domain.ErrNotFound)
		}
		if err := validateDayInput(in); err != nil {
			return err
		}
		day = domain.Day{
			ID:          domain.NewID(domain.PrefixDay),
			Date:        in.Date,
			DayNumber:   len(city.Days) + 1,
			Notes:       in.Notes,
			Activities:  []domain.Activity{},
			Feasibility: domain.FeasibilitySmooth,
		}
		city.Days = append(city.Days, day)
		trip.Touch(s.opts.now())
		return nil
	})
	if err != nil {
		return domain.Day{}, fmt.Errorf("service.TripService.AddDay: %w", err)
	}
	return day, nil
}

// AddActivity appends an activity to a day and recomputes the day's
// feasibility.
func (s *TripService) AddActivity(ctx context.Context, requesterID, tripID, cityID, dayID string, in domain.ActivityInput) (domain.Activity, error) {
	var act domain.Activity
	_, err := s.trips.Update(ctx, tripID, func(trip *domain.Trip) error {
		day, err := s.findDay(trip, requesterID, cityID, dayID)
		if err != nil {
			return err
		}
		if err := validateActivityInput(in); err != nil {
			return err
		}
		act = domain.Activity{
			ID:              domain.NewID(domain.PrefixActivity),
			Name:            in.Name,
			Type:            valueOr(in.Type, domain.DefaultActivityType),
			Time:            valueOr(in.Time, domain.DefaultActivityTime),
			DurationMinutes: valueOr(in.DurationMinutes, domain.DefaultActivityDuration),
			Cost:            valueOr(in.Cost, 0),
			Notes:           in.Notes,
		}
		day.Activities = append(day.Activities, act)
		day.Recompute()
		trip.Touch(s.opts.now())
		return nil
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.TripService.AddActivity: %w", err)
	}
	return act, nil
}

// RemoveActivity deletes an activity from a day and recomputes the day's
// feasibility. An unknown activity id is not an error.
func (s *TripService) RemoveActivity(ctx context.Context, requesterID, tripID, cityID, dayID, activityID string) error {
	_, err := s.trips.Update(ctx, tripID, func(trip *domain.Trip) error {
		day, err := s.findDay(trip, requesterID, cityID, dayID)
		if err != nil {
			return err
		}
		kept := day.Activities[:0]
		for _, a := range day.Activities {
			if a.ID != activityID {
				kept = append(kept, a)
			}
		}
		day.Activities = kept
		day.Recompute()
		trip.Touch(s.opts.now())
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.TripService.RemoveActivity: %w", err)
	}
	return nil
}

// Budget summarises spending on a trip the requester may read.
func (s *TripService) Budget(ctx context.Context, requesterID, tripID string) (domain.Budget, error) {
	trip, err := s.Get(ctx, requesterID, tripID)
	if err != nil {
		return domain.Budget{}, fmt.Errorf("service.TripService.Budget: %w", err)
	}
	return domain.Summarize(trip), nil
}

// Export flattens a trip the requester may read into one row per activity.
func (s *TripService) Export(ctx context.Context, requesterID, tripID string) ([]domain.ExportRow, error) {
	trip, err := s.Get(ctx, requesterID, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Export: %w", err)
	}
	return domain.Flatten(trip), nil
}

// checkNested enforces the nested-mutation ownership policy.
func (s *TripService) checkNested(trip domain.Trip, requesterID string) error {
	if s.opts.enforceNestedOwnership && !trip.IsOwnedBy(requesterID) {
		return domain.ErrForbidden
	}
	return nil
}

// findDay resolves a day inside trip, returning a pointer into the trip so the
// caller can mutate it in place.
func (s *TripService) findDay(trip *domain.Trip, requesterID, cityID, dayID string) (*domain.Day, error) {
	if err := s.checkNested(*trip, requesterID); err != nil {
		return nil, err
	}
	city, ok := trip.City(cityID)
	if !ok {
		return nil, fmt.Errorf("city %s: %w", cityID, domain.ErrNotFound)
	}
	day, ok := city.Day(dayID)
	if !ok {
		return nil, fmt.Errorf("day %s: %w", dayID, domain.ErrNotFound)
	}
	return day, nil
}

func applyTripUpdate(trip *domain.Trip, u domain.TripUpdate) {
	setIf(&trip.Name, u.Name)
	if u.Description != nil {
		trip.Description = u.Description
	}
	setIf(&trip.StartDate, u.StartDate)
	setIf(&trip.EndDate, u.EndDate)
	setIf(&trip.TravelerCount, u.TravelerCount)
	setIf(&trip.TotalBudget, u.TotalBudget)
	setIf(&trip.Currency, u.Currency)
	setIf(&trip.TripType, u.TripType)
	if u.CoverImage != nil {
		trip.CoverImage = u.CoverImage
	}
	setIf(&trip.Status, u.Status)
	if u.IsPublic != nil {
		trip.IsPublic = *u.IsPublic
		switch {
		case !trip.IsPublic:
			trip.ShareToken = nil
		case trip.ShareToken == nil:
			token := domain.NewID(domain.PrefixShare)
			trip.ShareToken = &token
		}
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
