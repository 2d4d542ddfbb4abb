package service

import (
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// validateTripInput enforces the rules for a new trip.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Dates must be YYYY-MM-DD and endDate must not be before startDate.
//   - travelerCount ≥ 1, 0 ≤ totalBudget ≤ domain.MaxAmount, currency is three letters.
func validateTripInput(in domain.TripInput) error {
	var v domain.ValidationError
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	checkDateRange(&v, in.StartDate, in.EndDate)
	if in.TravelerCount != nil {
		checkTravelerCount(&v, *in.TravelerCount)
	}
	if in.TotalBudget != nil {
		checkBudget(&v, *in.TotalBudget)
	}
	if in.Currency != nil {
		checkCurrency(&v, *in.Currency)
	}
	return v.Err()
}

// validateTripUpdate checks u against the trip it will be merged into, so a
// new endDate is compared with the stored startDate and vice versa.
func validateTripUpdate(cur domain.Trip, u domain.TripUpdate) error {
	var v domain.ValidationError
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		v.Add("name", "must not be blank")
	}
	if u.StartDate != nil || u.EndDate != nil {
		start, end := cur.StartDate, cur.EndDate
		if u.StartDate != nil {
			start = *u.StartDate
		}
		if u.EndDate != nil {
			end = *u.EndDate
		}
		checkDateRange(&v, start, end)
	}
	if u.TravelerCount != nil {
		checkTravelerCount(&v, *u.TravelerCount)
	}
	if u.TotalBudget != nil {
		checkBudget(&v, *u.TotalBudget)
	}
	if u.Currency != nil {
		checkCurrency(&v, *u.Currency)
	}
	if u.Status != nil && !u.Status.Valid() {
		v.Add("status", "must be one of draft, planned, completed")
	}
	return v.Err()
}

func validateCityInput(in domain.CityInput) error {
	var v domain.ValidationError
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if strings.TrimSpace(in.Country) == "" {
		v.Add("country", "is required")
	}
	return v.Err()
}

func validateDayInput(in domain.DayInput) error {
	var v domain.ValidationError
	if !isDate(in.Date) {
		v.Add("date", "must be a date in YYYY-MM-DD form")
	}
	return v.Err()
}

func validateActivityInput(in domain.ActivityInput) error {
	var v domain.ValidationError
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if in.Time != nil {
		if _, err := time.Parse("15:04", *in.Time); err != nil {
			v.Add("time", "must be a time in HH:MM form")
		}
	}
	if in.DurationMinutes != nil {
		switch d := *in.DurationMinutes; {
		case d < 0:
			v.Add("durationMinutes", "must not be negative")
		case d > domain.MaxActivityMinutes:
			v.Add("durationMinutes", "must be at most 1440")
		}
	}
	if in.Cost != nil {
		checkAmount(v.Add, "cost", *in.Cost)
	}
	return v.Err()
}

func validateSignup(in SignupInput) error {
	var v domain.ValidationError
	if _, err := mail.ParseAddress(in.Email); err != nil || strings.TrimSpace(in.Email) != in.Email {
		v.Add("email", "must be a valid email address")
	}
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if in.Password == "" {
		v.Add("password", "is required")
	}
	return v.Err()
}

func checkDateRange(v *domain.ValidationError, start, end string) {
	startOK, endOK := isDate(start), isDate(end)
	if !startOK {
		v.Add("startDate", "must be a date in YYYY-MM-DD form")
	}
	if !endOK {
		v.Add("endDate", "must be a date in YYYY-MM-DD form")
	}
	// Dates in this layout order lexically.
	if startOK && endOK && end < start {
		v.Add("endDate", "must not be before startDate")
	}
}

func checkTravelerCount(v *domain.ValidationError, n int) {
	if n < 1 {
		v.Add("travelerCount", "must be at least 1")
	}
}

func checkBudget(v *domain.ValidationError, b float64) {
	checkAmount(v.Add, "totalBudget", b)
}

// checkAmount rejects negative, non-finite and oversized money values.
func checkAmount(add func(field, msg string), field string, amt float64) {
	switch {
	case math.IsNaN(amt) || amt < 0:
		add(field, "must not be negative")
	case amt > domain.MaxAmount:
		add(field, "must be at most 1000000000000")
	}
}

func checkCurrency(v *domain.ValidationError, c string) {
	if len(c) != 3 {
		v.Add("currency", "must be a three-letter code")
		return
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			v.Add("currency", "must be a three-letter code")
			return
		}
	}
}

func isDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}
