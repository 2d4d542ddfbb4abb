package domain

// TripInput carries the fields accepted when creating a trip. Pointer fields
// are optional and fall back to the defaults below.
type TripInput struct {
	Name          string
	Description   *string
	StartDate     string
	EndDate       string
	TravelerCount *int
	TotalBudget   *float64
	Currency      *string
	TripType      *string
	CoverImage    *string
}

// Defaults applied to a new trip when the caller omits the field.
const (
	DefaultTravelerCount = 2
	DefaultTotalBudget   = 50000
	DefaultCurrency      = "INR"
	DefaultTripType      = "leisure"
)

// Upper bounds on caller-supplied quantities. Sums of bounded values stay
// finite, and no single activity outlasts a day.
const (
	MaxActivityMinutes = 24 * 60
	MaxAmount          = 1e12
)

// TripUpdate is a partial update of a trip. Only non-nil fields are applied.
type TripUpdate struct {
	Name          *string
	Description   *string
	StartDate     *string
	EndDate       *string
	TravelerCount *int
	TotalBudget   *float64
	Currency      *string
	TripType      *string
	CoverImage    *string
	Status        *TripStatus
	IsPublic      *bool
}

// CityInput carries the fields accepted when adding a city to a trip.
type CityInput struct {
	Name    string
	Country string
	Image   *string
}

// DayInput carries the fields accepted when adding a day to a city.
type DayInput struct {
	Date  string
	Notes *string
}

// ActivityInput carries the fields accepted when adding an activity to a day.
type ActivityInput struct {
	Name            string
	Type            *string
	Time            *string
	DurationMinutes *int
	Cost            *float64
	Notes           *string
}

// Activity defaults.
const (
	DefaultActivityType     = "sightseeing"
	DefaultActivityTime     = "09:00"
	DefaultActivityDuration = 120
)
