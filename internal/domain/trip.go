// Package domain contains the core data types for the GlobeTrotter API.
// It is imported by every other internal package (repo, service, handler)
// and holds the pure derived-state functions (feasibility, budget, export).
package domain

import "time"

// TripStatus is the planning stage of a trip.
type TripStatus string

const (
	StatusDraft     TripStatus = "draft"
	StatusPlanned   TripStatus = "planned"
	StatusCompleted TripStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPlanned, StatusCompleted:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of trip and day dates.
const DateLayout = "2006-01-02"

// Trip is the top-level aggregate: a trip owns its cities, which own their
// days, which own their activities. The whole tree is stored and mutated as
// one document.
type Trip struct {
	ID            string     `json:"id"`
	OwnerUserID   string     `json:"ownerUserId"`
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	StartDate     string     `json:"startDate"`
	EndDate       string     `json:"endDate"`
	TravelerCount int        `json:"travelerCount"`
	TotalBudget   float64    `json:"totalBudget"`
	Currency      string     `json:"currency"`
	TripType      string     `json:"tripType"`
	CoverImage    *string    `json:"coverImage,omitempty"`
	Cities        []City     `json:"cities"`
	Status        TripStatus `json:"status"`
	IsPublic      bool       `json:"isPublic"`
	ShareToken    *string    `json:"shareToken"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// City is a stop on the trip. Order is 1-based and assigned once at insertion.
type City struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Image   *string `json:"image,omitempty"`
	Order   int     `json:"order"`
	Days    []Day   `json:"days"`
}

// Day is one calendar day spent in a city. Feasibility is derived from
// Activities and must only be written through Recompute.
type Day struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	DayNumber   int         `json:"dayNumber"`
	Notes       *string     `json:"notes,omitempty"`
	Activities  []Activity  `json:"activities"`
	Feasibility Feasibility `json:"feasibility"`
}

// Activity is a single scheduled item. Time is "HH:MM".
type Activity struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Time            string  `json:"time"`
	DurationMinutes int     `json:"durationMinutes"`
	Cost            float64 `json:"cost"`
	Notes           *string `json:"notes,omitempty"`
}

// IsOwnedBy reports whether userID owns t.
func (t Trip) IsOwnedBy(userID string) bool {
	return t.OwnerUserID == userID
}

// CanBeReadBy reports whether userID may read t: owners always, everyone else
// only while the trip is public.
func (t Trip) CanBeReadBy(userID string) bool {
	return t.IsOwnedBy(userID) || t.IsPublic
}

// City returns a pointer into t.Cities for the city with the given id.
func (t *Trip) City(id string) (*City, bool) {
	for i := range t.Cities {
		if t.Cities[i].ID == id {
			return &t.Cities[i], true
		}
	}
	return nil, false
}

// Day returns a pointer into c.Days for the day with the given id.
func (c *City) Day(id string) (*Day, bool) {
	for i := range c.Days {
		if c.Days[i].ID == id {
			return &c.Days[i], true
		}
	}
	return nil, false
}

// Recompute rederives the day's feasibility from its current activities.
func (d *Day) Recompute() {
	d.Feasibility = Classify(d.Activities)
}

// Touch advances UpdatedAt to now. When now does not move past the previous
// value (coarse clocks, storage precision) it is nudged forward by one
// microsecond so that UpdatedAt strictly increases on every mutation.
func (t *Trip) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
}

// Clone returns a deep copy of t. No slice or pointer in the result is shared
// with t.
func (t Trip) Clone() Trip {
	out := t
	out.Description = cloneString(t.Description)
	out.CoverImage = cloneString(t.CoverImage)
	out.ShareToken = cloneString(t.ShareToken)
	out.Cities = make([]City, len(t.Cities))
	for i, c := range t.Cities {
		out.Cities[i] = c.clone()
	}
	return out
}

func (c City) clone() City {
	out := c
	out.Image = cloneString(c.Image)
	out.Days = make([]Day, len(c.Days))
	for i, d := range c.Days {
		out.Days[i] = d.clone()
	}
	return out
}

func (d Day) clone() Day {
	out := d
	out.Notes = cloneString(d.Notes)
	out.Activities = make([]Activity, len(d.Activities))
	for i, a := range d.Activities {
		a.Notes = cloneString(a.Notes)
		out.Activities[i] = a
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
