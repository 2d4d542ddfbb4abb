package domain

// ExportRow is a single row in the flat itinerary export.
// It is a denormalized view: one row per activity, with trip, city and day
// fields repeated on every row. A city with no days, or a day with no
// activities, still yields one row with the deeper fields left empty.
type ExportRow struct {
	// Trip fields, repeated on every row.
	TripID    string `json:"tripId"`
	TripName  string `json:"tripName"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Currency  string `json:"currency"`

	// City fields.
	CityOrder   int    `json:"cityOrder,omitempty"`
	CityName    string `json:"cityName,omitempty"`
	CityCountry string `json:"cityCountry,omitempty"`

	// Day fields.
	DayNumber   int         `json:"dayNumber,omitempty"`
	DayDate     string      `json:"dayDate,omitempty"`
	Feasibility Feasibility `json:"feasibility,omitempty"`

	// Activity fields.
	ActivityName    string  `json:"activityName,omitempty"`
	ActivityType    string  `json:"activityType,omitempty"`
	ActivityTime    string  `json:"activityTime,omitempty"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Cost            float64 `json:"cost,omitempty"`
	ActivityNotes   string  `json:"activityNotes,omitempty"`
}

// Flatten renders t as export rows in itinerary order. A trip without cities
// yields a single row carrying only the trip fields.
func Flatten(t Trip) []ExportRow {
	base := ExportRow{
		TripID:    t.ID,
		TripName:  t.Name,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		Currency:  t.Currency,
	}
	if len(t.Cities) == 0 {
		return []ExportRow{base}
	}

	var rows []ExportRow
	for _, c := range t.Cities {
		cityRow := base
		cityRow.CityOrder = c.Order
		cityRow.CityName = c.Name
		cityRow.CityCountry = c.Country
		if len(c.Days) == 0 {
			rows = append(rows, cityRow)
			continue
		}
		for _, d := range c.Days {
			dayRow := cityRow
			dayRow.DayNumber = d.DayNumber
			dayRow.DayDate = d.Date
			dayRow.Feasibility = d.Feasibility
			if len(d.Activities) == 0 {
				rows = append(rows, dayRow)
				continue
			}
			for _, a := range d.Activities {
				row := dayRow
				row.ActivityName = a.Name
				row.ActivityType = a.Type
				row.ActivityTime = a.Time
				row.DurationMinutes = a.DurationMinutes
				row.Cost = a.Cost
				if a.Notes != nil {
					row.ActivityNotes = *a.Notes
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}
