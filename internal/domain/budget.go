package domain

// overBudgetFactor marks a day as over budget once its spend exceeds the
// per-day threshold by more than 20%.
const overBudgetFactor = 1.2

// Budget is the spending roll-up of a trip, derived from activity costs.
type Budget struct {
	Currency       string             `json:"currency"`
	TotalBudget    float64            `json:"totalBudget"`
	Total          float64            `json:"total"`
	ByCity         []CitySpend        `json:"byCity"`
	ByDay          []DaySpend         `json:"byDay"`
	ByCategory     map[string]float64 `json:"byCategory"`
	DailyAverage   float64            `json:"dailyAverage"`
	PerPersonDaily float64            `json:"perPersonDaily"`
	DailyThreshold float64            `json:"dailyThreshold"`
	OverBudgetDays []DaySpend         `json:"overBudgetDays"`
	Remaining      float64            `json:"remaining"`
	PercentUsed    float64            `json:"percentUsed"`
}

// CitySpend is the total spent in one city.
type CitySpend struct {
	CityID string  `json:"cityId"`
	Name   string  `json:"name"`
	Total  float64 `json:"total"`
	Days   int     `json:"days"`
}

// DaySpend is the total spent on one day.
type DaySpend struct {
	DayID         string      `json:"dayId"`
	Date          string      `json:"date"`
	DayNumber     int         `json:"dayNumber"`
	City          string      `json:"city"`
	Total         float64     `json:"total"`
	ActivityCount int         `json:"activityCount"`
	Feasibility   Feasibility `json:"feasibility"`
}

// Summarize computes the budget roll-up of t. Activities without a type are
// grouped under "other".
func Summarize(t Trip) Budget {
	b := Budget{
		Currency:       t.Currency,
		TotalBudget:    t.TotalBudget,
		ByCity:         []CitySpend{},
		ByDay:          []DaySpend{},
		ByCategory:     map[string]float64{},
		OverBudgetDays: []DaySpend{},
	}

	totalDays := 0
	for _, c := range t.Cities {
		totalDays += len(c.Days)
	}
	b.DailyThreshold = t.TotalBudget
	if totalDays > 0 {
		b.DailyThreshold = t.TotalBudget / float64(totalDays)
	}

	for _, c := range t.Cities {
		cs := CitySpend{CityID: c.ID, Name: c.Name, Days: len(c.Days)}
		for _, d := range c.Days {
			ds := DaySpend{
				DayID:         d.ID,
				Date:          d.Date,
				DayNumber:     d.DayNumber,
				City:          c.Name,
				ActivityCount: len(d.Activities),
				Feasibility:   d.Feasibility,
			}
			for _, a := range d.Activities {
				ds.Total += a.Cost
				category := a.Type
				if category == "" {
					category = "other"
				}
				b.ByCategory[category] += a.Cost
			}
			cs.Total += ds.Total
			b.ByDay = append(b.ByDay, ds)
			if ds.Total > b.DailyThreshold*overBudgetFactor {
				b.OverBudgetDays = append(b.OverBudgetDays, ds)
			}
		}
		b.Total += cs.Total
		b.ByCity = append(b.ByCity, cs)
	}

	if totalDays > 0 {
		b.DailyAverage = b.Total / float64(totalDays)
		if t.TravelerCount > 0 {
			b.PerPersonDaily = b.DailyAverage / float64(t.TravelerCount)
		}
	}
	b.Remaining = t.TotalBudget - b.Total
	if t.TotalBudget > 0 {
		b.PercentUsed = b.Total / t.TotalBudget * 100
	}
	return b
}
