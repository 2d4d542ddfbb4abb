package domain

// Feasibility classifies how packed a day's schedule is.
type Feasibility string

const (
	FeasibilitySmooth     Feasibility = "smooth"
	FeasibilityTight      Feasibility = "tight"
	FeasibilityOverloaded Feasibility = "overloaded"
)

// Thresholds are strict: a day is only over a limit once it exceeds it.
const (
	overloadedCount   = 5
	overloadedMinutes = 12 * 60
	tightCount        = 3
	tightMinutes      = 8 * 60
)

// Classify derives a day's feasibility from its activity list. It depends
// only on the number of activities and the sum of their durations. The sum
// stops growing once it passes the overloaded limit, so it cannot wrap.
func Classify(activities []Activity) Feasibility {
	total := 0
	for _, a := range activities {
		if total > overloadedMinutes {
			break
		}
		total += max(a.DurationMinutes, 0)
	}
	count := len(activities)

	switch {
	case count > overloadedCount || total > overloadedMinutes:
		return FeasibilityOverloaded
	case count > tightCount || total > tightMinutes:
		return FeasibilityTight
	default:
		return FeasibilitySmooth
	}
}
