package domain

// Suggestion is one activity idea returned by the suggestion gateway.
type Suggestion struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Description   string  `json:"description,omitempty"`
	Duration      int     `json:"duration"`
	EstimatedCost float64 `json:"estimatedCost"`
	BestTime      string  `json:"bestTime,omitempty"`
}

// PackingList groups packing items by category.
type PackingList struct {
	Essentials  []string `json:"essentials"`
	Clothing    []string `json:"clothing"`
	Toiletries  []string `json:"toiletries"`
	Electronics []string `json:"electronics"`
	Documents   []string `json:"documents"`
	Misc        []string `json:"misc"`
}

// IsEmpty reports whether no category has any item.
func (p PackingList) IsEmpty() bool {
	return len(p.Essentials)+len(p.Clothing)+len(p.Toiletries)+
		len(p.Electronics)+len(p.Documents)+len(p.Misc) == 0
}

// Tip is a single piece of travel advice.
type Tip struct {
	Tip      string `json:"tip"`
	Category string `json:"category"`
}
