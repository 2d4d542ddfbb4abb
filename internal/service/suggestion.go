package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pkordes/globetrotter/backend/internal/domain"
)

// SuggestionProvider completes a free-text prompt. *suggest.Client satisfies it.
type SuggestionProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DefaultDaySummary is returned when no summary could be generated.
const DefaultDaySummary = "An exciting day of exploration awaits!"

// Fallback kinds, used as the "kind" label of suggestion_fallbacks_total.
const (
	kindSuggestions = "suggestions"
	kindDaySummary  = "day_summary"
	kindPackingList = "packing_list"
	kindTravelTips  = "travel_tips"
)

var errUndecodable = errors.New("reply is not the requested JSON")

// SuggestionService builds prompts, calls the provider and decodes replies.
// None of its methods return an error: any provider or decoding failure is
// logged, counted and replaced by a fixed default payload.
type SuggestionService struct {
	provider  SuggestionProvider
	logger    *slog.Logger
	fallbacks *prometheus.CounterVec
}

// NewSuggestionService constructs a SuggestionService. The fallback counter is
// registered on reg; a nil reg leaves it unregistered.
func NewSuggestionService(p SuggestionProvider, logger *slog.Logger, reg prometheus.Registerer) *SuggestionService {
	return &SuggestionService{
		provider: p,
		logger:   logger,
		fallbacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "suggestion_fallbacks_total",
			Help: "Suggestion requests answered with the default payload, by request kind.",
		}, []string{"kind"}),
	}
}

// SuggestionRequest asks for activity ideas in one city.
type SuggestionRequest struct {
	CityName string
	Country  string
	TripType string
	Budget   string
}

// PackingRequest asks for a packing list for a whole trip.
type PackingRequest struct {
	Destinations []string
	Duration     int
	TripType     string
}

// Suggestions returns five activity ideas for a city.
func (s *SuggestionService) Suggestions(ctx context.Context, req SuggestionRequest) []domain.Suggestion {
	tripType := orDefault(req.TripType, domain.DefaultTripType)
	budget := orDefault(req.Budget, "moderate")
	prompt := fmt.Sprintf(`You are a travel expert. Suggest 5 unique activities for a traveler visiting %s, %s.
Consider: %s trip, %s budget.

Return a JSON array with this exact format:
[
  {
    "name": "Activity Name",
    "type": "sightseeing|food|entertainment|shopping|experience|adventure|wellness",
    "description": "Brief description",
    "duration": 120,
    "estimatedCost": 500,
    "bestTime": "Morning|Afternoon|Evening"
  }
]

Only return the JSON array, no other text.`, req.CityName, req.Country, tripType, budget)

	var out []domain.Suggestion
	if err := s.completeJSON(ctx, prompt, &out); err != nil || len(out) == 0 {
		s.fallback(kindSuggestions, err)
		return DefaultSuggestions(req.CityName)
	}
	return out
}

// DaySummary returns a short description of a day's plan.
func (s *SuggestionService) DaySummary(ctx context.Context, cityName string, activities []string) string {
	list := "No activities planned"
	if len(activities) > 0 {
		list = strings.Join(activities, ", ")
	}
	prompt := fmt.Sprintf(`Create a brief, engaging 2-sentence summary of this travel day in %s:
Activities: %s

Make it sound exciting and personal. Only return the summary text.`, cityName, list)

	reply, err := s.complete(ctx, prompt)
	if reply = strings.TrimSpace(reply); err != nil || reply == "" {
		s.fallback(kindDaySummary, err)
		return DefaultDaySummary
	}
	return reply
}

// PackingList returns items to pack, grouped by category.
func (s *SuggestionService) PackingList(ctx context.Context, req PackingRequest) domain.PackingList {
	prompt := fmt.Sprintf(`Create a packing list for a %d-day %s trip to %s.

Return a JSON object with categories:
{
  "essentials": ["item1", "item2"],
  "clothing": ["item1", "item2"],
  "toiletries": ["item1", "item2"],
  "electronics": ["item1", "item2"],
  "documents": ["item1", "item2"],
  "misc": ["item1", "item2"]
}

Keep each category to 5-8 items. Only return the JSON.`,
		req.Duration, orDefault(req.TripType, domain.DefaultTripType), strings.Join(req.Destinations, ", "))

	var out domain.PackingList
	if err := s.completeJSON(ctx, prompt, &out); err != nil || out.IsEmpty() {
		s.fallback(kindPackingList, err)
		return DefaultPackingList()
	}
	return normalizePackingList(out)
}

// TravelTips returns practical advice for a destination.
func (s *SuggestionService) TravelTips(ctx context.Context, cityName, country string) []domain.Tip {
	prompt := fmt.Sprintf(`Give 5 essential travel tips for visiting %s, %s.

Return a JSON array:
[
  {
    "tip": "Tip text",
    "category": "safety|money|culture|transport|food"
  }
]

Only return the JSON array.`, cityName, country)

	var out []domain.Tip
	if err := s.completeJSON(ctx, prompt, &out); err != nil {
		s.fallback(kindTravelTips, err)
		return []domain.Tip{}
	}
	if out == nil {
		return []domain.Tip{}
	}
	return out
}

func (s *SuggestionService) complete(ctx context.Context, prompt string) (string, error) {
	if s.provider == nil {
		return "", errors.New("no suggestion provider configured")
	}
	return s.provider.Complete(ctx, prompt)
}

func (s *SuggestionService) completeJSON(ctx context.Context, prompt string, dst any) error {
	reply, err := s.complete(ctx, prompt)
	if err != nil {
		return err
	}
	return decodeReply(reply, dst)
}

func (s *SuggestionService) fallback(kind string, err error) {
	if err == nil {
		err = errors.New("reply was empty")
	}
	s.logger.Warn("suggestion fallback", "kind", kind, "error", err)
	s.fallbacks.WithLabelValues(kind).Inc()
}

// decodeReply decodes a model reply into dst. Replies are often wrapped in
// Markdown code fences or surrounded by prose, so after a strict attempt on
// the unfenced text it retries on the outermost [...] or {...} span.
func decodeReply(reply string, dst any) error {
	text := stripFences(reply)
	if json.Unmarshal([]byte(text), dst) == nil {
		return nil
	}

	opening, closing := byte('{'), byte('}')
	if reflect.TypeOf(dst).Elem().Kind() == reflect.Slice {
		opening, closing = '[', ']'
	}
	start := strings.IndexByte(text, opening)
	end := strings.LastIndexByte(text, closing)
	if start < 0 || end <= start {
		return errUndecodable
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), dst); err != nil {
		return fmt.Errorf("%w: %v", errUndecodable, err)
	}
	return nil
}

// stripFences removes a surrounding ``` or ```json fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// DefaultSuggestions is the fallback for Suggestions.
func DefaultSuggestions(cityName string) []domain.Suggestion {
	return []domain.Suggestion{
		{Name: "Explore " + cityName + " Old Town", Type: "sightseeing", Duration: 180, EstimatedCost: 0, Description: "Discover the historic heart of the city"},
		{Name: "Local Food Tour", Type: "food", Duration: 120, EstimatedCost: 800, Description: "Taste authentic local cuisine"},
		{Name: "Sunset Viewpoint", Type: "experience", Duration: 90, EstimatedCost: 200, Description: "Enjoy panoramic views at golden hour"},
		{Name: "Local Market Visit", Type: "shopping", Duration: 120, EstimatedCost: 1000, Description: "Shop for local crafts and souvenirs"},
		{Name: "Cultural Performance", Type: "entertainment", Duration: 120, EstimatedCost: 500, Description: "Experience traditional arts and music"},
	}
}

// DefaultPackingList is the fallback for PackingList.
func DefaultPackingList() domain.PackingList {
	return domain.PackingList{
		Essentials:  []string{"Passport", "Wallet", "Phone", "Charger", "Medications"},
		Clothing:    []string{"Comfortable shoes", "Light jacket", "Casual wear", "Sleepwear"},
		Toiletries:  []string{"Toothbrush", "Sunscreen", "Shampoo", "Deodorant"},
		Electronics: []string{"Phone charger", "Power bank", "Camera", "Headphones"},
		Documents:   []string{"ID copies", "Travel insurance", "Booking confirmations", "Emergency contacts"},
		Misc:        []string{"Snacks", "Water bottle", "Umbrella", "First aid kit"},
	}
}

func normalizePackingList(p domain.PackingList) domain.PackingList {
	for _, cat := range []*[]string{&p.Essentials, &p.Clothing, &p.Toiletries, &p.Electronics, &p.Documents, &p.Misc} {
		if *cat == nil {
			*cat = []string{}
		}
	}
	return p
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
