package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"wanderplan/errdefs"
	"wanderplan/models"
)

const dateLayout = "2006-01-02"

// Where the model supplies no usable coordinates, every activity still ends
// with a populated pair. A real geocoding lookup can replace this default.
var placeholderCoordinates = models.Coordinates{Lat: 40.7128, Lng: -74.0060}

// Planner synthesizes an itinerary from trip preferences. The LLM client is
// the only hard requirement; search and hotel data are optional
// enrichments, skipped when unconfigured and swallowed when they fail.
type Planner struct {
	LLM    *LLMClient
	Search *SearchClient
	Hotels *HotelbedsClient
}

// TripLengthDays computes the inclusive day count of a date range: one
// daily plan per calendar day, a same-day trip counting as 1.
func TripLengthDays(startDate, endDate string) (int, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, errdefs.InvalidDateRange("invalid start date, use YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, errdefs.InvalidDateRange("invalid end date, use YYYY-MM-DD")
	}
	if end.Before(start) {
		return 0, errdefs.InvalidDateRange("end date must not be before start date")
	}
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1, nil
}

// Generate runs the full synthesis sequence and returns the assembled
// itinerary. All failures are terminal for this attempt; retry policy
// belongs to the caller.
func (p *Planner) Generate(ctx context.Context, prefs models.TripPreferences) (*models.Itinerary, error) {
	if !p.LLM.Configured() {
		return nil, errdefs.NotConfigured("OpenAI")
	}

	days, err := TripLengthDays(prefs.StartDate, prefs.EndDate)
	if err != nil {
		return nil, err
	}

	// Both enrichments run concurrently; neither aborts the other, and
	// absence of either never blocks synthesis.
	var (
		wg     sync.WaitGroup
		data   *DestinationData
		hotels []models.HotelAvailability
	)
	if p.Search.Configured() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := p.Search.DestinationData(ctx, prefs.Destination, prefs.Budget, prefs.Preferences)
			if err != nil {
				log.WithError(err).Warn("destination search failed, generating without place data")
				return
			}
			data = d
		}()
	}
	if p.Hotels.Configured() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := p.Hotels.Availability(ctx, AvailabilityParams{
				Destination: prefs.Destination,
				CheckIn:     prefs.StartDate,
				CheckOut:    prefs.EndDate,
				Adults:      prefs.Travelers,
				Rooms:       1,
			})
			if err != nil {
				log.WithError(err).Warn("hotel availability failed, generating without live inventory")
				return
			}
			hotels = h
		}()
	}
	wg.Wait()

	raw, err := p.LLM.CompleteJSON(ctx, systemPrompt(data != nil), buildPrompt(prefs, days, data, hotels))
	if err != nil {
		return nil, err
	}

	plans, err := parseDailyPlans(raw)
	if err != nil {
		return nil, err
	}

	normalizeDayOneExtras(plans)
	applyPlaceholderCoordinates(plans)

	return &models.Itinerary{
		ID:          uuid.New().String(),
		Destination: prefs.Destination,
		StartDate:   prefs.StartDate,
		EndDate:     prefs.EndDate,
		Budget:      prefs.Budget,
		Travelers:   prefs.Travelers,
		Preferences: prefs.Preferences,
		DailyPlans:  plans,
		TotalCost:   computeTotalCost(plans, days),
		Currency:    "USD",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// budgetGuidance selects prompt wording from spend per day. It steers text
// only, never the structure of the result.
func budgetGuidance(perDay float64) string {
	switch {
	case perDay > 500:
		return "This is a high budget: favor luxury hotels, fine dining, and premium experiences."
	case perDay >= 200:
		return "This is a medium budget: favor comfortable mid-range hotels, well-reviewed restaurants, and a mix of paid and free activities."
	default:
		return "This is a modest budget: favor value-oriented stays, local eateries, and free or low-cost activities."
	}
}

func systemPrompt(hasRealData bool) string {
	var b strings.Builder
	b.WriteString("You are an expert travel planner")
	if hasRealData {
		b.WriteString(" with access to real Google search data. You have been provided with real restaurants, hotels, and attractions. Use ONLY these real places in your itinerary")
	}
	b.WriteString(". Generate detailed, realistic, personalized vacation itineraries. CRITICAL: Respond with ONLY valid JSON. Do not include any markdown formatting, code blocks, or explanatory text. Start directly with { and end with }.")
	return b.String()
}

func writePlaces(b *strings.Builder, heading string, places []models.PlaceResult, limit int) {
	if len(places) > limit {
		places = places[:limit]
	}
	fmt.Fprintf(b, "\n%s (%d verified):\n", heading, len(places))
	for i, p := range places {
		fmt.Fprintf(b, "%d. %s\n   %s\n", i+1, p.Title, p.Snippet)
	}
}

func buildPrompt(prefs models.TripPreferences, days int, data *DestinationData, hotels []models.HotelAvailability) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a detailed %d-day vacation itinerary for %s.\n\n", days, prefs.Destination)
	fmt.Fprintf(&b, "Trip Details:\n")
	fmt.Fprintf(&b, "- Home City/Airport: %s\n", prefs.HomeCity)
	fmt.Fprintf(&b, "- Destination: %s\n", prefs.Destination)
	fmt.Fprintf(&b, "- Dates: %s to %s\n", prefs.StartDate, prefs.EndDate)
	fmt.Fprintf(&b, "- Budget: $%.0f USD\n", prefs.Budget)
	fmt.Fprintf(&b, "- Travelers: %d people\n", prefs.Travelers)
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(prefs.Preferences, ", "))
	fmt.Fprintf(&b, "- Travel Style: %s\n", prefs.TravelStyle)
	fmt.Fprintf(&b, "- Trip Pace: %s\n", prefs.Pace)
	if prefs.CustomRequests != "" {
		fmt.Fprintf(&b, "- Custom Requests: %s\n", prefs.CustomRequests)
	}
	fmt.Fprintf(&b, "- %s\n", budgetGuidance(prefs.Budget/float64(days)))

	if data != nil {
		b.WriteString("\nREAL GOOGLE DATA - USE THESE ACTUAL PLACES:\n")
		writePlaces(&b, "RESTAURANTS", data.Restaurants, 15)
		writePlaces(&b, "HOTELS", data.Hotels, 8)
		writePlaces(&b, "ATTRACTIONS", data.Attractions, 15)
		b.WriteString("\nIMPORTANT: Use ONLY the places listed above. Extract exact names from the titles.\n")
	}

	if len(hotels) > 0 {
		limited := hotels
		if len(limited) > 10 {
			limited = limited[:10]
		}
		b.WriteString("\nLIVE HOTEL AVAILABILITY - real, bookable hotels with current nightly prices:\n")
		for i, h := range limited {
			fmt.Fprintf(&b, "%d. %s (%s) - $%.0f to $%.0f per night (%s)\n",
				i+1, h.Name, h.CategoryName, math.Round(h.MinRate), math.Round(h.MaxRate), h.Currency)
		}
		b.WriteString("Prefer these hotels for the accommodation choice and use their real prices.\n")
	}

	fmt.Fprintf(&b, `
For each day, provide:
1. 3-4 activities with specific times, locations, descriptions, and estimated costs
2. Restaurant recommendations for breakfast, lunch, and dinner with cuisine types and costs
3. For day 1 only: accommodation details (hotel name, type, amenities, price per night) and transportation (flight details, local transport)

The total itinerary cost must fall between 80%% and 95%% of the $%.0f budget.

Format the response as a JSON object with this structure:
{
  "dailyPlans": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "time": "09:00",
          "title": "Activity Name",
          "description": "Detailed description",
          "location": "Specific location",
          "duration": "2 hours",
          "cost": 25,
          "type": "activity"
        }
      ],
      "meals": {
        "breakfast": {"restaurant": "Name", "cuisine": "Type", "cost": 15, "location": "Area"},
        "lunch": {"restaurant": "Name", "cuisine": "Type", "cost": 25, "location": "Area"},
        "dinner": {"restaurant": "Name", "cuisine": "Type", "cost": 45, "location": "Area"}
      },
      "accommodation": {
        "name": "Hotel Name",
        "type": "4-Star Hotel",
        "address": "Full address",
        "checkIn": "15:00",
        "checkOut": "11:00",
        "pricePerNight": 150,
        "amenities": ["WiFi", "Pool", "Gym"],
        "rating": 4.5
      },
      "transportation": {
        "outbound": {
          "type": "Flight",
          "from": "%s",
          "to": "%s",
          "departure": "08:00",
          "arrival": "12:00",
          "cost": 450,
          "airline": "Airline Name",
          "class": "Economy"
        },
        "local": {
          "type": "Car Rental",
          "provider": "Provider Name",
          "costPerDay": 50,
          "pickupLocation": "Airport"
        }
      }
    }
  ]
}

Make it realistic, locally accurate, and within the budget. Include one daily plan per calendar day of the trip. Only include accommodation and transportation for day 1.`,
		prefs.Budget, prefs.HomeCity, prefs.Destination)

	return b.String()
}

// stripCodeFence removes a wrapping markdown code block. The model
// sometimes wraps output despite the JSON-only instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Parse-time shapes: pointers distinguish "absent" from "zero" so the
// validation step can name every missing field.
type rawMeals struct {
	Breakfast *models.Meal `json:"breakfast"`
	Lunch     *models.Meal `json:"lunch"`
	Dinner    *models.Meal `json:"dinner"`
}

type rawDay struct {
	Day            int                    `json:"day"`
	Date           string                 `json:"date"`
	Activities     *[]models.Activity     `json:"activities"`
	Meals          *rawMeals              `json:"meals"`
	Accommodation  *models.Accommodation  `json:"accommodation"`
	Transportation *models.Transportation `json:"transportation"`
}

type rawPlan struct {
	DailyPlans []rawDay `json:"dailyPlans"`
}

// parseDailyPlans strips formatting, parses the model output, and validates
// its shape. Any structural problem is a ResponseFormat failure; a partial
// itinerary is never returned.
func parseDailyPlans(response string) ([]models.DailyPlan, error) {
	cleaned := stripCodeFence(response)

	var parsed rawPlan
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, errdefs.ResponseFormat(err)
	}

	var invalid []string
	if len(parsed.DailyPlans) == 0 {
		invalid = append(invalid, "dailyPlans")
	}
	for i, day := range parsed.DailyPlans {
		if day.Activities == nil {
			invalid = append(invalid, fmt.Sprintf("dailyPlans[%d].activities", i))
		}
		if day.Meals == nil {
			invalid = append(invalid, fmt.Sprintf("dailyPlans[%d].meals", i))
			continue
		}
		if day.Meals.Breakfast == nil {
			invalid = append(invalid, fmt.Sprintf("dailyPlans[%d].meals.breakfast", i))
		}
		if day.Meals.Lunch == nil {
			invalid = append(invalid, fmt.Sprintf("dailyPlans[%d].meals.lunch", i))
		}
		if day.Meals.Dinner == nil {
			invalid = append(invalid, fmt.Sprintf("dailyPlans[%d].meals.dinner", i))
		}
	}
	if len(invalid) > 0 {
		return nil, errdefs.ResponseShape(invalid)
	}

	plans := make([]models.DailyPlan, 0, len(parsed.DailyPlans))
	for _, day := range parsed.DailyPlans {
		plans = append(plans, models.DailyPlan{
			Day:        day.Day,
			Date:       day.Date,
			Activities: *day.Activities,
			Meals: models.Meals{
				Breakfast: *day.Meals.Breakfast,
				Lunch:     *day.Meals.Lunch,
				Dinner:    *day.Meals.Dinner,
			},
			Accommodation:  day.Accommodation,
			Transportation: day.Transportation,
		})
	}
	return plans, nil
}

// normalizeDayOneExtras enforces that only day 1 carries accommodation and
// transportation, regardless of what the model emitted.
func normalizeDayOneExtras(plans []models.DailyPlan) {
	for i := range plans {
		if i == 0 {
			continue
		}
		plans[i].Accommodation = nil
		plans[i].Transportation = nil
	}
}

func applyPlaceholderCoordinates(plans []models.DailyPlan) {
	for i := range plans {
		for j := range plans[i].Activities {
			if plans[i].Activities[j].Coordinates == nil {
				c := placeholderCoordinates
				plans[i].Activities[j].Coordinates = &c
			}
		}
	}
}

// computeTotalCost recomputes the trip total from the daily plans: activity
// and meal costs per day, plus nightly accommodation and transportation
// counted once over the trip length. Any total the model emitted is
// ignored.
func computeTotalCost(plans []models.DailyPlan, days int) int {
	var total float64
	for _, day := range plans {
		for _, act := range day.Activities {
			total += act.Cost
		}
		total += day.Meals.Breakfast.Cost + day.Meals.Lunch.Cost + day.Meals.Dinner.Cost
		if day.Accommodation != nil {
			total += day.Accommodation.PricePerNight * float64(days)
		}
		if day.Transportation != nil {
			total += day.Transportation.Outbound.Cost
			total += day.Transportation.Local.CostPerDay * float64(days)
		}
	}
	return int(math.Round(total))
}
