package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wanderplan/errdefs"
	"wanderplan/models"
)

func TestTripLengthDays(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		want    int
		wantErr bool
	}{
		{"same day", "2026-06-01", "2026-06-01", 1, false},
		{"three days", "2026-06-01", "2026-06-03", 3, false},
		{"week", "2026-06-01", "2026-06-07", 7, false},
		{"end before start", "2026-06-05", "2026-06-01", 0, true},
		{"bad start format", "06/01/2026", "2026-06-03", 0, true},
		{"bad end format", "2026-06-01", "June 3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TripLengthDays(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !errdefs.IsKind(err, errdefs.KindInvalidInput) {
					t.Fatalf("expected invalid-input kind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("TripLengthDays(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func twoDayPlan() []models.DailyPlan {
	meals := func(total float64) models.Meals {
		each := total / 3
		return models.Meals{
			Breakfast: models.Meal{Restaurant: "A", Cost: each},
			Lunch:     models.Meal{Restaurant: "B", Cost: each},
			Dinner:    models.Meal{Restaurant: "C", Cost: each},
		}
	}
	return []models.DailyPlan{
		{
			Day:        1,
			Activities: []models.Activity{{Title: "x", Cost: 10}, {Title: "y", Cost: 15}},
			Meals:      meals(90),
			Accommodation: &models.Accommodation{
				Name:          "Hotel",
				PricePerNight: 100,
			},
			Transportation: &models.Transportation{
				Outbound: models.TransportLeg{Cost: 300},
				Local:    models.LocalTransport{CostPerDay: 40},
			},
		},
		{
			Day:        2,
			Activities: []models.Activity{{Title: "z", Cost: 5}},
			Meals:      meals(90),
		},
	}
}

func TestComputeTotalCost(t *testing.T) {
	// (10+15+90) + (5+90) + 100*2 + 300 + 40*2 = 790
	if got := computeTotalCost(twoDayPlan(), 2); got != 790 {
		t.Fatalf("computeTotalCost = %d, want 790", got)
	}
}

func TestNormalizeDayOneExtras(t *testing.T) {
	plans := twoDayPlan()
	plans[1].Accommodation = &models.Accommodation{Name: "Should go"}
	plans[1].Transportation = &models.Transportation{}

	normalizeDayOneExtras(plans)

	if plans[0].Accommodation == nil || plans[0].Transportation == nil {
		t.Fatal("day 1 must keep accommodation and transportation")
	}
	for i := 1; i < len(plans); i++ {
		if plans[i].Accommodation != nil || plans[i].Transportation != nil {
			t.Fatalf("day %d must carry no accommodation or transportation", i+1)
		}
	}
}

func TestApplyPlaceholderCoordinates(t *testing.T) {
	plans := []models.DailyPlan{{
		Activities: []models.Activity{
			{Title: "has coords", Coordinates: &models.Coordinates{Lat: 48.8584, Lng: 2.2945}},
			{Title: "missing coords"},
		},
	}}

	applyPlaceholderCoordinates(plans)

	if got := plans[0].Activities[0].Coordinates; got.Lat != 48.8584 {
		t.Fatalf("existing coordinates were overwritten: %+v", got)
	}
	got := plans[0].Activities[1].Coordinates
	if got == nil {
		t.Fatal("every activity must end with coordinates populated")
	}
	if *got != placeholderCoordinates {
		t.Fatalf("placeholder = %+v, want %+v", *got, placeholderCoordinates)
	}
}

func TestStripCodeFence(t *testing.T) {
	want := `{"dailyPlans":[]}`
	inputs := []string{
		want,
		"```json\n" + want + "\n```",
		"```\n" + want + "\n```",
		"  \n```json\n" + want + "\n```  ",
	}
	for _, in := range inputs {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

const validDayJSON = `{
  "day": 1,
  "date": "2026-06-01",
  "activities": [{"time": "09:00", "title": "Louvre", "cost": 25, "type": "activity"}],
  "meals": {
    "breakfast": {"restaurant": "Cafe", "cuisine": "French", "cost": 15, "location": "Center"},
    "lunch": {"restaurant": "Bistro", "cuisine": "French", "cost": 25, "location": "Center"},
    "dinner": {"restaurant": "Brasserie", "cuisine": "French", "cost": 45, "location": "Center"}
  }
}`

func TestParseDailyPlansMissingMeal(t *testing.T) {
	raw := `{"dailyPlans": [{
		"day": 1,
		"date": "2026-06-01",
		"activities": [],
		"meals": {
			"breakfast": {"restaurant": "Cafe", "cost": 15},
			"lunch": {"restaurant": "Bistro", "cost": 25}
		}
	}]}`

	_, err := parseDailyPlans(raw)
	if err == nil {
		t.Fatal("expected a response-format error")
	}
	if !errdefs.IsKind(err, errdefs.KindResponseFormat) {
		t.Fatalf("expected response-format kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "dailyPlans[0].meals.dinner") {
		t.Fatalf("error should name the missing field, got %q", err.Error())
	}
}

func TestParseDailyPlansMissingMealsObject(t *testing.T) {
	raw := `{"dailyPlans": [{"day": 1, "date": "2026-06-01", "activities": []}]}`
	_, err := parseDailyPlans(raw)
	if !errdefs.IsKind(err, errdefs.KindResponseFormat) {
		t.Fatalf("expected response-format kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "dailyPlans[0].meals") {
		t.Fatalf("error should name the missing field, got %q", err.Error())
	}
}

func TestParseDailyPlansNotJSON(t *testing.T) {
	_, err := parseDailyPlans("Here is your itinerary! Have a great trip.")
	if !errdefs.IsKind(err, errdefs.KindResponseFormat) {
		t.Fatalf("expected response-format kind, got %v", err)
	}
}

func TestParseDailyPlansEmpty(t *testing.T) {
	_, err := parseDailyPlans(`{"dailyPlans": []}`)
	if !errdefs.IsKind(err, errdefs.KindResponseFormat) {
		t.Fatalf("expected response-format kind, got %v", err)
	}
}

func TestBudgetGuidanceTiers(t *testing.T) {
	if !strings.Contains(budgetGuidance(600), "luxury") {
		t.Fatal("per-day > 500 should read as a high budget")
	}
	if !strings.Contains(budgetGuidance(350), "mid-range") {
		t.Fatal("per-day in [200, 500] should read as a medium budget")
	}
	if !strings.Contains(budgetGuidance(120), "value-oriented") {
		t.Fatal("per-day < 200 should read as a modest budget")
	}
}

func TestBuildPromptContents(t *testing.T) {
	prefs := models.TripPreferences{
		Destination: "Paris",
		HomeCity:    "Boston",
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-03",
		Budget:      2400,
		Travelers:   2,
		Preferences: []string{"museums", "food"},
		TravelStyle: "balanced",
		Pace:        "moderate",
	}
	data := &DestinationData{
		Restaurants: []models.PlaceResult{{Title: "Le Comptoir", Snippet: "classic bistro"}},
		Hotels:      []models.PlaceResult{{Title: "Hotel Lutetia", Snippet: "left bank"}},
		Attractions: []models.PlaceResult{{Title: "Louvre", Snippet: "world-class museum"}},
	}
	hotels := []models.HotelAvailability{{Name: "Novotel Paris", CategoryName: "4 STARS", MinRate: 151.4, MaxRate: 420.9, Currency: "EUR"}}

	prompt := buildPrompt(prefs, 3, data, hotels)

	for _, want := range []string{
		"3-day vacation itinerary for Paris",
		"between 80% and 95% of the $2400 budget",
		"Le Comptoir",
		"Hotel Lutetia",
		"Louvre",
		"Novotel Paris",
		"$151 to $421 per night",
		"Only include accommodation and transportation for day 1",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}

	// Without enrichment data, the verified-places section must not appear.
	bare := buildPrompt(prefs, 3, nil, nil)
	if strings.Contains(bare, "REAL GOOGLE DATA") || strings.Contains(bare, "LIVE HOTEL AVAILABILITY") {
		t.Fatal("bare prompt must not claim real data")
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	planJSON := `{"totalCost": 99999, "dailyPlans": [` + validDayJSON + `,` + strings.Replace(validDayJSON, `"day": 1`, `"day": 2`, 1) + `]}`

	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "gpt-4o-mini" {
			t.Errorf("model = %v", req["model"])
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "```json\n" + planJSON + "\n```"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer llmServer.Close()

	planner := &Planner{
		LLM: NewLLMClient("sk-test", llmServer.URL, "gpt-4o-mini", 0.7, 4000, llmServer.Client()),
	}

	prefs := models.TripPreferences{
		Destination: "Paris",
		HomeCity:    "Boston",
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-02",
		Budget:      2000,
		Travelers:   2,
		TravelStyle: "balanced",
		Pace:        "moderate",
	}

	it, err := planner.Generate(context.Background(), prefs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(it.DailyPlans) != 2 {
		t.Fatalf("len(DailyPlans) = %d, want 2", len(it.DailyPlans))
	}
	// Two days, each 25 in activities and 85 in meals: the model's bogus
	// totalCost of 99999 is ignored.
	if it.TotalCost != 220 {
		t.Fatalf("TotalCost = %d, want 220", it.TotalCost)
	}
	if it.Currency != "USD" {
		t.Fatalf("Currency = %q", it.Currency)
	}
	if it.ID == "" || it.CreatedAt == "" {
		t.Fatal("id and createdAt must be set")
	}
	for _, day := range it.DailyPlans {
		for _, act := range day.Activities {
			if act.Coordinates == nil {
				t.Fatal("every activity must carry coordinates")
			}
		}
	}
}

func TestGenerateWithoutLLMKey(t *testing.T) {
	planner := &Planner{LLM: NewLLMClient("", "http://unused", "gpt-4o-mini", 0.7, 4000, nil)}
	_, err := planner.Generate(context.Background(), models.TripPreferences{
		StartDate: "2026-06-01", EndDate: "2026-06-02",
	})
	if !errdefs.IsKind(err, errdefs.KindNotConfigured) {
		t.Fatalf("expected not-configured kind, got %v", err)
	}
}

func TestGenerateInvalidDateRange(t *testing.T) {
	planner := &Planner{LLM: NewLLMClient("sk-test", "http://unused", "gpt-4o-mini", 0.7, 4000, nil)}
	_, err := planner.Generate(context.Background(), models.TripPreferences{
		StartDate: "2026-06-05", EndDate: "2026-06-01",
	})
	if !errdefs.IsKind(err, errdefs.KindInvalidInput) {
		t.Fatalf("expected invalid-input kind, got %v", err)
	}
}
