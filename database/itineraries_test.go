package database

import (
	"testing"
	"time"

	"wanderplan/models"
)

func TestSortBySavedAtDescending(t *testing.T) {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	items := []models.SavedItinerary{
		{Itinerary: models.Itinerary{ID: "middle"}, SavedAt: base.Add(time.Hour)},
		{Itinerary: models.Itinerary{ID: "oldest"}, SavedAt: base},
		{Itinerary: models.Itinerary{ID: "newest"}, SavedAt: base.Add(48 * time.Hour)},
	}

	SortBySavedAt(items)

	want := []string{"newest", "middle", "oldest"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("items[%d].ID = %q, want %q", i, items[i].ID, id)
		}
	}
}

func TestSortBySavedAtMissingTimestampSortsOldest(t *testing.T) {
	items := []models.SavedItinerary{
		{Itinerary: models.Itinerary{ID: "no-timestamp"}}, // zero SavedAt
		{Itinerary: models.Itinerary{ID: "saved"}, SavedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	SortBySavedAt(items)

	if items[0].ID != "saved" {
		t.Fatalf("expected timestamped record first, got %q", items[0].ID)
	}
	if items[1].ID != "no-timestamp" {
		t.Fatalf("expected missing-timestamp record last, got %q", items[1].ID)
	}
}
