package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"wanderplan/models"
)

// ItineraryPDF renders a saved itinerary as PDF bytes. Nothing touches the
// filesystem; the document is rebuilt on demand from the stored record.
func ItineraryPDF(it *models.SavedItinerary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Header bar
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "Wanderplan", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "AI-Generated Vacation Itinerary", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	line := func(text string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(170, 5, text, "", "L", false)
	}

	sectionHeader("Trip Summary")
	row("Destination", it.Destination)
	row("Dates", fmt.Sprintf("%s to %s", it.StartDate, it.EndDate))
	row("Travelers", fmt.Sprintf("%d", it.Travelers))
	row("Budget", fmt.Sprintf("$%.0f %s", it.Budget, it.Currency))
	row("Estimated Total", fmt.Sprintf("$%d %s", it.TotalCost, it.Currency))
	pdf.Ln(4)

	for _, day := range it.DailyPlans {
		// Keep each day header attached to at least some of its content.
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}
		sectionHeader(fmt.Sprintf("Day %d - %s", day.Day, day.Date))

		for _, act := range day.Activities {
			line(fmt.Sprintf("%s  %s ($%.0f, %s) - %s", act.Time, act.Title, act.Cost, act.Duration, act.Location))
		}
		pdf.Ln(1)
		line(fmt.Sprintf("Breakfast: %s (%s, $%.0f)", day.Meals.Breakfast.Restaurant, day.Meals.Breakfast.Cuisine, day.Meals.Breakfast.Cost))
		line(fmt.Sprintf("Lunch: %s (%s, $%.0f)", day.Meals.Lunch.Restaurant, day.Meals.Lunch.Cuisine, day.Meals.Lunch.Cost))
		line(fmt.Sprintf("Dinner: %s (%s, $%.0f)", day.Meals.Dinner.Restaurant, day.Meals.Dinner.Cuisine, day.Meals.Dinner.Cost))

		if day.Accommodation != nil {
			pdf.Ln(1)
			line(fmt.Sprintf("Stay: %s (%s), $%.0f/night, rated %.1f - %s",
				day.Accommodation.Name, day.Accommodation.Type,
				day.Accommodation.PricePerNight, day.Accommodation.Rating,
				day.Accommodation.Address))
		}
		if day.Transportation != nil {
			out := day.Transportation.Outbound
			local := day.Transportation.Local
			line(fmt.Sprintf("Travel: %s %s to %s, departs %s arrives %s, $%.0f",
				out.Type, out.From, out.To, out.Departure, out.Arrival, out.Cost))
			line(fmt.Sprintf("Local: %s via %s, $%.0f/day, pickup %s",
				local.Type, local.Provider, local.CostPerDay, local.PickupLocation))
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
