package models

// TripPreferences is the immutable input to a generation request.
type TripPreferences struct {
	Destination    string   `json:"destination" binding:"required"`
	HomeCity       string   `json:"homeCity" binding:"required"`
	StartDate      string   `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate        string   `json:"endDate" binding:"required"`   // YYYY-MM-DD
	Budget         float64  `json:"budget" binding:"required,gt=0"`
	Travelers      int      `json:"travelers" binding:"required,gte=1"`
	Preferences    []string `json:"preferences"`
	TravelStyle    string   `json:"travelStyle" binding:"required,oneof=luxury balanced budget"`
	Pace           string   `json:"pace" binding:"required,oneof=relaxed moderate fast"`
	CustomRequests string   `json:"customRequests"`
}
