package models

import "time"

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type Activity struct {
	Time        string       `json:"time" bson:"time"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	Location    string       `json:"location" bson:"location"`
	Duration    string       `json:"duration" bson:"duration"`
	Cost        float64      `json:"cost" bson:"cost"`
	Type        string       `json:"type" bson:"type"` // activity | arrival | departure
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type Meal struct {
	Restaurant string  `json:"restaurant" bson:"restaurant"`
	Cuisine    string  `json:"cuisine" bson:"cuisine"`
	Cost       float64 `json:"cost" bson:"cost"`
	Location   string  `json:"location" bson:"location"`
}

type Meals struct {
	Breakfast Meal `json:"breakfast" bson:"breakfast"`
	Lunch     Meal `json:"lunch" bson:"lunch"`
	Dinner    Meal `json:"dinner" bson:"dinner"`
}

type Accommodation struct {
	Name          string   `json:"name" bson:"name"`
	Type          string   `json:"type" bson:"type"`
	Address       string   `json:"address" bson:"address"`
	CheckIn       string   `json:"checkIn" bson:"checkIn"`
	CheckOut      string   `json:"checkOut" bson:"checkOut"`
	PricePerNight float64  `json:"pricePerNight" bson:"pricePerNight"`
	Amenities     []string `json:"amenities" bson:"amenities"`
	Rating        float64  `json:"rating" bson:"rating"`
}

type TransportLeg struct {
	Type      string  `json:"type" bson:"type"`
	From      string  `json:"from" bson:"from"`
	To        string  `json:"to" bson:"to"`
	Departure string  `json:"departure" bson:"departure"`
	Arrival   string  `json:"arrival" bson:"arrival"`
	Cost      float64 `json:"cost" bson:"cost"`
	Airline   string  `json:"airline,omitempty" bson:"airline,omitempty"`
	Class     string  `json:"class,omitempty" bson:"class,omitempty"`
}

type LocalTransport struct {
	Type           string  `json:"type" bson:"type"`
	Provider       string  `json:"provider" bson:"provider"`
	CostPerDay     float64 `json:"costPerDay" bson:"costPerDay"`
	PickupLocation string  `json:"pickupLocation" bson:"pickupLocation"`
}

type Transportation struct {
	Outbound TransportLeg   `json:"outbound" bson:"outbound"`
	Local    LocalTransport `json:"local" bson:"local"`
}

// DailyPlan is one calendar day of the itinerary. Accommodation and
// transportation are present only on day 1.
type DailyPlan struct {
	Day            int             `json:"day" bson:"day"`
	Date           string          `json:"date" bson:"date"`
	Activities     []Activity      `json:"activities" bson:"activities"`
	Meals          Meals           `json:"meals" bson:"meals"`
	Accommodation  *Accommodation  `json:"accommodation,omitempty" bson:"accommodation,omitempty"`
	Transportation *Transportation `json:"transportation,omitempty" bson:"transportation,omitempty"`
}

// Itinerary is the complete synthesized trip plan. TotalCost is always
// recomputed server-side from the daily plans, never taken from the model.
type Itinerary struct {
	ID          string      `json:"id" bson:"id"`
	Destination string      `json:"destination" bson:"destination"`
	StartDate   string      `json:"startDate" bson:"startDate"`
	EndDate     string      `json:"endDate" bson:"endDate"`
	Budget      float64     `json:"budget" bson:"budget"`
	Travelers   int         `json:"travelers" bson:"travelers"`
	Preferences []string    `json:"preferences" bson:"preferences"`
	DailyPlans  []DailyPlan `json:"dailyPlans" bson:"dailyPlans"`
	TotalCost   int         `json:"totalCost" bson:"totalCost"`
	Currency    string      `json:"currency" bson:"currency"`
	CreatedAt   string      `json:"createdAt" bson:"createdAt"`
}

// SavedItinerary is an Itinerary persisted to a user's account.
type SavedItinerary struct {
	Itinerary `bson:",inline"`
	UserID    string    `json:"userId" bson:"userId"`
	SavedAt   time.Time `json:"savedAt" bson:"savedAt"`
	Favorite  bool      `json:"isFavorite" bson:"isFavorite"`
}

// PlaceResult is a single search-engine result describing a candidate
// restaurant, hotel, or attraction.
type PlaceResult struct {
	Title   string  `json:"title"`
	Link    string  `json:"link"`
	Snippet string  `json:"snippet"`
	Rating  float64 `json:"rating,omitempty"`
	Price   string  `json:"price,omitempty"`
	Type    string  `json:"type,omitempty"`
}

type Room struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Rates []Rate `json:"rates"`
}

type Rate struct {
	RateKey              string               `json:"rateKey"`
	RateClass            string               `json:"rateClass"`
	RateType             string               `json:"rateType"`
	Net                  float64              `json:"net"`
	SellingRate          float64              `json:"sellingRate"`
	BoardCode            string               `json:"boardCode"`
	BoardName            string               `json:"boardName"`
	CancellationPolicies []CancellationPolicy `json:"cancellationPolicies,omitempty"`
}

type CancellationPolicy struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
}

// HotelAvailability is a priced hotel inventory entry. MinRate and MaxRate
// are 0 when the hotel carries no rates: 0 means "unpriced", not "free".
type HotelAvailability struct {
	Code         int     `json:"code"`
	Name         string  `json:"name"`
	CategoryCode string  `json:"categoryCode"`
	CategoryName string  `json:"categoryName"`
	Latitude     string  `json:"latitude"`
	Longitude    string  `json:"longitude"`
	Address      string  `json:"address,omitempty"`
	City         string  `json:"city,omitempty"`
	Rooms        []Room  `json:"rooms"`
	MinRate      float64 `json:"minRate"`
	MaxRate      float64 `json:"maxRate"`
	Currency     string  `json:"currency"`
	Images       []string `json:"images,omitempty"`
	Description  string  `json:"description,omitempty"`
}
