package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"wanderplan/errdefs"
	"wanderplan/models"
)

// HotelbedsClient talks to the Hotelbeds availability and content APIs.
// Every request carries the key plus a SHA-256 signature of
// key+secret+timestamp.
type HotelbedsClient struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewHotelbedsClient(apiKey, apiSecret, baseURL string, httpClient *http.Client) *HotelbedsClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HotelbedsClient{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    baseURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

func (c *HotelbedsClient) Configured() bool {
	return c != nil && c.apiKey != "" && c.apiSecret != ""
}

// HotelbedsSignature computes the upstream request signature:
// hex(sha256(key + secret + unix-seconds)).
func HotelbedsSignature(apiKey, apiSecret string, now time.Time) string {
	message := fmt.Sprintf("%s%s%d", apiKey, apiSecret, now.Unix())
	sum := sha256.Sum256([]byte(message))
	return hex.EncodeToString(sum[:])
}

// destinationCodes maps common city names to Hotelbeds destination codes,
// avoiding a round-trip to the content API for well-known places.
var destinationCodes = map[string]string{
	"paris":          "PAR",
	"london":         "LON",
	"new york":       "NYC",
	"tokyo":          "TYO",
	"barcelona":      "BCN",
	"rome":           "ROM",
	"amsterdam":      "AMS",
	"dubai":          "DXB",
	"madrid":         "MAD",
	"berlin":         "BER",
	"los angeles":    "LAX",
	"san francisco":  "SFO",
	"miami":          "MIA",
	"las vegas":      "LAS",
	"chicago":        "CHI",
	"boston":         "BOS",
	"seattle":        "SEA",
	"sydney":         "SYD",
	"melbourne":      "MEL",
	"singapore":      "SIN",
	"hong kong":      "HKG",
	"bangkok":        "BKK",
	"istanbul":       "IST",
	"lisbon":         "LIS",
	"prague":         "PRG",
	"vienna":         "VIE",
	"athens":         "ATH",
	"venice":         "VCE",
	"florence":       "FLR",
	"milan":          "MIL",
	"munich":         "MUC",
	"dublin":         "DUB",
	"edinburgh":      "EDI",
	"copenhagen":     "CPH",
	"stockholm":      "STO",
	"oslo":           "OSL",
	"reykjavik":      "REK",
	"cairo":          "CAI",
	"marrakech":      "RAK",
	"cancun":         "CUN",
	"mexico city":    "MEX",
	"rio de janeiro": "RIO",
	"buenos aires":   "BUE",
	"toronto":        "YTO",
	"vancouver":      "YVR",
	"montreal":       "YMQ",
}

// staticDestinationCode checks the built-in table: exact match first, then
// substring containment in either direction.
func staticDestinationCode(city string) string {
	cityLower := strings.ToLower(strings.TrimSpace(city))
	if code, ok := destinationCodes[cityLower]; ok {
		return code
	}
	for name, code := range destinationCodes {
		if strings.Contains(cityLower, name) || strings.Contains(name, cityLower) {
			return code
		}
	}
	return ""
}

func (c *HotelbedsClient) signedRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Api-key", c.apiKey)
	req.Header.Set("X-Signature", HotelbedsSignature(c.apiKey, c.apiSecret, c.now()))
	return req, nil
}

func (c *HotelbedsClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := c.signedRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errdefs.InvalidCredential("Hotelbeds", fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errdefs.RateLimited("Hotelbeds", fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, errdefs.Upstream("Hotelbeds", resp.StatusCode, fmt.Errorf("%s", respBody))
	}
	return respBody, nil
}

type destinationsResponse struct {
	Destinations []struct {
		Code    string          `json:"code"`
		Name    json.RawMessage `json:"name"`
		Content json.RawMessage `json:"content"`
	} `json:"destinations"`
}

// destinationText extracts a searchable string out of a destination field,
// which the content API returns either as a plain string or as an object
// with a "content" member. Malformed entries yield "".
func destinationText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Content
	}
	return ""
}

// ResolveDestination maps a free-text place name to a Hotelbeds destination
// code: static table first, then the remote destination directory. Entries
// that cannot be read are skipped rather than failing the lookup.
func (c *HotelbedsClient) ResolveDestination(ctx context.Context, city string) (string, error) {
	if !c.Configured() {
		return "", errdefs.NotConfigured("Hotelbeds")
	}

	if code := staticDestinationCode(city); code != "" {
		return code, nil
	}

	body, err := c.do(ctx, http.MethodGet, "/hotel-content-api/1.0/locations/destinations?fields=all&language=ENG", nil)
	if err != nil {
		return "", err
	}

	var parsed destinationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse destinations response: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(city))
	for _, dest := range parsed.Destinations {
		if dest.Code == "" {
			continue
		}
		name := strings.ToLower(destinationText(dest.Name))
		content := strings.ToLower(destinationText(dest.Content))
		if (name != "" && strings.Contains(name, needle)) ||
			(content != "" && strings.Contains(content, needle)) {
			return dest.Code, nil
		}
	}
	return "", errdefs.DestinationNotResolved(city)
}

// AvailabilityParams describes one availability request.
type AvailabilityParams struct {
	Destination string // free-text city name, resolved to a code
	CheckIn     string // YYYY-MM-DD
	CheckOut    string // YYYY-MM-DD
	Adults      int
	Children    int
	Rooms       int
}

type availabilityRequest struct {
	Stay struct {
		CheckIn  string `json:"checkIn"`
		CheckOut string `json:"checkOut"`
	} `json:"stay"`
	Occupancies []struct {
		Rooms    int `json:"rooms"`
		Adults   int `json:"adults"`
		Children int `json:"children"`
	} `json:"occupancies"`
	Destination struct {
		Code string `json:"code"`
	} `json:"destination"`
}

type availabilityResponse struct {
	Hotels struct {
		Currency string `json:"currency"`
		Hotels   []struct {
			Code         int    `json:"code"`
			Name         string `json:"name"`
			CategoryCode string `json:"categoryCode"`
			CategoryName string `json:"categoryName"`
			Latitude     string `json:"latitude"`
			Longitude    string `json:"longitude"`
			Address      string `json:"address"`
			City         string `json:"city"`
			Rooms        []struct {
				Code  string        `json:"code"`
				Name  string        `json:"name"`
				Rates []models.Rate `json:"rates"`
			} `json:"rooms"`
			Images []struct {
				Path string `json:"path"`
			} `json:"images"`
			Description struct {
				Content string `json:"content"`
			} `json:"description"`
		} `json:"hotels"`
	} `json:"hotels"`
}

// Availability resolves the destination, requests live hotel availability
// for the stay, and normalizes the nested rate data into flat per-hotel
// min/max price summaries.
func (c *HotelbedsClient) Availability(ctx context.Context, params AvailabilityParams) ([]models.HotelAvailability, error) {
	if !c.Configured() {
		return nil, errdefs.NotConfigured("Hotelbeds")
	}

	code, err := c.ResolveDestination(ctx, params.Destination)
	if err != nil {
		return nil, err
	}

	var reqBody availabilityRequest
	reqBody.Stay.CheckIn = params.CheckIn
	reqBody.Stay.CheckOut = params.CheckOut
	rooms := params.Rooms
	if rooms <= 0 {
		rooms = 1
	}
	reqBody.Occupancies = append(reqBody.Occupancies, struct {
		Rooms    int `json:"rooms"`
		Adults   int `json:"adults"`
		Children int `json:"children"`
	}{Rooms: rooms, Adults: params.Adults, Children: params.Children})
	reqBody.Destination.Code = code

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	respBody, err := c.do(ctx, http.MethodPost, "/hotel-api/1.0/hotels", body)
	if err != nil {
		return nil, err
	}

	var parsed availabilityResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse availability response: %w", err)
	}

	if len(parsed.Hotels.Hotels) == 0 {
		log.WithField("destination", code).Info("availability response carried no hotels")
		return []models.HotelAvailability{}, nil
	}

	currency := parsed.Hotels.Currency
	if currency == "" {
		currency = "USD"
	}

	hotels := make([]models.HotelAvailability, 0, len(parsed.Hotels.Hotels))
	for _, h := range parsed.Hotels.Hotels {
		out := models.HotelAvailability{
			Code:         h.Code,
			Name:         h.Name,
			CategoryCode: h.CategoryCode,
			CategoryName: h.CategoryName,
			Latitude:     h.Latitude,
			Longitude:    h.Longitude,
			Address:      h.Address,
			City:         h.City,
			Currency:     currency,
			Description:  h.Description.Content,
		}
		for _, img := range h.Images {
			out.Images = append(out.Images, img.Path)
		}

		// Flatten all room rates; min/max stay 0/0 when no rates exist,
		// meaning "unpriced", not "free".
		hasRates := false
		for _, room := range h.Rooms {
			out.Rooms = append(out.Rooms, models.Room{Code: room.Code, Name: room.Name, Rates: room.Rates})
			for _, rate := range room.Rates {
				if !hasRates {
					out.MinRate, out.MaxRate = rate.Net, rate.Net
					hasRates = true
					continue
				}
				if rate.Net < out.MinRate {
					out.MinRate = rate.Net
				}
				if rate.Net > out.MaxRate {
					out.MaxRate = rate.Net
				}
			}
		}
		hotels = append(hotels, out)
	}
	return hotels, nil
}

// Status probes the upstream liveness endpoint.
func (c *HotelbedsClient) Status(ctx context.Context) (bool, error) {
	if !c.Configured() {
		return false, errdefs.NotConfigured("Hotelbeds")
	}
	if _, err := c.do(ctx, http.MethodGet, "/hotel-api/1.0/status", nil); err != nil {
		return false, err
	}
	return true, nil
}
