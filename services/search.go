package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"wanderplan/errdefs"
	"wanderplan/models"
)

// SearchClient talks to the Serper Google-search proxy.
type SearchClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewSearchClient(apiKey, baseURL string, httpClient *http.Client) *SearchClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SearchClient{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

func (c *SearchClient) Configured() bool { return c != nil && c.apiKey != "" }

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	GL  string `json:"gl"`
}

type serperResponse struct {
	Organic []struct {
		Title   string  `json:"title"`
		Link    string  `json:"link"`
		Snippet string  `json:"snippet"`
		Rating  float64 `json:"rating"`
		Price   string  `json:"price"`
		Type    string  `json:"type"`
	} `json:"organic"`
}

// SearchPlaces runs one query and maps the organic results to PlaceResults.
func (c *SearchClient) SearchPlaces(ctx context.Context, query string, num int) ([]models.PlaceResult, error) {
	if !c.Configured() {
		return nil, errdefs.NotConfigured("Serper")
	}

	body, err := json.Marshal(serperRequest{Q: query, Num: num, GL: "us"})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errdefs.InvalidCredential("Serper", fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errdefs.RateLimited("Serper", fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, errdefs.Upstream("Serper", resp.StatusCode, fmt.Errorf("%s", respBody))
	}

	var parsed serperResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse serper response: %w", err)
	}

	results := make([]models.PlaceResult, 0, len(parsed.Organic))
	for _, r := range parsed.Organic {
		results = append(results, models.PlaceResult{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
			Rating:  r.Rating,
			Price:   r.Price,
			Type:    r.Type,
		})
	}
	return results, nil
}

// DestinationData is the flattened search bundle fed into the prompt.
type DestinationData struct {
	Restaurants []models.PlaceResult
	Hotels      []models.PlaceResult
	Attractions []models.PlaceResult
}

// searchBudgetTier shapes the hotel query text only; it never branches the
// output.
func searchBudgetTier(budget float64) string {
	switch {
	case budget > 3000:
		return "luxury"
	case budget > 1500:
		return "mid-range"
	default:
		return "budget"
	}
}

// DestinationData issues the restaurant, hotel, attraction, and
// per-preference queries concurrently. Each query that fails degrades to an
// empty list; the call as a whole never fails once the client is
// configured.
func (c *SearchClient) DestinationData(ctx context.Context, destination string, budget float64, preferences []string) (*DestinationData, error) {
	if !c.Configured() {
		return nil, errdefs.NotConfigured("Serper")
	}

	prefs := preferences
	if len(prefs) > 3 {
		prefs = prefs[:3]
	}

	queries := []struct {
		query string
		num   int
	}{
		{fmt.Sprintf("best restaurants in %s", destination), 20},
		{fmt.Sprintf("%s hotels in %s with good reviews", searchBudgetTier(budget), destination), 10},
		{fmt.Sprintf("top tourist attractions in %s", destination), 20},
	}
	for _, pref := range prefs {
		queries = append(queries, struct {
			query string
			num   int
		}{fmt.Sprintf("best %s attractions in %s", pref, destination), 20})
	}

	results := make([][]models.PlaceResult, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, query string, num int) {
			defer wg.Done()
			places, err := c.SearchPlaces(ctx, query, num)
			if err != nil {
				log.WithError(err).WithField("query", query).Warn("place search failed, continuing without results")
				return
			}
			results[i] = places
		}(i, q.query, q.num)
	}
	wg.Wait()

	data := &DestinationData{
		Restaurants: results[0],
		Hotels:      results[1],
		Attractions: results[2],
	}
	// Preference-specific results extend the general attractions in order;
	// duplicates are allowed.
	for _, extra := range results[3:] {
		data.Attractions = append(data.Attractions, extra...)
	}
	return data, nil
}
