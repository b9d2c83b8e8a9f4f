package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"wanderplan/config"
	"wanderplan/keystore"
)

func itinerariesRouter() *gin.Engine {
	h := New(&config.Config{JWTSecret: "test-secret"}, nil, keystore.NewSessions(nil), http.DefaultClient)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PATCH("/api/itineraries/:id", h.UpdateItinerary)
	return r
}

// Partial updates only pass whitelisted content fields through to the
// store. Ownership fields, unknown keys, and dotted paths into nested
// documents are dropped.
func TestUpdateItineraryFiltersFields(t *testing.T) {
	r := itinerariesRouter()

	w := doJSON(r, http.MethodPatch, "/api/itineraries/abc",
		`{"userId": "someone-else", "savedAt": "2020-01-01", "_id": "x",
		  "dailyPlans.0.activities.0.cost": 0, "unknownField": 1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when nothing updatable remains (body %s)", w.Code, w.Body.String())
	}

	// A legitimate content field survives the filter and reaches the
	// store layer, which reports 503 here because none is configured.
	w = doJSON(r, http.MethodPatch, "/api/itineraries/abc", `{"destination": "Rome"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 from the unconfigured store (body %s)", w.Code, w.Body.String())
	}
}
