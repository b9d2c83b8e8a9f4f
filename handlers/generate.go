package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wanderplan/keystore"
	"wanderplan/models"
	"wanderplan/services"
)

// Generate synthesizes an itinerary from the posted trip preferences. The
// service clients are built per request from the caller's stored
// credentials; search and hotel data are optional enrichments.
func (h *Handler) Generate(c *gin.Context) {
	var prefs models.TripPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	store := h.credentialStore(c)

	planner := &services.Planner{
		LLM: services.NewLLMClient(
			store.LLMKey(),
			h.cfg.LLMBaseURL,
			h.cfg.LLMModel,
			h.cfg.LLMTemperature,
			h.cfg.LLMMaxTokens,
			h.httpClient,
		),
	}
	if store.Has(keystore.KindSearch) {
		planner.Search = services.NewSearchClient(store.SearchKey(), h.cfg.SerperBaseURL, h.httpClient)
	}
	if store.Has(keystore.KindHotel) {
		key, secret := store.HotelCredentials()
		planner.Hotels = services.NewHotelbedsClient(key, secret, h.cfg.HotelbedsURL, h.httpClient)
	}

	itinerary, err := planner.Generate(c.Request.Context(), prefs)
	if err != nil {
		log.WithError(err).WithField("destination", prefs.Destination).Warn("itinerary generation failed")
		h.fail(c, err)
		return
	}

	log.WithFields(log.Fields{
		"destination": itinerary.Destination,
		"days":        len(itinerary.DailyPlans),
		"totalCost":   itinerary.TotalCost,
	}).Info("itinerary generated")

	c.JSON(http.StatusOK, itinerary)
}
