package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"wanderplan/models"
	"wanderplan/services"
)

// SaveItinerary persists a generated itinerary to the caller's account.
func (h *Handler) SaveItinerary(c *gin.Context) {
	var itinerary models.Itinerary
	if err := c.ShouldBindJSON(&itinerary); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itinerary: " + err.Error()})
		return
	}

	id, err := h.db.SaveItinerary(c.Request.Context(), itinerary, currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListItineraries returns the caller's saved itineraries, most recent
// first.
func (h *Handler) ListItineraries(c *gin.Context) {
	items, err := h.db.ItinerariesByUser(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []models.SavedItinerary{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getOwned(c *gin.Context) *models.SavedItinerary {
	item, err := h.db.ItineraryByID(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return nil
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
		return nil
	}
	return item
}

func (h *Handler) GetItinerary(c *gin.Context) {
	if item := h.getOwned(c); item != nil {
		c.JSON(http.StatusOK, item)
	}
}

// Only the itinerary's own content fields are writable through the
// partial update. Everything else, including ownership, bookkeeping, and
// dotted paths into nested documents, is dropped.
var updatableFields = map[string]bool{
	"destination": true,
	"startDate":   true,
	"endDate":     true,
	"budget":      true,
	"travelers":   true,
	"preferences": true,
	"dailyPlans":  true,
	"totalCost":   true,
	"currency":    true,
	"isFavorite":  true,
}

// UpdateItinerary merges the posted fields into the saved record.
func (h *Handler) UpdateItinerary(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update: " + err.Error()})
		return
	}

	fields := bson.M{}
	for k, v := range updates {
		if updatableFields[k] {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
		return
	}

	err := h.db.UpdateItinerary(c.Request.Context(), c.Param("id"), currentUser(c), fields)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

type favoriteRequest struct {
	Favorite bool `json:"isFavorite"`
}

func (h *Handler) SetFavorite(c *gin.Context) {
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	err := h.db.SetFavorite(c.Request.Context(), c.Param("id"), currentUser(c), req.Favorite)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorite": req.Favorite})
}

func (h *Handler) DeleteItinerary(c *gin.Context) {
	err := h.db.DeleteItinerary(c.Request.Context(), c.Param("id"), currentUser(c))
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadItineraryPDF renders a saved itinerary as a PDF attachment.
func (h *Handler) DownloadItineraryPDF(c *gin.Context) {
	item := h.getOwned(c)
	if item == nil {
		return
	}

	pdfBytes, err := services.ItineraryPDF(item)
	if err != nil {
		log.WithError(err).WithField("id", item.ID).Error("PDF generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=wanderplan-itinerary.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
