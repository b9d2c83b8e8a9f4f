package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wanderplan/services"
)

// Thin proxy routes in front of the Hotelbeds API. The caller supplies
// key and secret via headers; the proxy computes the request signature and
// forwards. Non-success upstream responses pass through with the upstream
// body as details.

const (
	headerHotelbedsKey    = "x-hotelbeds-key"
	headerHotelbedsSecret = "x-hotelbeds-secret"
)

func (h *Handler) forwardHotelbeds(c *gin.Context, method, path string, body []byte) (int, []byte, bool) {
	apiKey := c.GetHeader(headerHotelbedsKey)
	apiSecret := c.GetHeader(headerHotelbedsSecret)
	if apiKey == "" || apiSecret == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "API credentials required"})
		return 0, nil, false
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), method, h.cfg.HotelbedsURL+path, reader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return 0, nil, false
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Api-key", apiKey)
	req.Header.Set("X-Signature", services.HotelbedsSignature(apiKey, apiSecret, time.Now()))

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("hotelbeds proxy request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return 0, nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, true
}

func (h *Handler) HotelbedsAvailability(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}

	status, respBody, ok := h.forwardHotelbeds(c, http.MethodPost, "/hotel-api/1.0/hotels", body)
	if !ok {
		return
	}
	if status < 200 || status >= 300 {
		c.JSON(status, gin.H{
			"error":   fmt.Sprintf("Hotelbeds API error: %d", status),
			"details": string(respBody),
		})
		return
	}
	c.Data(http.StatusOK, "application/json", respBody)
}

func (h *Handler) HotelbedsDestinations(c *gin.Context) {
	status, respBody, ok := h.forwardHotelbeds(c, http.MethodGet,
		"/hotel-content-api/1.0/locations/destinations?fields=all&language=ENG", nil)
	if !ok {
		return
	}
	if status < 200 || status >= 300 {
		c.JSON(status, gin.H{
			"error":   fmt.Sprintf("Hotelbeds API error: %d", status),
			"details": string(respBody),
		})
		return
	}
	c.Data(http.StatusOK, "application/json", respBody)
}

// HotelbedsStatus reports upstream liveness. The upstream body rides along
// whatever the outcome, so the client can see the probe detail.
func (h *Handler) HotelbedsStatus(c *gin.Context) {
	status, respBody, ok := h.forwardHotelbeds(c, http.MethodGet, "/hotel-api/1.0/status", nil)
	if !ok {
		return
	}
	var data any = json.RawMessage(respBody)
	if !json.Valid(respBody) {
		data = string(respBody)
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":   status >= 200 && status < 300,
		"data": data,
	})
}
