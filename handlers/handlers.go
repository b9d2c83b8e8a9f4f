// Package handlers wires the HTTP surface: itinerary generation and
// persistence, credential management, and the Hotelbeds proxy routes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderplan/config"
	"wanderplan/database"
	"wanderplan/errdefs"
	"wanderplan/keystore"
)

type Handler struct {
	cfg        *config.Config
	db         *database.Mongo
	keys       *keystore.Sessions
	httpClient *http.Client
}

func New(cfg *config.Config, db *database.Mongo, keys *keystore.Sessions, httpClient *http.Client) *Handler {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Handler{cfg: cfg, db: db, keys: keys, httpClient: httpClient}
}

// statusFor maps the failure taxonomy to HTTP statuses in one place.
func statusFor(err error) int {
	switch errdefs.KindOf(err) {
	case errdefs.KindNotConfigured, errdefs.KindInvalidInput:
		return http.StatusBadRequest
	case errdefs.KindInvalidCredential:
		return http.StatusUnauthorized
	case errdefs.KindRateLimited:
		return http.StatusTooManyRequests
	case errdefs.KindDestinationNotResolved:
		return http.StatusNotFound
	case errdefs.KindResponseFormat:
		return http.StatusBadGateway
	case errdefs.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case errdefs.KindUpstream:
		var e *errdefs.Error
		if errors.As(err, &e) && e.Status >= 400 && e.Status < 600 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error as JSON. Typed failures surface their
// human-readable message without the wrapped cause.
func (h *Handler) fail(c *gin.Context, err error) {
	var e *errdefs.Error
	if errors.As(err, &e) {
		c.JSON(statusFor(err), gin.H{"error": e.Message})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
