package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	dbStatus := "not configured"
	if h.db != nil {
		dbStatus = "ok"
		if err := h.db.Ping(c.Request.Context()); err != nil {
			dbStatus = "error: " + err.Error()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "Wanderplan API",
		"database": dbStatus,
	})
}
