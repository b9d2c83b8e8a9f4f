package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderplan/keystore"
)

type setKeyRequest struct {
	Key    string `json:"key" binding:"required"`
	Secret string `json:"secret"`
}

// SetKey stores a credential for the caller's session. The hotel kind
// takes a key and a secret; the others a key only. Remote mirroring is
// best-effort and never blocks the response.
func (h *Handler) SetKey(c *gin.Context) {
	var req setKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	kind := keystore.Kind(c.Param("kind"))
	store := h.credentialStore(c)

	var err error
	if kind == keystore.KindHotel {
		if req.Secret == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hotel credentials require both key and secret"})
			return
		}
		err = store.Set(kind, req.Key, req.Secret)
	} else {
		err = store.Set(kind, req.Key)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configured": true})
}

func (h *Handler) ClearKey(c *gin.Context) {
	store := h.credentialStore(c)
	if err := store.Clear(keystore.Kind(c.Param("kind"))); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// KeyStatus reports which credential sets are configured, never the values.
func (h *Handler) KeyStatus(c *gin.Context) {
	store := h.credentialStore(c)
	c.JSON(http.StatusOK, gin.H{
		"llm":    store.Has(keystore.KindLLM),
		"search": store.Has(keystore.KindSearch),
		"hotel":  store.Has(keystore.KindHotel),
	})
}

// LoadKeys copies the caller's remote-stored credentials into the session.
// Called explicitly at session start; binding a user never auto-pulls.
func (h *Handler) LoadKeys(c *gin.Context) {
	store := h.credentialStore(c)
	if err := store.LoadRemote(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"llm":    store.Has(keystore.KindLLM),
		"search": store.Has(keystore.KindSearch),
		"hotel":  store.Has(keystore.KindHotel),
	})
}
