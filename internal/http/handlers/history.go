package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/myautosound/autosound-backend/internal/history"
	"github.com/myautosound/autosound-backend/internal/platform/logger"
)

// timeNow is swapped in tests for deterministic history entries.
var timeNow = time.Now

// sessionKey scopes history to the caller: the X-Session-Id header when
// the frontend sends one, otherwise the client IP.
func sessionKey(c *gin.Context) string {
	if sid := strings.TrimSpace(c.GetHeader("X-Session-Id")); sid != "" {
		return sid
	}
	return c.ClientIP()
}

type HistoryHandler struct {
	log   *logger.Logger
	store *history.Store
}

func NewHistoryHandler(log *logger.Logger, store *history.Store) *HistoryHandler {
	return &HistoryHandler{
		log:   log.With("handler", "HistoryHandler"),
		store: store,
	}
}

func (h *HistoryHandler) List(c *gin.Context) {
	entries := h.store.List(sessionKey(c))
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *HistoryHandler) Clear(c *gin.Context) {
	h.store.Clear(sessionKey(c))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
