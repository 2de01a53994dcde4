package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myautosound/autosound-backend/internal/platform/logger"
	"github.com/myautosound/autosound-backend/internal/services"
)

type FeedbackHandler struct {
	log *logger.Logger
	svc services.FeedbackService
}

func NewFeedbackHandler(log *logger.Logger, svc services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		log: log.With("handler", "FeedbackHandler"),
		svc: svc,
	}
}

type feedbackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Submit relays a feedback form to the team inbox. Unlike /diagnose,
// failures here carry a descriptive message so the frontend can tell the
// user whether to retry.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var in services.FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Warn("feedback body rejected", "error", err)
		c.JSON(http.StatusBadRequest, feedbackResponse{Error: "invalid feedback body"})
		return
	}

	if err := h.svc.Submit(c.Request.Context(), in); err != nil {
		if errors.Is(err, services.ErrMailNotConfigured) {
			h.log.Error("feedback mail not configured")
			c.JSON(http.StatusInternalServerError, feedbackResponse{Error: "feedback mail is not configured"})
			return
		}
		h.log.Error("feedback submission failed", "error", err)
		c.JSON(http.StatusInternalServerError, feedbackResponse{Error: "failed to send feedback"})
		return
	}

	c.JSON(http.StatusOK, feedbackResponse{OK: true})
}
