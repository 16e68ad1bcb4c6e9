package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/panchayat-api/internal/service"
	"github.com/gramseva/panchayat-api/internal/translit"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/response"
)

// TranslitHandler exposes the interactive transliteration endpoint used
// by entry form widgets. Unlike the print path, upstream failures are
// reported to the caller.
type TranslitHandler struct {
	client  *translit.Client
	metrics *service.MetricsService
}

// NewTranslitHandler creates a new handler.
func NewTranslitHandler(client *translit.Client, metrics *service.MetricsService) *TranslitHandler {
	return &TranslitHandler{client: client, metrics: metrics}
}

// Transliterate godoc
// @Summary Transliterate Latin text to Devanagari
// @Tags Transliteration
// @Accept json
// @Produce json
// @Param payload body object true "Text payload"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /translit [post]
func (h *TranslitHandler) Transliterate(c *gin.Context) {
	var payload struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "text is required"))
		return
	}

	result, err := h.client.Translate(c.Request.Context(), payload.Text)
	if err != nil {
		h.metrics.RecordTranslitError()
		response.Error(c, appErrors.Wrap(err, appErrors.ErrTranslitUpstream.Code, appErrors.ErrTranslitUpstream.Status, "transliteration service unavailable"))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"input": payload.Text, "output": result}, nil)
}
