package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/panchayat-api/internal/models"
	"github.com/gramseva/panchayat-api/internal/service"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/response"
)

// DeathCertificateHandler exposes the death register endpoints.
type DeathCertificateHandler struct {
	service *service.DeathCertificateService
	printer *service.PrintService
	metrics *service.MetricsService
}

// NewDeathCertificateHandler creates a new handler.
func NewDeathCertificateHandler(svc *service.DeathCertificateService, printer *service.PrintService, metrics *service.MetricsService) *DeathCertificateHandler {
	return &DeathCertificateHandler{service: svc, printer: printer, metrics: metrics}
}

// Create handles public death certificate applications.
func (h *DeathCertificateHandler) Create(c *gin.Context) {
	var req service.DeathCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordApplication("death")
	response.Created(c, record)
}

// Track returns an application by tracking number.
func (h *DeathCertificateHandler) Track(c *gin.Context) {
	record, err := h.service.Track(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List returns the admin register view.
func (h *DeathCertificateHandler) List(c *gin.Context) {
	records, pagination, err := h.service.List(c.Request.Context(), certificateFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get returns an application by ID.
func (h *DeathCertificateHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Update corrects application details.
func (h *DeathCertificateHandler) Update(c *gin.Context) {
	var req service.DeathCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	record, err := h.service.Update(c.Request.Context(), c.Param("id"), req, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// UpdateStatus changes the lifecycle state.
func (h *DeathCertificateHandler) UpdateStatus(c *gin.Context) {
	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status is required"))
		return
	}

	record, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), models.RecordStatus(payload.Status), actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// Print renders the printable certificate PDF.
func (h *DeathCertificateHandler) Print(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.printer.RenderDeath(record)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordPrint("death")
	servePDF(c, fmt.Sprintf("death-certificate-%s.pdf", record.TrackingNumber), payload)
}

// Delete removes an application.
func (h *DeathCertificateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID(c), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
