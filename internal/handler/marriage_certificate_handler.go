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

// MarriageCertificateHandler exposes the marriage register endpoints.
type MarriageCertificateHandler struct {
	service *service.MarriageCertificateService
	printer *service.PrintService
	metrics *service.MetricsService
}

// NewMarriageCertificateHandler creates a new handler.
func NewMarriageCertificateHandler(svc *service.MarriageCertificateService, printer *service.PrintService, metrics *service.MetricsService) *MarriageCertificateHandler {
	return &MarriageCertificateHandler{service: svc, printer: printer, metrics: metrics}
}

// Create handles public marriage certificate applications.
func (h *MarriageCertificateHandler) Create(c *gin.Context) {
	var req service.MarriageCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordApplication("marriage")
	response.Created(c, record)
}

// Track returns an application by tracking number.
func (h *MarriageCertificateHandler) Track(c *gin.Context) {
	record, err := h.service.Track(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List returns the admin register view.
func (h *MarriageCertificateHandler) List(c *gin.Context) {
	records, pagination, err := h.service.List(c.Request.Context(), certificateFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get returns an application by ID.
func (h *MarriageCertificateHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Update corrects application details.
func (h *MarriageCertificateHandler) Update(c *gin.Context) {
	var req service.MarriageCertificateRequest
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
func (h *MarriageCertificateHandler) UpdateStatus(c *gin.Context) {
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
func (h *MarriageCertificateHandler) Print(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.printer.RenderMarriage(record)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordPrint("marriage")
	servePDF(c, fmt.Sprintf("marriage-certificate-%s.pdf", record.TrackingNumber), payload)
}

// Delete removes an application.
func (h *MarriageCertificateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID(c), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
