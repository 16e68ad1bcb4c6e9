package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/panchayat-api/internal/models"
	"github.com/gramseva/panchayat-api/internal/service"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/response"
)

// BirthCertificateHandler exposes the birth register endpoints.
type BirthCertificateHandler struct {
	service *service.BirthCertificateService
	printer *service.PrintService
	metrics *service.MetricsService
}

// NewBirthCertificateHandler creates a new handler.
func NewBirthCertificateHandler(svc *service.BirthCertificateService, printer *service.PrintService, metrics *service.MetricsService) *BirthCertificateHandler {
	return &BirthCertificateHandler{service: svc, printer: printer, metrics: metrics}
}

// Create godoc
// @Summary Apply for a birth certificate
// @Tags Birth Certificates
// @Accept json
// @Produce json
// @Param payload body service.BirthCertificateRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Router /certificates/birth [post]
func (h *BirthCertificateHandler) Create(c *gin.Context) {
	var req service.BirthCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordApplication("birth")
	response.Created(c, record)
}

// Track godoc
// @Summary Track a birth certificate application
// @Tags Birth Certificates
// @Produce json
// @Param trackingNumber path string true "Tracking number"
// @Success 200 {object} response.Envelope
// @Router /certificates/birth/track/{trackingNumber} [get]
func (h *BirthCertificateHandler) Track(c *gin.Context) {
	record, err := h.service.Track(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List godoc
// @Summary List birth certificate applications
// @Tags Birth Certificates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/certificates/birth [get]
func (h *BirthCertificateHandler) List(c *gin.Context) {
	records, pagination, err := h.service.List(c.Request.Context(), certificateFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get birth certificate by ID
// @Tags Birth Certificates
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /admin/certificates/birth/{id} [get]
func (h *BirthCertificateHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Update godoc
// @Summary Update a birth certificate application
// @Tags Birth Certificates
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body service.BirthCertificateRequest true "Application payload"
// @Success 200 {object} response.Envelope
// @Router /admin/certificates/birth/{id} [put]
func (h *BirthCertificateHandler) Update(c *gin.Context) {
	var req service.BirthCertificateRequest
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

// UpdateStatus godoc
// @Summary Change birth certificate status
// @Tags Birth Certificates
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body handler.statusPayload true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/certificates/birth/{id}/status [patch]
func (h *BirthCertificateHandler) UpdateStatus(c *gin.Context) {
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

// Print godoc
// @Summary Render the printable birth certificate PDF
// @Tags Birth Certificates
// @Produce application/pdf
// @Param id path string true "Record ID"
// @Success 200 {file} binary
// @Router /admin/certificates/birth/{id}/print [get]
func (h *BirthCertificateHandler) Print(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	payload, err := h.printer.RenderBirth(record)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordPrint("birth")
	servePDF(c, fmt.Sprintf("birth-certificate-%s.pdf", record.TrackingNumber), payload)
}

// Delete godoc
// @Summary Delete a birth certificate application
// @Tags Birth Certificates
// @Param id path string true "Record ID"
// @Success 204 {object} response.Envelope
// @Router /admin/certificates/birth/{id} [delete]
func (h *BirthCertificateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID(c), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// certificateFilterFromQuery parses the shared register list filters.
func certificateFilterFromQuery(c *gin.Context) models.CertificateFilter {
	filter := models.CertificateFilter{
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.RecordStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		if from, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &from
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err := time.Parse("2006-01-02", raw); err == nil {
			end := to.Add(24 * time.Hour)
			filter.To = &end
		}
	}
	return filter
}

func servePDF(c *gin.Context, filename string, payload []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}
