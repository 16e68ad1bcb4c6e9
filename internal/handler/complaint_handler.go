package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/panchayat-api/internal/models"
	"github.com/gramseva/panchayat-api/internal/service"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/response"
)

// ComplaintHandler exposes public complaint submission and tracking plus
// the admin triage endpoints.
type ComplaintHandler struct {
	service *service.ComplaintService
	metrics *service.MetricsService
}

// NewComplaintHandler creates a new handler.
func NewComplaintHandler(svc *service.ComplaintService, metrics *service.MetricsService) *ComplaintHandler {
	return &ComplaintHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Submit a complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Param payload body service.CreateComplaintRequest true "Complaint payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req service.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid complaint payload"))
		return
	}

	complaint, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordApplication("complaint")
	response.Created(c, complaint)
}

// Track godoc
// @Summary Track a complaint by tracking number
// @Tags Complaints
// @Produce json
// @Param trackingNumber path string true "Tracking number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /complaints/track/{trackingNumber} [get]
func (h *ComplaintHandler) Track(c *gin.Context) {
	complaint, err := h.service.Track(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complaint, nil)
}

// List godoc
// @Summary List complaints
// @Tags Complaints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	filter := models.ComplaintFilter{
		Search:   c.Query("search"),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.RecordStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("category"); raw != "" {
		category := models.ComplaintCategory(raw)
		filter.Category = &category
	}

	complaints, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, complaints, pagination)
}

// Get godoc
// @Summary Get complaint by ID
// @Tags Complaints
// @Produce json
// @Param id path string true "Complaint ID"
// @Success 200 {object} response.Envelope
// @Router /admin/complaints/{id} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	complaint, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, complaint, nil)
}

// Update godoc
// @Summary Update complaint details
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param payload body service.UpdateComplaintRequest true "Complaint payload"
// @Success 200 {object} response.Envelope
// @Router /admin/complaints/{id} [put]
func (h *ComplaintHandler) Update(c *gin.Context) {
	var req service.UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid complaint payload"))
		return
	}

	complaint, err := h.service.Update(c.Request.Context(), c.Param("id"), req, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, complaint, nil)
}

// UpdateStatus godoc
// @Summary Change complaint status
// @Tags Complaints
// @Accept json
// @Produce json
// @Param id path string true "Complaint ID"
// @Param payload body handler.statusPayload true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/complaints/{id}/status [patch]
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status is required"))
		return
	}

	complaint, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), models.RecordStatus(payload.Status), actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, complaint, nil)
}

// Delete godoc
// @Summary Delete complaint
// @Tags Complaints
// @Param id path string true "Complaint ID"
// @Success 204 {object} response.Envelope
// @Router /admin/complaints/{id} [delete]
func (h *ComplaintHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actorID(c), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// statusPayload is the body for status change endpoints.
type statusPayload struct {
	Status string `json:"status" binding:"required"`
}
