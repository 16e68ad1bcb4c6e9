package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/panchayat-api/internal/service"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/response"
)

// WaterHandler exposes water billing and property payment endpoints.
type WaterHandler struct {
	service *service.WaterService
}

// NewWaterHandler creates a new handler.
func NewWaterHandler(svc *service.WaterService) *WaterHandler {
	return &WaterHandler{service: svc}
}

// Bills godoc
// @Summary Look up bills for a water connection
// @Tags Water
// @Produce json
// @Param connectionNumber path string true "Connection number"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /water/bills/{connectionNumber} [get]
func (h *WaterHandler) Bills(c *gin.Context) {
	conn, bills, err := h.service.Bills(c.Request.Context(), c.Param("connectionNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"connection": conn, "bills": bills}, nil)
}

// RecordPayment godoc
// @Summary Confirm a water bill UPI payment
// @Tags Water
// @Accept json
// @Produce json
// @Param payload body service.WaterPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /water/payments [post]
func (h *WaterHandler) RecordPayment(c *gin.Context) {
	var req service.WaterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	payment, err := h.service.RecordPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, payment)
}

// RecordPropertyPayment godoc
// @Summary Confirm a property tax UPI payment
// @Tags Water
// @Accept json
// @Produce json
// @Param payload body service.PropertyPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /property-payments [post]
func (h *WaterHandler) RecordPropertyPayment(c *gin.Context) {
	var req service.PropertyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid property payment payload"))
		return
	}

	payment, err := h.service.RecordPropertyPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, payment)
}

// UploadConnections godoc
// @Summary Bulk upload water connections (CSV or XLSX)
// @Tags Water
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Sheet"
// @Success 200 {object} response.Envelope
// @Router /admin/water/connections/upload [post]
func (h *WaterHandler) UploadConnections(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file upload is required"))
		return
	}

	result, err := h.service.UploadConnections(c.Request.Context(), header, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// UploadPayments godoc
// @Summary Bulk upload water payments (CSV or XLSX)
// @Tags Water
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Sheet"
// @Success 200 {object} response.Envelope
// @Router /admin/water/payments/bulk [post]
func (h *WaterHandler) UploadPayments(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file upload is required"))
		return
	}

	result, err := h.service.UploadPayments(c.Request.Context(), header, actorID(c), requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
