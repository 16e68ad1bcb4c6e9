package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/panchayat-api/internal/service"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/response"
)

// OCRHandler exposes PDF text extraction for scanned documents.
type OCRHandler struct {
	service *service.OCRService
}

// NewOCRHandler creates a new handler.
func NewOCRHandler(svc *service.OCRService) *OCRHandler {
	return &OCRHandler{service: svc}
}

// Extract godoc
// @Summary Extract embedded text from an uploaded PDF
// @Tags OCR
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /ocr/extract [post]
func (h *OCRHandler) Extract(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file upload is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to open upload"))
		return
	}
	defer file.Close()

	text, err := h.service.ExtractText(file, header.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"text": text}, nil)
}

// ExtractBirthCertificate godoc
// @Summary Extract prefill fields from a scanned birth certificate
// @Tags OCR
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 200 {object} response.Envelope
// @Router /ocr/birth-certificate [post]
func (h *OCRHandler) ExtractBirthCertificate(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file upload is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to open upload"))
		return
	}
	defer file.Close()

	prefill, text, err := h.service.ExtractBirthCertificate(file, header.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"prefill": prefill, "text": text}, nil)
}
