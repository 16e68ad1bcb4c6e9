package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

func TestOCRServiceExtractTextRejectsNonPDF(t *testing.T) {
	service := NewOCRService(0, zap.NewNop())

	_, err := service.ExtractText(strings.NewReader("not a pdf at all"), 16)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, appErr.Code)
}

func TestOCRServiceExtractTextRejectsOversizedUpload(t *testing.T) {
	service := NewOCRService(64, zap.NewNop())

	_, err := service.ExtractText(strings.NewReader("%PDF-1.4"), 65)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUploadTooLarge.Code, appErr.Code)
}

func TestParseBirthFields(t *testing.T) {
	text := strings.Join([]string{
		"GOVERNMENT OF MAHARASHTRA",
		"Name of the Child: Aarav Sharma",
		"Sex: Male",
		"Date of Birth: 12/03/2024",
		"Place of Birth: Rural Hospital, Shirwal",
		"Name of the Father: Vikram Sharma",
		"Name of the Mother: Priya Sharma",
	}, "\n")

	prefill := parseBirthFields(text)
	assert.Equal(t, "Aarav Sharma", prefill.ChildName)
	assert.Equal(t, "male", prefill.Gender)
	assert.Equal(t, "12/03/2024", prefill.DateOfBirth)
	assert.Equal(t, "Rural Hospital, Shirwal", prefill.PlaceOfBirth)
	assert.Equal(t, "Vikram Sharma", prefill.FatherName)
	assert.Equal(t, "Priya Sharma", prefill.MotherName)
}

func TestParseBirthFieldsLabelVariants(t *testing.T) {
	text := strings.Join([]string{
		"Child's Name - Sai Pawar",
		"Father's Name - Dinesh Pawar",
		"Gender - female",
		"Date of Birth - 1-1-2023",
	}, "\n")

	prefill := parseBirthFields(text)
	assert.Equal(t, "Sai Pawar", prefill.ChildName)
	assert.Equal(t, "Dinesh Pawar", prefill.FatherName)
	assert.Equal(t, "female", prefill.Gender)
	assert.Equal(t, "1-1-2023", prefill.DateOfBirth)
}

func TestParseBirthFieldsMissingLabels(t *testing.T) {
	prefill := parseBirthFields("an image-only scan produced no labelled text")
	assert.Empty(t, prefill.ChildName)
	assert.Empty(t, prefill.DateOfBirth)
	assert.Empty(t, prefill.Gender)
}
