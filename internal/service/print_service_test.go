package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
)

type stubTransliterator struct {
	calls []string
}

func (s *stubTransliterator) TranslateText(ctx context.Context, text string) string {
	s.calls = append(s.calls, text)
	return "मराठी:" + text
}

type stubMarathiSaver struct {
	saved []models.LeavingCertificate
	err   error
}

func (s *stubMarathiSaver) SaveMarathiFields(ctx context.Context, record *models.LeavingCertificate) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, *record)
	return nil
}

func TestPrintServiceRenderBirthPendingRecord(t *testing.T) {
	service := NewPrintService(nil, nil, "", zap.NewNop())

	payload, err := service.RenderBirth(&models.BirthCertificate{
		TrackingNumber: "BRT00000001",
		ChildName:      "Aarav Sharma",
		Gender:         "male",
		DateOfBirth:    "2024-03-12",
		PlaceOfBirth:   "Shirwal",
		FatherName:     "Vikram Sharma",
		MotherName:     "Priya Sharma",
		Address:        "Ward 3, Shirwal",
		Status:         models.StatusPending,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF-")))
}

func TestPrintServiceRenderMarriageApproved(t *testing.T) {
	service := NewPrintService(nil, nil, "", zap.NewNop())

	payload, err := service.RenderMarriage(&models.MarriageCertificate{
		TrackingNumber:  "MRG00000001",
		GroomName:       "Rahul Deshmukh",
		BrideName:       "Sneha Kulkarni",
		DateOfMarriage:  "2025-02-14",
		PlaceOfMarriage: "Shirwal",
		WitnessName:     "Anil Jadhav",
		Status:          models.StatusApproved,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF-")))
}

func TestPrintServiceRenderLeavingFillsMarathiOnFirstPrint(t *testing.T) {
	translit := &stubTransliterator{}
	saver := &stubMarathiSaver{}
	service := NewPrintService(translit, saver, "", zap.NewNop())

	record := &models.LeavingCertificate{
		TrackingNumber: "LVC00000001",
		ApplicantName:  "Sunita More",
		FatherName:     "Baban More",
		DateOfBirth:    "1998-06-01",
		Village:        "Shirwal",
		Reason:         "Higher education",
		Status:         models.StatusApproved,
	}

	_, err := service.RenderLeaving(context.Background(), record)
	require.NoError(t, err)

	assert.Equal(t, []string{"Sunita More", "Baban More", "Shirwal", "Higher education"}, translit.calls)
	assert.Equal(t, "मराठी:Sunita More", record.ApplicantNameMr)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, record.ApplicantNameMr, saver.saved[0].ApplicantNameMr)
}

func TestPrintServiceRenderLeavingSkipsFilledFields(t *testing.T) {
	translit := &stubTransliterator{}
	saver := &stubMarathiSaver{}
	service := NewPrintService(translit, saver, "", zap.NewNop())

	record := &models.LeavingCertificate{
		TrackingNumber:  "LVC00000002",
		ApplicantName:   "Sunita More",
		ApplicantNameMr: "सुनीता मोरे",
		FatherName:      "Baban More",
		FatherNameMr:    "बबन मोरे",
		Village:         "Shirwal",
		VillageMr:       "शिरवळ",
		Reason:          "Relocation",
		ReasonMr:        "स्थलांतर",
		Status:          models.StatusApproved,
	}

	_, err := service.RenderLeaving(context.Background(), record)
	require.NoError(t, err)
	assert.Empty(t, translit.calls)
	assert.Empty(t, saver.saved)
}

func TestPrintServiceRenderLeavingSurvivesPersistFailure(t *testing.T) {
	translit := &stubTransliterator{}
	saver := &stubMarathiSaver{err: errors.New("db down")}
	service := NewPrintService(translit, saver, "", zap.NewNop())

	record := &models.LeavingCertificate{
		TrackingNumber: "LVC00000003",
		ApplicantName:  "Sunita More",
		Status:         models.StatusPending,
	}

	payload, err := service.RenderLeaving(context.Background(), record)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF-")))
	assert.Equal(t, "मराठी:Sunita More", record.ApplicantNameMr)
}
