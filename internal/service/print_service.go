package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	"github.com/gramseva/panchayat-api/internal/translit"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

type transliterator interface {
	TranslateText(ctx context.Context, text string) string
}

type leavingMarathiSaver interface {
	SaveMarathiFields(ctx context.Context, record *models.LeavingCertificate) error
}

// PrintService renders certificates as printable PDF documents. Printing
// is available in every lifecycle state; the draft watermark marks copies
// printed before approval.
//
// Devanagari output needs a UTF-8 TTF; when no font file is configured
// the Marathi lines are skipped and only the English layout is printed.
type PrintService struct {
	translit    transliterator
	leavingRepo leavingMarathiSaver
	fontPath    string
	logger      *zap.Logger
}

// NewPrintService creates an instance of PrintService. fontPath may be
// empty; translit is only needed for leaving certificates.
func NewPrintService(translitClient transliterator, leavingRepo leavingMarathiSaver, fontPath string, logger *zap.Logger) *PrintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintService{translit: translitClient, leavingRepo: leavingRepo, fontPath: fontPath, logger: logger}
}

type certificateDoc struct {
	pdf       *gofpdf.Fpdf
	marathi   bool
	titleEn   string
	titleMr   string
	watermark bool
}

func (s *PrintService) newDoc(titleEn, titleMr string, status models.RecordStatus) *certificateDoc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)

	doc := &certificateDoc{
		pdf:       pdf,
		titleEn:   titleEn,
		titleMr:   titleMr,
		watermark: status != models.StatusApproved,
	}

	if s.fontPath != "" {
		pdf.AddUTF8Font("devanagari", "", s.fontPath)
		doc.marathi = true
	}

	pdf.AddPage()

	if doc.watermark {
		pdf.SetFont("Arial", "B", 48)
		pdf.SetTextColor(230, 230, 230)
		pdf.TransformBegin()
		pdf.TransformRotate(45, 105, 148)
		pdf.Text(55, 155, "DRAFT COPY")
		pdf.TransformEnd()
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Gram Panchayat Office", "", 1, "C", false, 0, "")
	if doc.marathi {
		pdf.SetFont("devanagari", "", 14)
		pdf.CellFormat(0, 8, "ग्रामपंचायत कार्यालय", "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 9, titleEn, "", 1, "C", false, 0, "")
	if doc.marathi && titleMr != "" {
		pdf.SetFont("devanagari", "", 13)
		pdf.CellFormat(0, 8, titleMr, "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	return doc
}

// row prints a labelled English value and, when available, the Marathi
// rendering underneath it. Digits in Marathi lines use Devanagari
// numerals.
func (d *certificateDoc) row(label, value, valueMr string) {
	d.pdf.SetFont("Arial", "B", 11)
	d.pdf.CellFormat(60, 8, label, "", 0, "", false, 0, "")
	d.pdf.SetFont("Arial", "", 11)
	d.pdf.CellFormat(0, 8, value, "", 1, "", false, 0, "")

	if d.marathi && valueMr != "" {
		d.pdf.SetFont("devanagari", "", 11)
		d.pdf.CellFormat(60, 7, "", "", 0, "", false, 0, "")
		d.pdf.CellFormat(0, 7, translit.ToDevanagariDigits(valueMr), "", 1, "", false, 0, "")
	}
}

func (d *certificateDoc) footer(trackingNumber string, status models.RecordStatus) {
	d.pdf.Ln(8)
	d.pdf.SetFont("Arial", "", 10)
	d.pdf.CellFormat(0, 7, fmt.Sprintf("Tracking Number: %s", trackingNumber), "", 1, "", false, 0, "")
	d.pdf.CellFormat(0, 7, fmt.Sprintf("Status: %s", status), "", 1, "", false, 0, "")
	d.pdf.Ln(14)
	d.pdf.CellFormat(0, 7, "Gram Sevak / Sarpanch", "", 1, "R", false, 0, "")
	d.pdf.CellFormat(0, 7, "(Seal and Signature)", "", 1, "R", false, 0, "")
}

func (d *certificateDoc) output() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := d.pdf.Output(buf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}
	return buf.Bytes(), nil
}

// RenderBirth produces the printable birth certificate.
func (s *PrintService) RenderBirth(record *models.BirthCertificate) ([]byte, error) {
	doc := s.newDoc("Birth Certificate", "जन्म प्रमाणपत्र", record.Status)

	doc.row("Name of Child", record.ChildName, record.ChildNameMr)
	doc.row("Gender", record.Gender, "")
	doc.row("Date of Birth", record.DateOfBirth, translit.ToDevanagariDigits(record.DateOfBirth))
	doc.row("Place of Birth", record.PlaceOfBirth, record.PlaceOfBirthMr)
	doc.row("Father's Name", record.FatherName, record.FatherNameMr)
	doc.row("Mother's Name", record.MotherName, record.MotherNameMr)
	doc.row("Address", record.Address, "")

	doc.footer(record.TrackingNumber, record.Status)
	return doc.output()
}

// RenderDeath produces the printable death certificate.
func (s *PrintService) RenderDeath(record *models.DeathCertificate) ([]byte, error) {
	doc := s.newDoc("Death Certificate", "मृत्यू प्रमाणपत्र", record.Status)

	doc.row("Name of Deceased", record.DeceasedName, record.DeceasedNameMr)
	doc.row("Gender", record.Gender, "")
	doc.row("Date of Death", record.DateOfDeath, translit.ToDevanagariDigits(record.DateOfDeath))
	doc.row("Place of Death", record.PlaceOfDeath, record.PlaceOfDeathMr)
	doc.row("Cause of Death", record.CauseOfDeath, "")
	doc.row("Applicant", record.ApplicantName, "")
	doc.row("Relation", record.Relation, "")

	doc.footer(record.TrackingNumber, record.Status)
	return doc.output()
}

// RenderMarriage produces the printable marriage certificate.
func (s *PrintService) RenderMarriage(record *models.MarriageCertificate) ([]byte, error) {
	doc := s.newDoc("Marriage Certificate", "विवाह प्रमाणपत्र", record.Status)

	doc.row("Name of Groom", record.GroomName, record.GroomNameMr)
	doc.row("Name of Bride", record.BrideName, record.BrideNameMr)
	doc.row("Date of Marriage", record.DateOfMarriage, translit.ToDevanagariDigits(record.DateOfMarriage))
	doc.row("Place of Marriage", record.PlaceOfMarriage, "")
	doc.row("Witness", record.WitnessName, "")
	doc.row("Address", record.Address, "")

	doc.footer(record.TrackingNumber, record.Status)
	return doc.output()
}

// RenderLeaving produces the printable leaving certificate. Missing
// Marathi fields are filled through transliteration on first print and
// persisted, so later prints skip the upstream call.
func (s *PrintService) RenderLeaving(ctx context.Context, record *models.LeavingCertificate) ([]byte, error) {
	s.fillLeavingMarathi(ctx, record)

	doc := s.newDoc("Leaving Certificate", "दाखला", record.Status)

	doc.row("Applicant", record.ApplicantName, record.ApplicantNameMr)
	doc.row("Father's Name", record.FatherName, record.FatherNameMr)
	doc.row("Date of Birth", record.DateOfBirth, translit.ToDevanagariDigits(record.DateOfBirth))
	doc.row("Village", record.Village, record.VillageMr)
	doc.row("Reason for Leaving", record.Reason, record.ReasonMr)
	doc.row("Address", record.Address, "")

	doc.footer(record.TrackingNumber, record.Status)
	return doc.output()
}

func (s *PrintService) fillLeavingMarathi(ctx context.Context, record *models.LeavingCertificate) {
	if s.translit == nil {
		return
	}

	filled := false
	if record.ApplicantNameMr == "" && record.ApplicantName != "" {
		record.ApplicantNameMr = s.translit.TranslateText(ctx, record.ApplicantName)
		filled = true
	}
	if record.FatherNameMr == "" && record.FatherName != "" {
		record.FatherNameMr = s.translit.TranslateText(ctx, record.FatherName)
		filled = true
	}
	if record.VillageMr == "" && record.Village != "" {
		record.VillageMr = s.translit.TranslateText(ctx, record.Village)
		filled = true
	}
	if record.ReasonMr == "" && record.Reason != "" {
		record.ReasonMr = s.translit.TranslateText(ctx, record.Reason)
		filled = true
	}

	if filled && s.leavingRepo != nil {
		if err := s.leavingRepo.SaveMarathiFields(ctx, record); err != nil {
			s.logger.Warn("failed to persist transliterated fields",
				zap.String("tracking_number", record.TrackingNumber), zap.Error(err))
		}
	}
}
