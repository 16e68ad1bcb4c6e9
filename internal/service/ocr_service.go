package service

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

// BirthCertificatePrefill carries fields recognised in a scanned birth
// certificate, used by the entry form to prefill the application.
type BirthCertificatePrefill struct {
	ChildName    string `json:"child_name"`
	Gender       string `json:"gender"`
	DateOfBirth  string `json:"date_of_birth"`
	PlaceOfBirth string `json:"place_of_birth"`
	FatherName   string `json:"father_name"`
	MotherName   string `json:"mother_name"`
}

// OCRService extracts embedded text from uploaded PDF documents. Image-only
// scans produce empty text; the portal does not raster-OCR.
type OCRService struct {
	maxSize int64
	logger  *zap.Logger
}

// NewOCRService creates an instance of OCRService.
func NewOCRService(maxSize int64, logger *zap.Logger) *OCRService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	return &OCRService{maxSize: maxSize, logger: logger}
}

// ExtractText reads the uploaded PDF and returns its embedded text.
func (s *OCRService) ExtractText(file io.Reader, size int64) (string, error) {
	if size > s.maxSize {
		return "", appErrors.Clone(appErrors.ErrUploadTooLarge, fmt.Sprintf("pdf exceeds %d bytes", s.maxSize))
	}

	buf, err := io.ReadAll(io.LimitReader(file, s.maxSize+1))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	if int64(len(buf)) > s.maxSize {
		return "", appErrors.Clone(appErrors.ErrUploadTooLarge, fmt.Sprintf("pdf exceeds %d bytes", s.maxSize))
	}
	if !bytes.HasPrefix(buf, []byte("%PDF-")) {
		return "", appErrors.Clone(appErrors.ErrUnsupportedFormat, "file is not a PDF document")
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "failed to parse PDF")
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "failed to extract PDF text")
	}

	var out strings.Builder
	if _, err := io.Copy(&out, textReader); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extract PDF text")
	}

	return out.String(), nil
}

// ExtractBirthCertificate extracts text and recognises the labelled
// fields used on printed birth certificates. Unrecognised fields stay
// empty; the operator completes them by hand.
func (s *OCRService) ExtractBirthCertificate(file io.Reader, size int64) (*BirthCertificatePrefill, string, error) {
	text, err := s.ExtractText(file, size)
	if err != nil {
		return nil, "", err
	}

	prefill := parseBirthFields(text)

	s.logger.Info("birth certificate prefill extracted",
		zap.Bool("child_name_found", prefill.ChildName != ""),
		zap.Bool("date_of_birth_found", prefill.DateOfBirth != ""),
	)

	return prefill, text, nil
}

var birthFieldPatterns = map[string]*regexp.Regexp{
	"child":  regexp.MustCompile(`(?i)(?:name of (?:the )?child|child'?s? name)\s*[:\-]?\s*([A-Za-z .]+)`),
	"dob":    regexp.MustCompile(`(?i)date of birth\s*[:\-]?\s*([0-9]{1,2}[-/][0-9]{1,2}[-/][0-9]{2,4})`),
	"place":  regexp.MustCompile(`(?i)place of birth\s*[:\-]?\s*([A-Za-z ,.]+)`),
	"father": regexp.MustCompile(`(?i)(?:name of (?:the )?father|father'?s? name)\s*[:\-]?\s*([A-Za-z .]+)`),
	"mother": regexp.MustCompile(`(?i)(?:name of (?:the )?mother|mother'?s? name)\s*[:\-]?\s*([A-Za-z .]+)`),
	"gender": regexp.MustCompile(`(?i)(?:sex|gender)\s*[:\-]?\s*(male|female|other)`),
}

func parseBirthFields(text string) *BirthCertificatePrefill {
	prefill := &BirthCertificatePrefill{}

	extract := func(key string) string {
		m := birthFieldPatterns[key].FindStringSubmatch(text)
		if len(m) < 2 {
			return ""
		}
		return strings.TrimSpace(m[1])
	}

	prefill.ChildName = extract("child")
	prefill.DateOfBirth = extract("dob")
	prefill.PlaceOfBirth = extract("place")
	prefill.FatherName = extract("father")
	prefill.MotherName = extract("mother")
	prefill.Gender = strings.ToLower(extract("gender"))

	return prefill
}
