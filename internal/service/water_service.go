package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
	"github.com/gramseva/panchayat-api/pkg/tracking"
)

type waterRepository interface {
	CreateConnection(ctx context.Context, conn *models.WaterConnection) error
	GetConnectionByNumber(ctx context.Context, connectionNumber string) (*models.WaterConnection, error)
	ListBillsByConnection(ctx context.Context, connectionNumber string) ([]models.WaterBill, error)
	GetBillByID(ctx context.Context, id string) (*models.WaterBill, error)
	CreatePayment(ctx context.Context, payment *models.WaterPayment) error
	MarkBillPaid(ctx context.Context, billID string, paidAt time.Time) error
	CreatePropertyPayment(ctx context.Context, payment *models.PropertyPayment) error
}

// BulkUploadResult reports per-row accounting for a bulk upload. Valid
// rows are inserted even when others fail.
type BulkUploadResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// WaterPaymentRequest is the manual UPI payment confirmation payload.
type WaterPaymentRequest struct {
	ConnectionNumber string `json:"connection_number" validate:"required"`
	BillID           string `json:"bill_id"`
	AmountPaise      int64  `json:"amount_paise" validate:"required,gt=0"`
	UPITransactionID string `json:"upi_transaction_id" validate:"required,min=8"`
	PayerName        string `json:"payer_name" validate:"required"`
}

// PropertyPaymentRequest is the property-tax payment confirmation payload.
type PropertyPaymentRequest struct {
	PropertyNumber   string `json:"property_number" validate:"required"`
	OwnerName        string `json:"owner_name" validate:"required"`
	AmountPaise      int64  `json:"amount_paise" validate:"required,gt=0"`
	UPITransactionID string `json:"upi_transaction_id" validate:"required,min=8"`
	Contact          string `json:"contact" validate:"required,len=10,numeric"`
}

var contactPattern = regexp.MustCompile(`^[0-9]{10}$`)

// WaterService handles water connection onboarding, bill lookups and
// manual payment confirmations.
type WaterService struct {
	repo      waterRepository
	audit     auditRecorder
	generator *tracking.Generator
	maxSheet  int64
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWaterService creates an instance of WaterService.
func NewWaterService(repo waterRepository, audit auditRecorder, generator *tracking.Generator, maxSheet int64, validate *validator.Validate, logger *zap.Logger) *WaterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if generator == nil {
		generator = tracking.NewGenerator()
	}
	if maxSheet <= 0 {
		maxSheet = 5 << 20
	}
	return &WaterService{repo: repo, audit: audit, generator: generator, maxSheet: maxSheet, validator: validate, logger: logger}
}

// UploadConnections ingests a CSV or XLSX sheet of connections. Expected
// columns: connection_number, owner_name, owner_name_mr, address,
// contact, connection_type. The first row is treated as a header.
func (s *WaterService) UploadConnections(ctx context.Context, header *multipart.FileHeader, actorID string, meta models.RequestMeta) (*BulkUploadResult, error) {
	rows, err := s.readSheet(header)
	if err != nil {
		return nil, err
	}

	result := &BulkUploadResult{Errors: []string{}}
	for i, row := range rows {
		rowNum := i + 2 // 1-based, after header

		conn, rowErr := parseConnectionRow(row)
		if rowErr == nil {
			rowErr = s.repo.CreateConnection(ctx, conn)
		}
		if rowErr != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, rowErr))
			continue
		}
		result.Success++
	}

	s.logger.Info("water connection upload processed",
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
	)

	payload, _ := json.Marshal(result)
	s.recordAudit(ctx, actorID, models.AuditActionBulkUpload, "water_connections", payload, meta)

	return result, nil
}

// Bills returns all bills for a connection number, newest period first.
func (s *WaterService) Bills(ctx context.Context, connectionNumber string) (*models.WaterConnection, []models.WaterBill, error) {
	conn, err := s.repo.GetConnectionByNumber(ctx, connectionNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "no connection found for this number")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up connection")
	}

	bills, err := s.repo.ListBillsByConnection(ctx, connectionNumber)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bills")
	}
	if bills == nil {
		bills = []models.WaterBill{}
	}

	return conn, bills, nil
}

// RecordPayment stores a manually confirmed UPI payment and, when it
// targets a specific bill, marks that bill settled.
func (s *WaterService) RecordPayment(ctx context.Context, req WaterPaymentRequest) (*models.WaterPayment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	if _, err := s.repo.GetConnectionByNumber(ctx, req.ConnectionNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no connection found for this number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up connection")
	}

	payment := &models.WaterPayment{
		ID:               uuid.NewString(),
		ConnectionNumber: req.ConnectionNumber,
		AmountPaise:      req.AmountPaise,
		UPITransactionID: req.UPITransactionID,
		PayerName:        req.PayerName,
	}

	if req.BillID != "" {
		bill, err := s.repo.GetBillByID(ctx, req.BillID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "bill not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bill")
		}
		if bill.ConnectionNumber != req.ConnectionNumber {
			return nil, appErrors.Clone(appErrors.ErrValidation, "bill does not belong to this connection")
		}
		payment.BillID = &req.BillID
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	if payment.BillID != nil {
		if err := s.repo.MarkBillPaid(ctx, *payment.BillID, time.Now().UTC()); err != nil {
			s.logger.Warn("payment stored but bill not marked paid",
				zap.String("bill_id", *payment.BillID), zap.Error(err))
		}
	}

	return payment, nil
}

// UploadPayments ingests a CSV or XLSX sheet of payments. Expected
// columns: connection_number, amount_paise, upi_transaction_id,
// payer_name. Same per-row accounting as connection uploads.
func (s *WaterService) UploadPayments(ctx context.Context, header *multipart.FileHeader, actorID string, meta models.RequestMeta) (*BulkUploadResult, error) {
	rows, err := s.readSheet(header)
	if err != nil {
		return nil, err
	}

	result := &BulkUploadResult{Errors: []string{}}
	for i, row := range rows {
		rowNum := i + 2

		payment, rowErr := parsePaymentRow(row)
		if rowErr == nil {
			rowErr = s.repo.CreatePayment(ctx, payment)
		}
		if rowErr != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, rowErr))
			continue
		}
		result.Success++
	}

	payload, _ := json.Marshal(result)
	s.recordAudit(ctx, actorID, models.AuditActionBulkUpload, "water_payments", payload, meta)

	return result, nil
}

// RecordPropertyPayment stores a property-tax payment confirmation and
// issues its tracking number.
func (s *WaterService) RecordPropertyPayment(ctx context.Context, req PropertyPaymentRequest) (*models.PropertyPayment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid property payment payload")
	}

	payment := &models.PropertyPayment{
		ID:               uuid.NewString(),
		TrackingNumber:   s.generator.Next(tracking.PrefixProperty),
		PropertyNumber:   req.PropertyNumber,
		OwnerName:        req.OwnerName,
		AmountPaise:      req.AmountPaise,
		UPITransactionID: req.UPITransactionID,
		Contact:          req.Contact,
	}

	if err := s.repo.CreatePropertyPayment(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record property payment")
	}

	return payment, nil
}

// readSheet pulls data rows out of a CSV or XLSX upload, skipping the
// header row.
func (s *WaterService) readSheet(header *multipart.FileHeader) ([][]string, error) {
	if header == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no file uploaded")
	}
	if header.Size > s.maxSheet {
		return nil, appErrors.Clone(appErrors.ErrUploadTooLarge, fmt.Sprintf("sheet exceeds %d bytes", s.maxSheet))
	}

	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload")
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		return readCSVRows(file)
	case ".xlsx":
		return readXLSXRows(file)
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "upload must be .csv or .xlsx")
	}
}

func readCSVRows(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "failed to parse CSV")
	}
	if len(records) <= 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sheet has no data rows")
	}
	return records[1:], nil
}

func readXLSXRows(file io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "failed to parse XLSX")
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workbook has no sheets")
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnsupportedFormat.Code, appErrors.ErrUnsupportedFormat.Status, "failed to read XLSX rows")
	}
	if len(rows) <= 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sheet has no data rows")
	}
	return rows[1:], nil
}

func parseConnectionRow(row []string) (*models.WaterConnection, error) {
	if len(row) < 6 {
		return nil, fmt.Errorf("expected 6 columns, got %d", len(row))
	}

	conn := &models.WaterConnection{
		ConnectionNumber: strings.TrimSpace(row[0]),
		OwnerName:        strings.TrimSpace(row[1]),
		OwnerNameMr:      strings.TrimSpace(row[2]),
		Address:          strings.TrimSpace(row[3]),
		Contact:          strings.TrimSpace(row[4]),
		ConnectionType:   strings.TrimSpace(row[5]),
	}

	if conn.ConnectionNumber == "" {
		return nil, errors.New("connection_number is required")
	}
	if conn.OwnerName == "" {
		return nil, errors.New("owner_name is required")
	}
	if conn.Contact != "" && !contactPattern.MatchString(conn.Contact) {
		return nil, errors.New("contact must be 10 digits")
	}

	return conn, nil
}

func parsePaymentRow(row []string) (*models.WaterPayment, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("expected 4 columns, got %d", len(row))
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
	if err != nil || amount <= 0 {
		return nil, errors.New("amount_paise must be a positive integer")
	}

	payment := &models.WaterPayment{
		ConnectionNumber: strings.TrimSpace(row[0]),
		AmountPaise:      amount,
		UPITransactionID: strings.TrimSpace(row[2]),
		PayerName:        strings.TrimSpace(row[3]),
	}

	if payment.ConnectionNumber == "" {
		return nil, errors.New("connection_number is required")
	}
	if len(payment.UPITransactionID) < 8 {
		return nil, errors.New("upi_transaction_id must be at least 8 characters")
	}

	return payment, nil
}

func (s *WaterService) recordAudit(ctx context.Context, actorID string, action models.AuditAction, resource string, newValues []byte, meta models.RequestMeta) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:    &actorID,
		Action:    action,
		Resource:  resource,
		NewValues: newValues,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record water audit log", zap.Error(err))
	}
}
