package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"regexp"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

type mockWaterRepo struct {
	connections map[string]*models.WaterConnection
	bills       map[string]*models.WaterBill
	payments    []models.WaterPayment
	propertyTx  []models.PropertyPayment
	paidBills   []string
	createErr   error
	markPaidErr error
}

func (m *mockWaterRepo) CreateConnection(ctx context.Context, conn *models.WaterConnection) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.connections == nil {
		m.connections = make(map[string]*models.WaterConnection)
	}
	cp := *conn
	m.connections[conn.ConnectionNumber] = &cp
	return nil
}

func (m *mockWaterRepo) GetConnectionByNumber(ctx context.Context, connectionNumber string) (*models.WaterConnection, error) {
	if conn, ok := m.connections[connectionNumber]; ok {
		cp := *conn
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockWaterRepo) ListBillsByConnection(ctx context.Context, connectionNumber string) ([]models.WaterBill, error) {
	var out []models.WaterBill
	for _, bill := range m.bills {
		if bill.ConnectionNumber == connectionNumber {
			out = append(out, *bill)
		}
	}
	return out, nil
}

func (m *mockWaterRepo) GetBillByID(ctx context.Context, id string) (*models.WaterBill, error) {
	if bill, ok := m.bills[id]; ok {
		cp := *bill
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockWaterRepo) CreatePayment(ctx context.Context, payment *models.WaterPayment) error {
	m.payments = append(m.payments, *payment)
	return nil
}

func (m *mockWaterRepo) MarkBillPaid(ctx context.Context, billID string, paidAt time.Time) error {
	if m.markPaidErr != nil {
		return m.markPaidErr
	}
	m.paidBills = append(m.paidBills, billID)
	return nil
}

func (m *mockWaterRepo) CreatePropertyPayment(ctx context.Context, payment *models.PropertyPayment) error {
	m.propertyTx = append(m.propertyTx, *payment)
	return nil
}

// sheetHeader builds a real multipart file header around in-memory content.
func sheetHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func TestWaterServiceUploadConnections(t *testing.T) {
	repo := &mockWaterRepo{}
	audit := &mockAudit{}
	service := NewWaterService(repo, audit, nil, 0, validator.New(), zap.NewNop())

	sheet := "connection_number,owner_name,owner_name_mr,address,contact,connection_type\n" +
		"WC-101,Ramesh Patil,रमेश पाटील,Ward 3,9876543210,domestic\n" +
		"WC-102,Sunita More,सुनीता मोरे,Ward 1,9876543211,domestic\n" +
		",Missing Number,,Ward 2,9876543212,domestic\n" +
		"WC-104,Bad Contact,,Ward 4,12345,domestic\n"

	result, err := service.UploadConnections(context.Background(), sheetHeader(t, "connections.csv", sheet), "admin-1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "row 4:")
	assert.Contains(t, result.Errors[1], "row 5:")
	assert.Len(t, repo.connections, 2)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionBulkUpload, audit.logs[0].Action)
}

func TestWaterServiceUploadRejectsUnknownExtension(t *testing.T) {
	service := NewWaterService(&mockWaterRepo{}, nil, nil, 0, validator.New(), zap.NewNop())

	_, err := service.UploadConnections(context.Background(), sheetHeader(t, "connections.pdf", "junk"), "admin-1", models.RequestMeta{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, appErr.Code)
}

func TestWaterServiceUploadRejectsHeaderOnlySheet(t *testing.T) {
	service := NewWaterService(&mockWaterRepo{}, nil, nil, 0, validator.New(), zap.NewNop())

	_, err := service.UploadConnections(context.Background(), sheetHeader(t, "connections.csv", "connection_number,owner_name\n"), "admin-1", models.RequestMeta{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestWaterServiceUploadPayments(t *testing.T) {
	repo := &mockWaterRepo{}
	service := NewWaterService(repo, &mockAudit{}, nil, 0, validator.New(), zap.NewNop())

	sheet := "connection_number,amount_paise,upi_transaction_id,payer_name\n" +
		"WC-101,45000,UPI12345678,Ramesh Patil\n" +
		"WC-102,notanumber,UPI87654321,Sunita More\n" +
		"WC-103,30000,short,Anil Jadhav\n"

	result, err := service.UploadPayments(context.Background(), sheetHeader(t, "payments.csv", sheet), "admin-1", models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, repo.payments, 1)
	assert.Equal(t, int64(45000), repo.payments[0].AmountPaise)
}

func TestWaterServiceRecordPaymentMarksBill(t *testing.T) {
	repo := &mockWaterRepo{
		connections: map[string]*models.WaterConnection{
			"WC-101": {ConnectionNumber: "WC-101", OwnerName: "Ramesh Patil"},
		},
		bills: map[string]*models.WaterBill{
			"b1": {ID: "b1", ConnectionNumber: "WC-101", AmountPaise: 45000},
		},
	}
	service := NewWaterService(repo, nil, nil, 0, validator.New(), zap.NewNop())

	payment, err := service.RecordPayment(context.Background(), WaterPaymentRequest{
		ConnectionNumber: "WC-101",
		BillID:           "b1",
		AmountPaise:      45000,
		UPITransactionID: "UPI12345678",
		PayerName:        "Ramesh Patil",
	})
	require.NoError(t, err)
	require.NotNil(t, payment.BillID)
	assert.Equal(t, []string{"b1"}, repo.paidBills)
}

func TestWaterServiceRecordPaymentWrongConnectionBill(t *testing.T) {
	repo := &mockWaterRepo{
		connections: map[string]*models.WaterConnection{
			"WC-101": {ConnectionNumber: "WC-101"},
		},
		bills: map[string]*models.WaterBill{
			"b1": {ID: "b1", ConnectionNumber: "WC-999"},
		},
	}
	service := NewWaterService(repo, nil, nil, 0, validator.New(), zap.NewNop())

	_, err := service.RecordPayment(context.Background(), WaterPaymentRequest{
		ConnectionNumber: "WC-101",
		BillID:           "b1",
		AmountPaise:      45000,
		UPITransactionID: "UPI12345678",
		PayerName:        "Ramesh Patil",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.paidBills)
}

func TestWaterServiceRecordPaymentSurvivesMarkPaidFailure(t *testing.T) {
	repo := &mockWaterRepo{
		connections: map[string]*models.WaterConnection{
			"WC-101": {ConnectionNumber: "WC-101"},
		},
		bills: map[string]*models.WaterBill{
			"b1": {ID: "b1", ConnectionNumber: "WC-101"},
		},
		markPaidErr: errors.New("db down"),
	}
	service := NewWaterService(repo, nil, nil, 0, validator.New(), zap.NewNop())

	payment, err := service.RecordPayment(context.Background(), WaterPaymentRequest{
		ConnectionNumber: "WC-101",
		BillID:           "b1",
		AmountPaise:      45000,
		UPITransactionID: "UPI12345678",
		PayerName:        "Ramesh Patil",
	})
	require.NoError(t, err)
	assert.NotNil(t, payment.BillID)
	assert.Len(t, repo.payments, 1)
}

func TestWaterServiceRecordPropertyPayment(t *testing.T) {
	repo := &mockWaterRepo{}
	service := NewWaterService(repo, nil, nil, 0, validator.New(), zap.NewNop())

	payment, err := service.RecordPropertyPayment(context.Background(), PropertyPaymentRequest{
		PropertyNumber:   "PN-2031",
		OwnerName:        "Sunita More",
		AmountPaise:      120000,
		UPITransactionID: "UPI22334455",
		Contact:          "9876543211",
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PRP\d{8}$`), payment.TrackingNumber)
	assert.Len(t, repo.propertyTx, 1)
}
