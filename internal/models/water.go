package models

import "time"

// WaterConnection identifies a metered household connection. Connection
// numbers are assigned by the panchayat office and unique per village.
type WaterConnection struct {
	ID               string    `db:"id" json:"id"`
	ConnectionNumber string    `db:"connection_number" json:"connection_number"`
	OwnerName        string    `db:"owner_name" json:"owner_name"`
	OwnerNameMr      string    `db:"owner_name_mr" json:"owner_name_mr"`
	Address          string    `db:"address" json:"address"`
	Contact          string    `db:"contact" json:"contact"`
	ConnectionType   string    `db:"connection_type" json:"connection_type"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// WaterBill is a billing period entry for a connection.
type WaterBill struct {
	ID               string     `db:"id" json:"id"`
	ConnectionNumber string     `db:"connection_number" json:"connection_number"`
	BillingPeriod    string     `db:"billing_period" json:"billing_period"`
	AmountPaise      int64      `db:"amount_paise" json:"amount_paise"`
	DueDate          string     `db:"due_date" json:"due_date"`
	Paid             bool       `db:"paid" json:"paid"`
	PaidAt           *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// WaterPayment is a manually confirmed UPI payment against a bill. No
// gateway integration exists; the citizen types the transaction id.
type WaterPayment struct {
	ID               string    `db:"id" json:"id"`
	ConnectionNumber string    `db:"connection_number" json:"connection_number"`
	BillID           *string   `db:"bill_id" json:"bill_id,omitempty"`
	AmountPaise      int64     `db:"amount_paise" json:"amount_paise"`
	UPITransactionID string    `db:"upi_transaction_id" json:"upi_transaction_id"`
	PayerName        string    `db:"payer_name" json:"payer_name"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// PropertyPayment is a property-tax payment confirmation, same manual
// UPI shape as water payments.
type PropertyPayment struct {
	ID               string    `db:"id" json:"id"`
	TrackingNumber   string    `db:"tracking_number" json:"tracking_number"`
	PropertyNumber   string    `db:"property_number" json:"property_number"`
	OwnerName        string    `db:"owner_name" json:"owner_name"`
	AmountPaise      int64     `db:"amount_paise" json:"amount_paise"`
	UPITransactionID string    `db:"upi_transaction_id" json:"upi_transaction_id"`
	Contact          string    `db:"contact" json:"contact"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
