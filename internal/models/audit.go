package models

import "time"

// AuditAction identifies what an admin did.
type AuditAction string

const (
	AuditActionLogin        AuditAction = "LOGIN"
	AuditActionLogout       AuditAction = "LOGOUT"
	AuditActionUserCreate   AuditAction = "USER_CREATE"
	AuditActionUserUpdate   AuditAction = "USER_UPDATE"
	AuditActionUserDelete   AuditAction = "USER_DELETE"
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
	AuditActionRecordCreate AuditAction = "RECORD_CREATE"
	AuditActionRecordUpdate AuditAction = "RECORD_UPDATE"
	AuditActionRecordDelete AuditAction = "RECORD_DELETE"
	AuditActionBulkUpload   AuditAction = "BULK_UPLOAD"
)

// RequestMeta carries the request attributes stamped onto audit rows.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// AuditLog records an administrative mutation for accountability.
type AuditLog struct {
	ID         string      `db:"id" json:"id"`
	UserID     *string     `db:"user_id" json:"user_id,omitempty"`
	Action     AuditAction `db:"action" json:"action"`
	Resource   string      `db:"resource" json:"resource"`
	ResourceID *string     `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte      `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte      `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string      `db:"ip_address" json:"ip_address"`
	UserAgent  string      `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
