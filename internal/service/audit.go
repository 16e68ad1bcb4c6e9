package service

import (
	"context"

	"github.com/gramseva/panchayat-api/internal/models"
)

// auditRecorder persists admin activity. Satisfied by the user
// repository, which owns the audit_logs table.
type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}
