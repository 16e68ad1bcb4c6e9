package service

import (
	"github.com/gramseva/panchayat-api/internal/models"
	appErrors "github.com/gramseva/panchayat-api/pkg/errors"
)

// checkTransition validates a requested status change against the
// enforced lifecycle. Unknown values are a validation error; known but
// out-of-order values are a transition conflict.
func checkTransition(current models.RecordStatus, next models.RecordStatus) error {
	if !models.ValidStatus(next) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown status value")
	}
	if !models.CanTransition(current, next) {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "cannot move from "+string(current)+" to "+string(next))
	}
	return nil
}

func listPagination(page, pageSize, total int) *models.Pagination {
	page, pageSize = models.NormalizePage(page, pageSize)
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
