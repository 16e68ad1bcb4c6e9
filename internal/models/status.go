package models

// RecordStatus tracks the lifecycle of citizen-submitted records.
type RecordStatus string

const (
	StatusPending    RecordStatus = "pending"
	StatusProcessing RecordStatus = "processing"
	StatusApproved   RecordStatus = "approved"
	StatusRejected   RecordStatus = "rejected"
)

// allowedTransitions is the enforced lifecycle ordering. Reversals out of
// approved or rejected are not permitted.
var allowedTransitions = map[RecordStatus][]RecordStatus{
	StatusPending:    {StatusProcessing, StatusApproved, StatusRejected},
	StatusProcessing: {StatusApproved, StatusRejected},
	StatusApproved:   {},
	StatusRejected:   {},
}

// ValidStatus reports whether the value is a known lifecycle status.
func ValidStatus(s RecordStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving from one status to another is
// allowed. Setting the same status again is treated as a no-op and allowed.
func CanTransition(from, to RecordStatus) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
