package models

import "time"

// ComplaintCategory groups citizen complaints for triage.
type ComplaintCategory string

const (
	ComplaintCategoryWater       ComplaintCategory = "water"
	ComplaintCategoryRoads       ComplaintCategory = "roads"
	ComplaintCategorySanitation  ComplaintCategory = "sanitation"
	ComplaintCategoryElectricity ComplaintCategory = "electricity"
	ComplaintCategoryOther       ComplaintCategory = "other"
)

// Complaint is a citizen-submitted grievance. The tracking number is
// assigned at creation and never changes afterwards.
type Complaint struct {
	ID             string            `db:"id" json:"id"`
	TrackingNumber string            `db:"tracking_number" json:"tracking_number"`
	Name           string            `db:"name" json:"name"`
	Contact        string            `db:"contact" json:"contact"`
	Address        string            `db:"address" json:"address"`
	Category       ComplaintCategory `db:"category" json:"category"`
	Description    string            `db:"description" json:"description"`
	Status         RecordStatus      `db:"status" json:"status"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// ComplaintFilter captures admin list filters.
type ComplaintFilter struct {
	Status   *RecordStatus
	Category *ComplaintCategory
	Search   string
	Page     int
	PageSize int
}
