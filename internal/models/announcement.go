package models

import "time"

// AnnouncementPriority drives display styling only; it has no workflow
// effect.
type AnnouncementPriority string

const (
	AnnouncementPriorityLow    AnnouncementPriority = "low"
	AnnouncementPriorityNormal AnnouncementPriority = "normal"
	AnnouncementPriorityHigh   AnnouncementPriority = "high"
	AnnouncementPriorityUrgent AnnouncementPriority = "urgent"
)

// Announcement is a public notice. Both language variants are required at
// creation.
type Announcement struct {
	ID            string               `db:"id" json:"id"`
	Title         string               `db:"title" json:"title"`
	TitleMr       string               `db:"title_mr" json:"title_mr"`
	Description   string               `db:"description" json:"description"`
	DescriptionMr string               `db:"description_mr" json:"description_mr"`
	Category      string               `db:"category" json:"category"`
	Priority      AnnouncementPriority `db:"priority" json:"priority"`
	Date          string               `db:"date" json:"date"`
	CreatedBy     string               `db:"created_by" json:"created_by"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `db:"updated_at" json:"updated_at"`
}

// AnnouncementFilter captures list filters.
type AnnouncementFilter struct {
	Category string
	Priority *AnnouncementPriority
	Page     int
	PageSize int
}
