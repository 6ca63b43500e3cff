package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Maintenance event types.
const (
	EventTypeScheduled = "Scheduled"
	EventTypeEmergency = "Emergency"
	EventTypeUnknown   = "Unknown"
)

// Maintenance recurrence values.
const (
	OccuranceDaily     = "Daily"
	OccuranceWeekly    = "Weekly"
	OccuranceMonthly   = "Monthly"
	OccuranceQuarterly = "Quarterly"
	OccuranceOnce      = "Once"
)

// MaintenanceEvent is a service ticket against a fixture.
type MaintenanceEvent struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	FixtureID     string     `gorm:"type:uuid;index;not null" json:"fixture_id"`
	EventType     string     `gorm:"size:32" json:"event_type"`
	StartDateTime *time.Time `gorm:"index" json:"start_date_time"`
	EndDateTime   *time.Time `json:"end_date_time"`
	Occurance     string     `gorm:"size:16" json:"occurance"`
	Comments      string     `gorm:"size:256" json:"comments"`
	IsCompleted   bool       `gorm:"not null;default:false" json:"is_completed"`
	Creator       string     `gorm:"size:32" json:"creator"`
	CreateDate    time.Time  `gorm:"not null" json:"create_date"`
}

func (MaintenanceEvent) TableName() string {
	return "fixture_maintenance"
}

// BeforeCreate assigns the id and creation time when the caller left them empty.
func (m *MaintenanceEvent) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreateDate.IsZero() {
		m.CreateDate = time.Now().UTC()
	}
	return nil
}
