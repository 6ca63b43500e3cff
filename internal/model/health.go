package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Observed fixture statuses.
const (
	HealthActive           = "active"
	HealthNoResponse       = "no_response"
	HealthUnderMaintenance = "under_maintenance"
	HealthRMA              = "RMA"
)

// HealthEvent is a point-in-time status observation for a fixture.
type HealthEvent struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	FixtureID  string    `gorm:"type:uuid;index;not null" json:"fixture_id"`
	Status     string    `gorm:"size:32;not null" json:"status"`
	Comments   string    `gorm:"size:256" json:"comments"`
	Creator    string    `gorm:"size:32" json:"creator"`
	CreateDate time.Time `gorm:"index;not null" json:"create_date"`
}

func (HealthEvent) TableName() string {
	return "health"
}

// BeforeCreate assigns the id and creation time when the caller left them empty.
func (h *HealthEvent) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreateDate.IsZero() {
		h.CreateDate = time.Now().UTC()
	}
	return nil
}
