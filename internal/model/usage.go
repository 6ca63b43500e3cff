package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Test slots a usage record can occupy.
const (
	SlotLA = "LA"
	SlotRA = "RA"
)

// Usage is one logged test run on a fixture part. The newest row per part is its current state.
type Usage struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	FixturePartID string    `gorm:"type:uuid;index;not null" json:"fixture_part_id"`
	TestSlot      string    `gorm:"size:16;not null" json:"test_slot"`
	TestStation   string    `gorm:"size:32" json:"test_station"`
	TestType      string    `gorm:"size:32" json:"test_type"`
	GPUPN         string    `gorm:"column:gpu_pn;size:32" json:"gpu_pn"`
	GPUSN         string    `gorm:"column:gpu_sn;size:32" json:"gpu_sn"`
	LogPath       string    `gorm:"size:256" json:"log_path"`
	Creator       string    `gorm:"size:32" json:"creator"`
	CreateDate    time.Time `gorm:"index;not null" json:"create_date"`
}

// TableName keeps the singular table name used by the dashboard and ETL jobs.
func (Usage) TableName() string {
	return "usage"
}

// BeforeCreate assigns the id and creation time when the caller left them empty.
func (u *Usage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreateDate.IsZero() {
		u.CreateDate = time.Now().UTC()
	}
	return nil
}
