package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tester types a fixture part can be created with.
const (
	TesterTypeLASlot = "LA Slot"
	TesterTypeRASlot = "RA Slot"
)

// FixturePart is a child of a fixture, normally one of its two test slots.
type FixturePart struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	ParentFixtureID string    `gorm:"type:uuid;index;not null" json:"parent_fixture_id"`
	TesterType      string    `gorm:"size:32;not null" json:"tester_type"`
	FixtureSN       string    `gorm:"column:fixture_sn;size:32" json:"fixture_sn"`
	TestType        string    `gorm:"size:32" json:"test_type"`
	Creator         string    `gorm:"size:32" json:"creator"`
	CreateDate      time.Time `gorm:"not null" json:"create_date"`
}

// BeforeCreate assigns the id and creation time when the caller left them empty.
func (p *FixturePart) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreateDate.IsZero() {
		p.CreateDate = time.Now().UTC()
	}
	return nil
}
