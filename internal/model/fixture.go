package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generation tags a fixture can carry. Every fixture row is a B Tester.
const (
	GenTypeGen3BTester = "Gen3 B Tester"
	GenTypeGen5BTester = "Gen5 B Tester"
)

// Test-type classifications shared by fixtures, parts and usage records.
const (
	TestTypeRefurbish = "Refurbish"
	TestTypeSort      = "Sort"
	TestTypeDebug     = "Debug"
)

// Fixture is a B Tester that can host one LA and one RA slot part.
type Fixture struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	FixtureName string    `gorm:"size:32;uniqueIndex;not null" json:"fixture_name"`
	GenType     string    `gorm:"size:32;not null" json:"gen_type"`
	Rack        string    `gorm:"size:32" json:"rack"`
	FixtureSN   string    `gorm:"column:fixture_sn;size:32" json:"fixture_sn"`
	TestType    string    `gorm:"size:32" json:"test_type"`
	IPAddress   string    `gorm:"size:16" json:"ip_address"`
	MACAddress  string    `gorm:"column:mac_address;size:17" json:"mac_address"`
	Creator     string    `gorm:"size:32" json:"creator"`
	CreateDate  time.Time `gorm:"not null" json:"create_date"`

	// Associations
	Parts []FixturePart `gorm:"foreignKey:ParentFixtureID" json:"-"`
}

// BeforeCreate assigns the id and creation time when the caller left them empty.
func (f *Fixture) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreateDate.IsZero() {
		f.CreateDate = time.Now().UTC()
	}
	return nil
}

// IsBTester reports whether the generation tag marks a parent-capable tester.
func IsBTester(genType string) bool {
	return genType == GenTypeGen3BTester || genType == GenTypeGen5BTester
}
