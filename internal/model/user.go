package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleSuperuser = "superuser"
	RoleUser      = "user"
)

// User is a dashboard account. Password holds a bcrypt hash and is never serialised.
type User struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"size:128" json:"email"`
	Role       string    `gorm:"size:32;not null" json:"role"`
	Password   string    `gorm:"size:128" json:"-"`
	CreateDate time.Time `gorm:"not null" json:"create_date"`
}

// BeforeCreate assigns defaults and hashes the password. Whatever the caller
// supplied is treated as plaintext.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreateDate.IsZero() {
		u.CreateDate = time.Now().UTC()
	}
	if u.Password != "" {
		hashed, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	return nil
}

// HashPassword returns the bcrypt hash of raw.
func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
