package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type User struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

  Email               string                    `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Password            string                    `gorm:"not null;column:password" json:"-"`
  PhoneNumber         *string                   `gorm:"column:phone_number" json:"phoneNumber,omitempty"`

  // Active gates login. Accounts start dormant and are only flipped on
  // by OTP verification.
  Active              bool                      `gorm:"not null;default:false;column:active" json:"active"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (User) TableName() string {
  return "user"
}

// PublicUser is the safe projection nested in listing and comment
// responses. It never carries credentials.
type PublicUser struct {
  ID          uuid.UUID   `json:"id"`
  Email       string      `json:"email"`
  PhoneNumber *string     `json:"phoneNumber,omitempty"`
}

func (u *User) Public() PublicUser {
  return PublicUser{ID: u.ID, Email: u.Email, PhoneNumber: u.PhoneNumber}
}
