package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type Comment struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID              uuid.UUID                 `gorm:"index;not null" json:"userID"`
  User                *User                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  ListingID           uuid.UUID                 `gorm:"index;not null" json:"listingID"`
  Listing             *Listing                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ListingID;references:ID" json:"-"`

  Text                string                    `gorm:"not null;column:text" json:"text"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Comment) TableName() string {
  return "comment"
}
