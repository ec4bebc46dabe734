package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

const (
  ListingStatusAvailable = "available"
  ListingStatusSold      = "sold"
)

type Listing struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID              uuid.UUID                 `gorm:"index;not null" json:"userID"`
  User                *User                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  CategoryID          *uuid.UUID                `gorm:"index" json:"categoryID,omitempty"`
  Category            *Category                 `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"category,omitempty"`

  Title               string                    `gorm:"not null;column:title" json:"title"`
  Description         string                    `gorm:"not null;column:description" json:"description"`
  Price               string                    `gorm:"type:numeric(10,2);not null;column:price" json:"price"`
  Status              string                    `gorm:"not null;default:available;column:status" json:"status"`
  PhoneNumber         string                    `gorm:"not null;column:phone_number" json:"phoneNumber"`
  ImageBucketKey      string                    `gorm:"column:image_bucket_key" json:"-"`
  ImageURL            string                    `gorm:"column:image_url" json:"imageURL,omitempty"`

  Comments            []Comment                 `gorm:"foreignKey:ListingID" json:"comments,omitempty"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Listing) TableName() string {
  return "listing"
}
