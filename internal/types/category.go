package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type Category struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

  Name                string                    `gorm:"not null;column:name" json:"name"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Category) TableName() string {
  return "category"
}
