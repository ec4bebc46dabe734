package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// OneTimeCodeValidFor is how long a code stays usable after issuance.
const OneTimeCodeValidFor = 10 * time.Minute

type OneTimeCode struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
  UserID              uuid.UUID                 `gorm:"index;not null"`
  User                *User                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`

  Code                string                    `gorm:"not null;column:code"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()"`
}

func (OneTimeCode) TableName() string {
  return "one_time_code"
}

// Valid reports whether the code is still inside its window at the given
// instant. Validity is a pure function of CreatedAt.
func (c *OneTimeCode) Valid(now time.Time) bool {
  return !now.After(c.CreatedAt.Add(OneTimeCodeValidFor))
}
