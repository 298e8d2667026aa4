package model

import "github.com/google/uuid"

// Societe is the tenant: every business row carries its SocieteID.
type Societe struct {
	BaseModel
	Nom     string    `gorm:"type:varchar(255);not null" json:"nom"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   *User     `gorm:"foreignKey:OwnerID" json:"-"`
}
