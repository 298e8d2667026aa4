package model

import "github.com/google/uuid"

// Client is a customer of a Societe.
type Client struct {
	BaseModel
	SocieteID uuid.UUID `gorm:"type:uuid;not null;index" json:"societe_id"`
	Nom       string    `gorm:"type:varchar(255);not null" json:"nom"`
	Adresse   string    `gorm:"type:text" json:"adresse,omitempty"`
	Email     string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Telephone string    `gorm:"type:varchar(30)" json:"telephone,omitempty"`
	NumeroCC  string    `gorm:"column:numero_cc;type:varchar(50)" json:"numero_cc,omitempty"` // compte contribuable
}
