package domain

import (
	"time"

	"github.com/google/uuid"
)

type ClientType string

const (
	ClientTypeNatural   ClientType = "NATURAL"
	ClientTypeJuridical ClientType = "JURIDICAL"
)

type Client struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"user_id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address"`
	LegalName          string     `json:"legal_name"`
	TaxID              string     `json:"tax_id"`
	RegistrationNumber string     `json:"registration_number"`
	DutyID             string     `json:"duty_id"`
	BusinessActivity   string     `json:"business_activity"`
	Type               ClientType `json:"type"`
	CreatedAt          time.Time  `json:"created_at"`
}

// OwnerID implements tenant.Owned.
func (c Client) OwnerID() uuid.UUID { return c.UserID }
