package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a tenant: the account that owns clients, products and invoices.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Name               string    `json:"name"`
	LegalName          string    `json:"legal_name"`
	TaxID              string    `json:"tax_id"`
	RegistrationNumber string    `json:"registration_number"`
	BusinessActivity   string    `json:"business_activity"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Settings is the mutable profile of a User.
type Settings struct {
	Name               string
	Email              string
	LegalName          string
	TaxID              string
	RegistrationNumber string
	BusinessActivity   string
	Address            string
	Phone              string
}
