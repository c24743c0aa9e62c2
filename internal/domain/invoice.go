package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

type Invoice struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	ClientID   uuid.UUID     `json:"client_id"`
	Number     string        `json:"number"`
	Status     InvoiceStatus `json:"status"`
	IssueDate  time.Time     `json:"issue_date"`
	DueDate    time.Time     `json:"due_date"`
	Notes      string        `json:"notes"`
	TotalCents int64         `json:"total_cents"`
	Items      []InvoiceItem `json:"items"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (i Invoice) OwnerID() uuid.UUID { return i.UserID }

type InvoiceItem struct {
	ID             uuid.UUID `json:"id"`
	InvoiceID      uuid.UUID `json:"invoice_id"`
	ProductID      uuid.UUID `json:"product_id"`
	Description    string    `json:"description"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	LineTotalCents int64     `json:"line_total_cents"`
}

// InvoiceNumber formats the per-tenant sequence value.
func InvoiceNumber(seq int64) string {
	return fmt.Sprintf("F-%06d", seq)
}
