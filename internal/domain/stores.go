package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, s Settings) (*User, error)
}

// Every tenant-scoped store method takes the owning user id and never returns
// rows owned by anyone else.

type ClientStore interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Client, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Client, error)
}

type ProductStore interface {
	Create(ctx context.Context, p *Product) error
	GetByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]Product, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Product, error)
}

type InvoiceStore interface {
	// Create assigns the next per-tenant number and writes the invoice and
	// its items atomically.
	Create(ctx context.Context, inv *Invoice) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Invoice, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
