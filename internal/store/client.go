package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClientStore struct {
	db *pgxpool.Pool
}

func NewClientStore(db *pgxpool.Pool) *ClientStore {
	return &ClientStore{db: db}
}

const clientColumns = `id, user_id, name, email, phone, address, legal_name, tax_id,
	registration_number, duty_id, business_activity, client_type, created_at`

func scanClient(row pgx.Row) (domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.LegalName,
		&c.TaxID, &c.RegistrationNumber, &c.DutyID, &c.BusinessActivity, &c.Type, &c.CreatedAt)
	return c, err
}

func (s *ClientStore) Create(ctx context.Context, c *domain.Client) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO clients (user_id, name, email, phone, address, legal_name, tax_id,
			registration_number, duty_id, business_activity, client_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		c.UserID, c.Name, c.Email, c.Phone, c.Address, c.LegalName, c.TaxID,
		c.RegistrationNumber, c.DutyID, c.BusinessActivity, string(c.Type),
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *ClientStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Client, error) {
	c, err := scanClient(s.db.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *ClientStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Client, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+clientColumns+` FROM clients
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
