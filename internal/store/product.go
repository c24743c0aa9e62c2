package store

import (
	"context"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductStore struct {
	db *pgxpool.Pool
}

func NewProductStore(db *pgxpool.Pool) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, user_id, name, description, unit, price_cents, created_at`

func (s *ProductStore) Create(ctx context.Context, p *domain.Product) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO products (user_id, name, description, unit, price_cents)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.UserID, p.Name, p.Description, p.Unit, p.PriceCents,
	).Scan(&p.ID, &p.CreatedAt)
}

// GetByIDs returns the subset of ids owned by userID. Missing or foreign ids
// are simply absent from the result.
func (s *ProductStore) GetByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]domain.Product, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE id = ANY($1::uuid[]) AND user_id = $2`,
		keys, userID,
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (s *ProductStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()
	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Unit, &p.PriceCents, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
