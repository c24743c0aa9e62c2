package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, name, legal_name, tax_id,
	registration_number, business_activity, address, phone, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.LegalName, &u.TaxID,
		&u.RegistrationNumber, &u.BusinessActivity, &u.Address, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, legal_name, tax_id,
			registration_number, business_activity, address, phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.Name, u.LegalName, u.TaxID,
		u.RegistrationNumber, u.BusinessActivity, u.Address, u.Phone,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// UpdateSettings overwrites the profile in a single statement. A collision on
// the email index yields ErrConflict and leaves the row untouched.
func (s *UserStore) UpdateSettings(ctx context.Context, id uuid.UUID, st domain.Settings) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`UPDATE users SET
			name = $2, email = $3, legal_name = $4, tax_id = $5,
			registration_number = $6, business_activity = $7,
			address = $8, phone = $9, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, st.Name, st.Email, st.LegalName, st.TaxID,
		st.RegistrationNumber, st.BusinessActivity, st.Address, st.Phone,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return u, nil
}
