package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceStore struct {
	db *pgxpool.Pool
}

func NewInvoiceStore(db *pgxpool.Pool) *InvoiceStore {
	return &InvoiceStore{db: db}
}

func (s *InvoiceStore) Create(ctx context.Context, inv *domain.Invoice) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		var seq int64
		err := tx.QueryRow(ctx,
			`UPDATE users SET invoice_seq = invoice_seq + 1
			 WHERE id = $1
			 RETURNING invoice_seq`,
			inv.UserID,
		).Scan(&seq)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("next invoice number: %w", err)
		}
		inv.Number = domain.InvoiceNumber(seq)

		err = tx.QueryRow(ctx,
			`INSERT INTO invoices (user_id, client_id, number, status, issue_date, due_date, notes, total_cents)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id, created_at`,
			inv.UserID, inv.ClientID, inv.Number, string(inv.Status),
			inv.IssueDate, inv.DueDate, inv.Notes, inv.TotalCents,
		).Scan(&inv.ID, &inv.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert invoice: %w", err)
		}

		batch := &pgx.Batch{}
		for i := range inv.Items {
			item := &inv.Items[i]
			item.InvoiceID = inv.ID
			batch.Queue(
				`INSERT INTO invoice_items (invoice_id, product_id, description, quantity, unit_price_cents, line_total_cents)
				 VALUES ($1, $2, $3, $4, $5, $6)
				 RETURNING id`,
				item.InvoiceID, item.ProductID, item.Description, item.Quantity,
				item.UnitPriceCents, item.LineTotalCents,
			).QueryRow(func(row pgx.Row) error {
				return row.Scan(&item.ID)
			})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert invoice items: %w", err)
		}
		return nil
	})
}

func (s *InvoiceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, client_id, number, status, issue_date, due_date, notes, total_cents, created_at
		 FROM invoices
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.ClientID, &inv.Number, &inv.Status,
			&inv.IssueDate, &inv.DueDate, &inv.Notes, &inv.TotalCents, &inv.CreatedAt); err != nil {
			return nil, err
		}
		inv.Items = []domain.InvoiceItem{}
		index[inv.ID] = len(invoices)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return invoices, nil
	}

	itemRows, err := s.db.Query(ctx,
		`SELECT it.id, it.invoice_id, it.product_id, it.description, it.quantity,
			it.unit_price_cents, it.line_total_cents
		 FROM invoice_items it
		 JOIN invoices i ON i.id = it.invoice_id
		 WHERE i.user_id = $1
		 ORDER BY it.invoice_id, it.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it domain.InvoiceItem
		if err := itemRows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Description, &it.Quantity,
			&it.UnitPriceCents, &it.LineTotalCents); err != nil {
			return nil, err
		}
		if i, ok := index[it.InvoiceID]; ok {
			invoices[i].Items = append(invoices[i].Items, it)
		}
	}
	return invoices, itemRows.Err()
}

// MarkOverdue flips pending invoices due strictly before asOf's date.
func (s *InvoiceStore) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE invoices SET status = $1
		 WHERE status = $2 AND due_date < $3::date`,
		string(domain.InvoiceStatusOverdue), string(domain.InvoiceStatusPending), asOf,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
