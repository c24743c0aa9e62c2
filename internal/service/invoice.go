package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/store"
	"github.com/Harshitk-cp/facturador/internal/tenant"
	"github.com/Harshitk-cp/facturador/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errForeignClient  = errors.New("invoice client is not owned by caller")
	errForeignProduct = errors.New("invoice product is not owned by caller")
)

// totalTooLarge is returned when a line or the invoice total does not fit the
// BIGINT cents columns.
func totalTooLarge() error {
	return domain.ValidationFailed([]domain.FieldError{{
		Field:   "items",
		Message: "items total is too large",
	}})
}

// mulCents and addCents report false instead of wrapping. Both operands are
// non-negative.
func mulCents(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || (b != 0 && a > math.MaxInt64/b) {
		return 0, false
	}
	return a * b, true
}

func addCents(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

type InvoiceService struct {
	invoices domain.InvoiceStore
	clients  domain.ClientStore
	products domain.ProductStore
	guard    *tenant.Guard
	logger   *zap.Logger
}

func NewInvoiceService(is domain.InvoiceStore, cs domain.ClientStore, ps domain.ProductStore, guard *tenant.Guard, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoices: is,
		clients:  cs,
		products: ps,
		guard:    guard,
		logger:   logger,
	}
}

// Create prices every line from the caller's own products and stores the
// invoice against the caller's own client. Referencing anything the caller
// does not own is refused as unauthorized.
func (s *InvoiceService) Create(ctx context.Context, caller domain.Identity, d validation.InvoiceDraft) (*domain.Invoice, error) {
	client, err := s.clients.GetByID(ctx, d.ClientID, caller.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.Unauthorized(errForeignClient)
		}
		return nil, fmt.Errorf("load client: %w", err)
	}
	if err := s.guard.Owns(caller, client); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(d.Items))
	seen := make(map[uuid.UUID]struct{}, len(d.Items))
	for _, it := range d.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	found, err := s.products.GetByIDs(ctx, ids, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	owned := tenant.Scope(caller, found)
	byID := make(map[uuid.UUID]domain.Product, len(owned))
	for _, p := range owned {
		byID[p.ID] = p
	}

	inv := &domain.Invoice{
		UserID:    caller.UserID,
		ClientID:  client.ID,
		Status:    domain.InvoiceStatusPending,
		IssueDate: d.IssueDate,
		DueDate:   d.DueDate,
		Notes:     d.Notes,
		Items:     make([]domain.InvoiceItem, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, domain.Unauthorized(errForeignProduct)
		}
		line, ok := mulCents(p.PriceCents, int64(it.Quantity))
		if !ok {
			return nil, totalTooLarge()
		}
		inv.Items = append(inv.Items, domain.InvoiceItem{
			ProductID:      p.ID,
			Description:    p.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: p.PriceCents,
			LineTotalCents: line,
		})
		if inv.TotalCents, ok = addCents(inv.TotalCents, line); !ok {
			return nil, totalTooLarge()
		}
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context, sess *domain.Session) []domain.Invoice {
	id, err := s.guard.Require(sess)
	if err != nil {
		return []domain.Invoice{}
	}
	rows, err := s.invoices.ListByUser(ctx, id.UserID)
	if err != nil {
		s.logger.Error("list invoices failed", zap.String("user_id", id.UserID.String()), zap.Error(err))
		return []domain.Invoice{}
	}
	return tenant.Scope(id, rows)
}
