package service

import (
	"context"
	"testing"
	"time"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/views"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestOverdueService_Run(t *testing.T) {
	invoices := newMockInvoiceStore()
	stale := views.NewStaleSet()
	owner := uuid.New()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	for _, due := range []time.Time{
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	} {
		inv := &domain.Invoice{UserID: owner, Status: domain.InvoiceStatusPending, DueDate: due}
		if err := invoices.Create(context.Background(), inv); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	s := NewOverdueService(invoices, stale, zap.NewNop())
	s.now = func() time.Time { return now }

	if n := s.Run(context.Background()); n != 1 {
		t.Fatalf("expected 1 invoice marked overdue, got %d", n)
	}
	got := stale.Drain()
	if len(got) != 2 || got[0] != views.Dashboard || got[1] != views.Invoices {
		t.Fatalf("unexpected stale paths: %v", got)
	}

	if n := s.Run(context.Background()); n != 0 {
		t.Fatalf("expected second sweep to be a no-op, got %d", n)
	}
	if got := stale.Drain(); len(got) != 0 {
		t.Fatalf("expected nothing stale after no-op sweep, got %v", got)
	}
}

func TestOverdueService_StoreFailure(t *testing.T) {
	invoices := newMockInvoiceStore()
	invoices.fail = errDown
	stale := views.NewStaleSet()

	s := NewOverdueService(invoices, stale, zap.NewNop())
	if n := s.Run(context.Background()); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
	if got := stale.Drain(); len(got) != 0 {
		t.Fatalf("expected nothing stale, got %v", got)
	}
}

func TestOverdueService_StartStop(t *testing.T) {
	s := NewOverdueService(newMockInvoiceStore(), views.NewStaleSet(), zap.NewNop())
	s.SetInterval(10 * time.Millisecond)
	s.Start()
	time.Sleep(25 * time.Millisecond)
	s.Stop()
}
