package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/store"
	"github.com/google/uuid"
)

var errDown = errors.New("connection refused")

// mockUserStore implements domain.UserStore for testing.
type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	fail  error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) UpdateSettings(ctx context.Context, id uuid.UUID, st domain.Settings) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for _, other := range m.users {
		if other.ID != id && other.Email == st.Email {
			return nil, store.ErrConflict
		}
	}
	u.Name = st.Name
	u.Email = st.Email
	u.LegalName = st.LegalName
	u.TaxID = st.TaxID
	u.RegistrationNumber = st.RegistrationNumber
	u.BusinessActivity = st.BusinessActivity
	u.Address = st.Address
	u.Phone = st.Phone
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *mockUserStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// mockClientStore implements domain.ClientStore for testing.
type mockClientStore struct {
	mu      sync.Mutex
	clients []domain.Client
	fail    error
}

func newMockClientStore() *mockClientStore {
	return &mockClientStore{}
}

func (m *mockClientStore) Create(ctx context.Context, c *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now().Add(time.Duration(len(m.clients)) * time.Millisecond)
	m.clients = append(m.clients, *c)
	return nil
}

func (m *mockClientStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.ID == id && c.UserID == userID {
			cp := c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockClientStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := []domain.Client{}
	for _, c := range m.clients {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockClientStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// mockProductStore implements domain.ProductStore for testing.
type mockProductStore struct {
	mu       sync.Mutex
	products []domain.Product
}

func newMockProductStore() *mockProductStore {
	return &mockProductStore{}
}

func (m *mockProductStore) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now().Add(time.Duration(len(m.products)) * time.Millisecond)
	m.products = append(m.products, *p)
	return nil
}

func (m *mockProductStore) GetByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, p := range m.products {
		if p.UserID != userID {
			continue
		}
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (m *mockProductStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, p := range m.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// mockInvoiceStore implements domain.InvoiceStore for testing.
type mockInvoiceStore struct {
	mu       sync.Mutex
	invoices []domain.Invoice
	seq      map[uuid.UUID]int64
	fail     error
}

func newMockInvoiceStore() *mockInvoiceStore {
	return &mockInvoiceStore{seq: make(map[uuid.UUID]int64)}
}

func (m *mockInvoiceStore) Create(ctx context.Context, inv *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.seq[inv.UserID]++
	inv.ID = uuid.New()
	inv.Number = domain.InvoiceNumber(m.seq[inv.UserID])
	inv.CreatedAt = time.Now()
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New()
		inv.Items[i].InvoiceID = inv.ID
	}
	m.invoices = append(m.invoices, *inv)
	return nil
}

func (m *mockInvoiceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Invoice{}
	for i := len(m.invoices) - 1; i >= 0; i-- {
		if m.invoices[i].UserID == userID {
			out = append(out, m.invoices[i])
		}
	}
	return out, nil
}

func (m *mockInvoiceStore) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	day := asOf.Truncate(24 * time.Hour)
	var n int64
	for i := range m.invoices {
		inv := &m.invoices[i]
		if inv.Status == domain.InvoiceStatusPending && inv.DueDate.Before(day) {
			inv.Status = domain.InvoiceStatusOverdue
			n++
		}
	}
	return n, nil
}

func (m *mockInvoiceStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.invoices)
}
