package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	mw "github.com/Harshitk-cp/facturador/internal/api/middleware"
	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/store"
	"github.com/Harshitk-cp/facturador/internal/views"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore implements every domain store over plain slices for testing.
type memStore struct {
	mu       sync.Mutex
	users    []*domain.User
	clients  []domain.Client
	products []domain.Product
	invoices []domain.Invoice
}

type memUsers struct{ *memStore }
type memClients struct{ *memStore }
type memProducts struct{ *memStore }
type memInvoices struct{ *memStore }

func (m memUsers) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	u.ID = uuid.New()
	cp := *u
	m.users = append(m.users, &cp)
	return nil
}

func (m memUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memUsers) UpdateSettings(ctx context.Context, id uuid.UUID, st domain.Settings) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.Name, u.Email, u.TaxID = st.Name, st.Email, st.TaxID
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memClients) Create(ctx context.Context, c *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	m.clients = append([]domain.Client{*c}, m.clients...)
	return nil
}

func (m memClients) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Client, error) {
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

func (m memClients) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Client{}
	for _, c := range m.clients {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memProducts) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	m.products = append([]domain.Product{*p}, m.products...)
	return nil
}

func (m memProducts) GetByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, p := range m.products {
		for _, id := range ids {
			if p.ID == id && p.UserID == userID {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m memProducts) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Product{}
	for _, p := range m.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memInvoices) Create(ctx context.Context, inv *domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = uuid.New()
	inv.Number = domain.InvoiceNumber(int64(len(m.invoices) + 1))
	m.invoices = append([]domain.Invoice{*inv}, m.invoices...)
	return nil
}

func (m memInvoices) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Invoice{}
	for _, inv := range m.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m memInvoices) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	return 0, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func newTestApp(t *testing.T, ping error) (*App, *memStore, *views.StaleSet) {
	t.Helper()
	t.Setenv("SESSION_SECRET", "router-test-secret")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("SESSION_COOKIE_SECURE", "false")

	mem := &memStore{}
	stale := views.NewStaleSet()
	app := NewAppWithStores(Stores{
		Users:    memUsers{mem},
		Clients:  memClients{mem},
		Products: memProducts{mem},
		Invoices: memInvoices{mem},
		Pinger:   stubPinger{err: ping},
	}, stale, zap.NewNop())
	return app, mem, stale
}

func do(app *App, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == mw.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHealth(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	rec := do(app, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	app, _, _ = newTestApp(t, errors.New("dial tcp: refused"))
	rec = do(app, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"dial tcp: refused"}`, rec.Body.String())
}

func TestAppStartStop(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	require.Len(t, app.limiters, 2)
	app.Start()

	done := make(chan struct{})
	go func() {
		app.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("background loops did not exit after Stop")
	}
}

func TestAcmeClientFlow(t *testing.T) {
	app, mem, stale := newTestApp(t, nil)

	rec := do(app, http.MethodPost, "/auth/register", url.Values{
		"name": {"Owner"}, "email": {"owner@x.com"}, "password": {"correct-horse"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	stale.Drain()

	rec = do(app, http.MethodPost, "/v1/clients", url.Values{
		"name": {"Acme"}, "email": {"a@b.com"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, views.Clients, rec.Header().Get("Location"))
	assert.Contains(t, stale.Drain(), views.Clients)

	require.Len(t, mem.clients, 1)
	c := mem.clients[0]
	assert.Equal(t, mem.users[0].ID, c.UserID)
	assert.Equal(t, domain.ClientTypeNatural, c.Type)
	assert.Empty(t, c.Phone)
	assert.Empty(t, c.Address)

	rec = do(app, http.MethodGet, "/v1/clients", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []domain.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Acme", listed[0].Name)
}

func TestAnonymousAccess(t *testing.T) {
	app, mem, _ := newTestApp(t, nil)

	rec := do(app, http.MethodGet, "/v1/clients", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(app, http.MethodPost, "/v1/clients", url.Values{"name": {"Acme"}, "email": {"a@b.com"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, mem.clients)

	rec = do(app, http.MethodGet, "/v1/settings", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidationErrorsNameFields(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	rec := do(app, http.MethodPost, "/auth/register", url.Values{
		"name": {"Owner"}, "email": {"owner@x.com"}, "password": {"correct-horse"},
	}, nil)
	cookie := sessionCookie(t, rec)

	rec = do(app, http.MethodPost, "/v1/clients", url.Values{}, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Code   string              `json:"code"`
		Fields []domain.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.CodeInvalidFields, body.Code)
	var names []string
	for _, f := range body.Fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email"}, names)
}

func TestSettingsUpdate(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	rec := do(app, http.MethodPost, "/auth/register", url.Values{
		"name": {"A"}, "email": {"a@x.com"}, "password": {"correct-horse"},
	}, nil)
	cookieA := sessionCookie(t, rec)
	do(app, http.MethodPost, "/auth/register", url.Values{
		"name": {"B"}, "email": {"b@x.com"}, "password": {"correct-horse"},
	}, nil)

	rec = do(app, http.MethodPut, "/v1/settings", url.Values{"name": {"A"}, "email": {"b@x.com"}}, cookieA)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"That email is already in use.","code":"email_taken"}`, rec.Body.String())

	rec = do(app, http.MethodPut, "/v1/settings", url.Values{"name": {"A2"}, "email": {"a@x.com"}}, cookieA)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Settings updated."}`, rec.Body.String())

	rec = do(app, http.MethodGet, "/v1/settings", nil, cookieA)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"A2"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLoginAndLogout(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	do(app, http.MethodPost, "/auth/register", url.Values{
		"name": {"A"}, "email": {"a@x.com"}, "password": {"correct-horse"},
	}, nil)

	rec := do(app, http.MethodPost, "/auth/login", url.Values{"email": {"a@x.com"}, "password": {"nope-nope"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")

	rec = do(app, http.MethodPost, "/auth/login", url.Values{"email": {"a@x.com"}, "password": {"correct-horse"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, sessionCookie(t, rec).Value)

	rec = do(app, http.MethodPost, "/auth/logout", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, -1, sessionCookie(t, rec).MaxAge)
}

func TestMetrics(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	do(app, http.MethodGet, "/v1/nope", nil, nil)

	rec := do(app, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["client_error_count"])
	assert.Contains(t, body, "build")
	assert.Len(t, body["operations"], 6)
}
