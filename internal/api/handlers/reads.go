package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/facturador/internal/api/middleware"
	"github.com/Harshitk-cp/facturador/internal/service"
)

// ReadHandler serves the tenant-scoped listings. Lists never fail: an
// anonymous caller gets [].
type ReadHandler struct {
	accounts *service.AccountService
	clients  *service.ClientService
	products *service.ProductService
	invoices *service.InvoiceService
}

func NewReadHandler(a *service.AccountService, c *service.ClientService, p *service.ProductService, i *service.InvoiceService) *ReadHandler {
	return &ReadHandler{accounts: a, clients: c, products: p, invoices: i}
}

func (h *ReadHandler) Clients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.clients.List(r.Context(), middleware.SessionFromContext(r.Context())))
}

func (h *ReadHandler) Products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.products.List(r.Context(), middleware.SessionFromContext(r.Context())))
}

func (h *ReadHandler) Invoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.invoices.List(r.Context(), middleware.SessionFromContext(r.Context())))
}

func (h *ReadHandler) Settings(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.Profile(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
