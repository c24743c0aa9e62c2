// Package views tells the rendering layer which cached pages a mutation made
// stale.
package views

import (
	"sort"
	"sync"
)

// Cached view paths.
const (
	Dashboard     = "/dashboard"
	Clients       = "/dashboard/clientes"
	Products      = "/dashboard/productos"
	Invoices      = "/dashboard/facturas"
	InvoiceCreate = "/dashboard/facturas/crear"
	Settings      = "/dashboard/ajustes"
)

// Notifier marks a view path stale. Implementations must be idempotent and
// must not block the caller on delivery.
type Notifier interface {
	Invalidate(path string)
}

// StaleSet is an in-process staleness map. Repeated marks of one path
// collapse into a single entry.
type StaleSet struct {
	mu    sync.Mutex
	stale map[string]struct{}
}

func NewStaleSet() *StaleSet {
	return &StaleSet{stale: make(map[string]struct{})}
}

func (s *StaleSet) Invalidate(path string) {
	s.mu.Lock()
	s.stale[path] = struct{}{}
	s.mu.Unlock()
}

// Stale reports whether path is marked.
func (s *StaleSet) Stale(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.stale[path]
	return ok
}

// Drain returns the marked paths in sorted order and clears them.
func (s *StaleSet) Drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.stale))
	for p := range s.stale {
		out = append(out, p)
	}
	s.stale = make(map[string]struct{})
	sort.Strings(out)
	return out
}

// Multi fans an invalidation out to every notifier.
type Multi []Notifier

func (m Multi) Invalidate(path string) {
	for _, n := range m {
		n.Invalidate(path)
	}
}
