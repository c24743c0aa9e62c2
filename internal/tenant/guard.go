// Package tenant enforces that every read and write runs as, and only
// touches rows of, the authenticated user.
package tenant

import (
	"errors"
	"time"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/google/uuid"
)

var (
	errNoSession      = errors.New("no session")
	errExpiredSession = errors.New("session expired")
	errForeignRow     = errors.New("row owned by another tenant")
)

// Owned is any row stamped with its owning user.
type Owned interface {
	OwnerID() uuid.UUID
}

type Guard struct {
	now func() time.Time
}

func NewGuard() *Guard {
	return &Guard{now: time.Now}
}

// Require resolves the caller. A nil, anonymous or expired session is
// refused with domain.ErrUnauthorized.
func (g *Guard) Require(sess *domain.Session) (domain.Identity, error) {
	if sess == nil || sess.UserID == uuid.Nil {
		return domain.Identity{}, domain.Unauthorized(errNoSession)
	}
	if sess.Expired(g.now()) {
		return domain.Identity{}, domain.Unauthorized(errExpiredSession)
	}
	return domain.Identity{UserID: sess.UserID, Email: sess.Email}, nil
}

// Owns refuses access to a row owned by anyone but id.
func (g *Guard) Owns(id domain.Identity, row Owned) error {
	if row.OwnerID() != id.UserID {
		return domain.Unauthorized(errForeignRow)
	}
	return nil
}

// Scope drops every row not owned by id. The result is never nil.
func Scope[T Owned](id domain.Identity, rows []T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r.OwnerID() == id.UserID {
			out = append(out, r)
		}
	}
	return out
}
