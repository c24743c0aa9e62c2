package pipeline

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/validation"
)

// Access decides whether an operation needs a resolved caller.
type Access int

const (
	// Public operations run without a session (registration, login).
	Public Access = iota
	// Tenant operations refuse to persist without a valid session.
	Tenant
)

// Outcome is what a completed run hands back. The concrete shapes differ on
// purpose: creations navigate, updates report inline, sign-ins carry a
// session.
type Outcome interface {
	outcome()
}

// Redirect sends the caller to a listing view after a creation.
type Redirect struct {
	Location string
}

// Status reports an in-place update without navigating.
type Status struct {
	Success bool
	Message string
}

// SignedIn carries the session established by registration or login.
type SignedIn struct {
	Session *domain.Session
}

func (Redirect) outcome() {}
func (Status) outcome()   {}
func (SignedIn) outcome() {}

// Result is what a handler returns after a successful write: the outcome for
// the caller and every view path the write made stale.
type Result struct {
	Outcome Outcome
	Stale   []string
}

// Validator parses raw input into the operation's value type.
type Validator[T any] func(validation.Input) (T, error)

// Handler persists a validated value. caller is nil for Public operations.
type Handler[T any] func(ctx context.Context, caller *domain.Identity, value T) (Result, error)

// Operation is one row of the dispatch table.
type Operation struct {
	name     string
	access   Access
	validate func(validation.Input) (any, error)
	handle   func(context.Context, *domain.Identity, any) (Result, error)
}

func (o Operation) Name() string   { return o.name }
func (o Operation) Access() Access { return o.access }

// Define binds a typed validator and handler under name.
func Define[T any](name string, access Access, validate Validator[T], handle Handler[T]) Operation {
	return Operation{
		name:   name,
		access: access,
		validate: func(in validation.Input) (any, error) {
			return validate(in)
		},
		handle: func(ctx context.Context, caller *domain.Identity, v any) (Result, error) {
			value, ok := v.(T)
			if !ok {
				return Result{}, fmt.Errorf("operation %s: unexpected value type %T", name, v)
			}
			if access == Tenant && caller == nil {
				return Result{}, domain.ErrUnauthorized
			}
			return handle(ctx, caller, value)
		},
	}
}
