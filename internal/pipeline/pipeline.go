// Package pipeline runs every state-changing operation through the same
// linear sequence:
//
//	Received -> Validated -> Authorized -> Persisted -> Invalidated -> Completed
//
// A failure while validating, authorizing or persisting exits immediately with
// ValidationFailed, Unauthorized or PersistenceFailed; later stages never run.
//
// A Pipeline holds no per-request state, so one value serves every concurrent
// request. Stages within a run are strictly sequential. Nothing is retried: a
// failed attempt is reported once. If the caller goes away after the store
// write has started, the write is not rolled back here.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/validation"
	"github.com/Harshitk-cp/facturador/internal/views"
	"go.uber.org/zap"
)

type Stage int

const (
	Received Stage = iota
	Validated
	Authorized
	Persisted
	Invalidated
	Completed
	ValidationFailed
	Unauthorized
	PersistenceFailed
)

var stageNames = [...]string{
	"received", "validated", "authorized", "persisted", "invalidated", "completed",
	"validation_failed", "unauthorized", "persistence_failed",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Observer sees every stage a run enters.
type Observer func(op string, stage Stage)

// Guard resolves the caller of a tenant-scoped operation.
type Guard interface {
	Require(sess *domain.Session) (domain.Identity, error)
}

// Pipeline dispatches named operations.
type Pipeline struct {
	ops      map[string]Operation
	guard    Guard
	notifier views.Notifier
	logger   *zap.Logger
	observer Observer
}

func New(guard Guard, notifier views.Notifier, logger *zap.Logger, ops ...Operation) *Pipeline {
	p := &Pipeline{
		ops:      make(map[string]Operation, len(ops)),
		guard:    guard,
		notifier: notifier,
		logger:   logger,
	}
	for _, op := range ops {
		if _, dup := p.ops[op.name]; dup {
			panic("pipeline: duplicate operation " + op.name)
		}
		p.ops[op.name] = op
	}
	return p
}

// WithObserver returns a copy of p that reports stage transitions to fn.
func (p *Pipeline) WithObserver(fn Observer) *Pipeline {
	cp := *p
	cp.observer = fn
	return &cp
}

// Operations lists the registered operation names in sorted order.
func (p *Pipeline) Operations() []string {
	names := make([]string, 0, len(p.ops))
	for name := range p.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs one pipeline instance. sess is the caller's session, passed
// explicitly; it may be nil for public operations. The returned error is
// always a *domain.Error.
func (p *Pipeline) Execute(ctx context.Context, name string, sess *domain.Session, in validation.Input) (Outcome, error) {
	op, ok := p.ops[name]
	if !ok {
		p.logger.Error("unknown pipeline operation", zap.String("op", name))
		return nil, domain.PersistenceFailure(fmt.Errorf("unknown operation %q", name))
	}

	p.enter(name, Received)

	value, err := op.validate(in)
	if err != nil {
		p.enter(name, ValidationFailed)
		if _, ok := domain.AsError(err); !ok {
			err = domain.PersistenceFailure(err)
		}
		return nil, err
	}
	p.enter(name, Validated)

	var caller *domain.Identity
	if op.access == Tenant {
		id, err := p.guard.Require(sess)
		if err != nil {
			p.enter(name, Unauthorized)
			return nil, err
		}
		caller = &id
	}
	p.enter(name, Authorized)

	res, err := p.persist(ctx, op, caller, value)
	if err != nil {
		p.enter(name, PersistenceFailed)
		return nil, p.downgrade(name, caller, err)
	}
	p.enter(name, Persisted)

	for _, path := range dedupe(res.Stale) {
		p.notifier.Invalidate(path)
	}
	p.enter(name, Invalidated)

	p.enter(name, Completed)
	return res.Outcome, nil
}

// persist runs the handler and turns a panic into an error.
func (p *Pipeline) persist(ctx context.Context, op Operation, caller *domain.Identity, value any) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", op.name, r)
		}
	}()
	return op.handle(ctx, caller, value)
}

// downgrade passes classified errors through and hides everything else
// behind the generic message.
func (p *Pipeline) downgrade(name string, caller *domain.Identity, err error) error {
	if de, ok := domain.AsError(err); ok {
		if de.Kind == domain.KindPersistence && de.Err != nil {
			p.logger.Error("operation failed", zap.String("op", name), callerField(caller), zap.Error(de.Err))
		}
		return de
	}
	p.logger.Error("operation failed", zap.String("op", name), callerField(caller), zap.Error(err))
	return domain.PersistenceFailure(err)
}

func (p *Pipeline) enter(name string, s Stage) {
	if p.observer != nil {
		p.observer(name, s)
	}
}

func callerField(caller *domain.Identity) zap.Field {
	if caller == nil {
		return zap.Skip()
	}
	return zap.String("user_id", caller.UserID.String())
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
