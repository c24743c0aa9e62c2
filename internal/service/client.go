package service

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/tenant"
	"go.uber.org/zap"
)

type ClientService struct {
	store  domain.ClientStore
	guard  *tenant.Guard
	logger *zap.Logger
}

func NewClientService(s domain.ClientStore, guard *tenant.Guard, logger *zap.Logger) *ClientService {
	return &ClientService{store: s, guard: guard, logger: logger}
}

// Create stamps the draft with the caller as owner and stores it.
func (s *ClientService) Create(ctx context.Context, caller domain.Identity, c domain.Client) (*domain.Client, error) {
	c.UserID = caller.UserID
	if err := s.store.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &c, nil
}

// List returns the caller's clients, newest first. A missing session or a
// store failure yields an empty list rather than an error.
func (s *ClientService) List(ctx context.Context, sess *domain.Session) []domain.Client {
	id, err := s.guard.Require(sess)
	if err != nil {
		return []domain.Client{}
	}
	rows, err := s.store.ListByUser(ctx, id.UserID)
	if err != nil {
		s.logger.Error("list clients failed", zap.String("user_id", id.UserID.String()), zap.Error(err))
		return []domain.Client{}
	}
	return tenant.Scope(id, rows)
}
