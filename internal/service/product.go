package service

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/tenant"
	"go.uber.org/zap"
)

type ProductService struct {
	store  domain.ProductStore
	guard  *tenant.Guard
	logger *zap.Logger
}

func NewProductService(s domain.ProductStore, guard *tenant.Guard, logger *zap.Logger) *ProductService {
	return &ProductService{store: s, guard: guard, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, caller domain.Identity, p domain.Product) (*domain.Product, error) {
	p.UserID = caller.UserID
	if err := s.store.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &p, nil
}

func (s *ProductService) List(ctx context.Context, sess *domain.Session) []domain.Product {
	id, err := s.guard.Require(sess)
	if err != nil {
		return []domain.Product{}
	}
	rows, err := s.store.ListByUser(ctx, id.UserID)
	if err != nil {
		s.logger.Error("list products failed", zap.String("user_id", id.UserID.String()), zap.Error(err))
		return []domain.Product{}
	}
	return tenant.Scope(id, rows)
}
