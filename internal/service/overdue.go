package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/facturador/internal/domain"
	"github.com/Harshitk-cp/facturador/internal/views"
	"go.uber.org/zap"
)

const defaultOverdueInterval = 1 * time.Hour

// OverdueService periodically moves pending invoices past their due date to
// OVERDUE and marks the affected views stale.
type OverdueService struct {
	invoices domain.InvoiceStore
	notifier views.Notifier
	logger   *zap.Logger
	now      func() time.Time

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewOverdueService(is domain.InvoiceStore, notifier views.Notifier, logger *zap.Logger) *OverdueService {
	return &OverdueService{
		invoices: is,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		interval: defaultOverdueInterval,
		stopCh:   make(chan struct{}),
	}
}

func (s *OverdueService) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// Start runs a sweep immediately and then on every tick.
func (s *OverdueService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("overdue sweeper started", zap.Duration("interval", s.interval))
		s.tick()

		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-s.stopCh:
				s.logger.Info("overdue sweeper stopped")
				return
			}
		}
	}()
}

func (s *OverdueService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *OverdueService) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Run(ctx)
}

// Run performs a single sweep and reports how many invoices changed.
func (s *OverdueService) Run(ctx context.Context) int64 {
	n, err := s.invoices.MarkOverdue(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to mark overdue invoices", zap.Error(err))
		return 0
	}
	if n > 0 {
		s.logger.Info("marked invoices overdue", zap.Int64("count", n))
		s.notifier.Invalidate(views.Invoices)
		s.notifier.Invalidate(views.Dashboard)
	}
	return n
}
