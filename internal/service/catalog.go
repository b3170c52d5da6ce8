package service

import (
	"context"
	"errors"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/port"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Catalog wires every domain service over one backend.
type Catalog struct {
	Customers *CustomerService
	Products  *ProductService
	Forms     *FormService
	Campaigns *CampaignService
	Feedbacks *FeedbackService
	Analytics *AnalyticsService

	logger *zap.Logger
}

// NewCatalog builds the services. pageSize is the feedback page size.
func NewCatalog(backend port.Backend, notifier port.Notifier, pageSize int, metrics *observability.Metrics, logger *zap.Logger) *Catalog {
	customers := NewCustomerService(backend, notifier, metrics, logger)
	products := NewProductService(backend, notifier, metrics, logger)
	forms := NewFormService(backend, notifier, metrics, logger)
	campaigns := NewCampaignService(backend, forms, notifier, metrics, logger)
	feedbacks := NewFeedbackService(backend, customers, products, pageSize, notifier, metrics, logger)

	return &Catalog{
		Customers: customers,
		Products:  products,
		Forms:     forms,
		Campaigns: campaigns,
		Feedbacks: feedbacks,
		Analytics: NewAnalyticsService(feedbacks, customers, products, campaigns, forms),
		logger:    logger,
	}
}

// WarmAll loads every collection concurrently. A failed collection does
// not stop the others; the joined errors are returned.
func (c *Catalog) WarmAll(ctx context.Context) error {
	warmers := []struct {
		name string
		warm func(context.Context) error
	}{
		{"customers", c.Customers.Warm},
		{"products", c.Products.Warm},
		{"forms", c.Forms.Warm},
		{"campaigns", c.Campaigns.Warm},
		{"feedbacks", c.Feedbacks.Warm},
	}

	errs := make([]error, len(warmers))
	var g errgroup.Group
	for i, w := range warmers {
		g.Go(func() error {
			if err := w.warm(ctx); err != nil {
				c.logger.Warn("warm-up failed", zap.String("collection", w.name), zap.Error(err))
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Status reports every collection in a fixed order.
func (c *Catalog) Status() []domain.ResourceStatus {
	return []domain.ResourceStatus{
		c.Customers.Collection().Status(),
		c.Products.Collection().Status(),
		c.Forms.Forms().Status(),
		c.Forms.Questions().Status(),
		c.Campaigns.Collection().Status(),
		c.Feedbacks.Collection().Status(),
	}
}

// Ready reports whether every collection finished at least one load.
func (c *Catalog) Ready() bool {
	for _, st := range c.Status() {
		if st.LoadedAt == nil {
			return false
		}
	}
	return true
}

// ============================================================
// Campaign expiry sweeper
// ============================================================

// ExpirySweeper periodically stops campaigns whose end date has passed.
type ExpirySweeper struct {
	cron      *cron.Cron
	campaigns *CampaignService
	timeout   time.Duration
	logger    *zap.Logger
}

// NewExpirySweeper schedules the sweep with a standard five-field cron
// expression.
func NewExpirySweeper(schedule string, campaigns *CampaignService, logger *zap.Logger) (*ExpirySweeper, error) {
	s := &ExpirySweeper{
		cron:      cron.New(),
		campaigns: campaigns,
		timeout:   30 * time.Second,
		logger:    logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, &domain.ErrValidation{Field: "CAMPAIGN_EXPIRY_SCHEDULE", Message: err.Error()}
	}
	return s, nil
}

// Sweep runs one expiry pass.
func (s *ExpirySweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.campaigns.ExpireFinished(ctx, time.Now())
	if err != nil {
		s.logger.Warn("campaign expiry sweep incomplete", zap.Int("stopped", n), zap.Error(err))
		return
	}
	s.logger.Debug("campaign expiry sweep done", zap.Int("stopped", n))
}

// Start begins the schedule in its own goroutine.
func (s *ExpirySweeper) Start() {
	s.cron.Start()
	s.logger.Info("campaign expiry sweeper started")
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *ExpirySweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
