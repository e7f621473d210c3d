package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/storefront-labs/storefront-backend/internal/app/service"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

// PromotionScheduler deactivates promotions whose end date has passed.
type PromotionScheduler struct {
	cron             *cron.Cron
	promotionService service.PromotionService
}

func NewPromotionScheduler(promotionService service.PromotionService) *PromotionScheduler {
	return &PromotionScheduler{
		cron:             cron.New(),
		promotionService: promotionService,
	}
}

// Start registers the daily sweep. Runs every day at midnight.
func (s *PromotionScheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		logger.Info("Starting scheduled promotion sweep", nil)

		deactivated, err := s.promotionService.DeactivateExpired()
		if err != nil {
			logger.Error("Failed to deactivate expired promotions", err)
			return
		}

		logger.Info("Promotion sweep finished", map[string]interface{}{
			"deactivated": deactivated,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for promotion sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Promotion scheduler started (daily at midnight)", nil)

	return nil
}

func (s *PromotionScheduler) Stop() {
	logger.Info("Stopping promotion scheduler...", nil)
	s.cron.Stop()
	logger.Info("Promotion scheduler stopped", nil)
}
