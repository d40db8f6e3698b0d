package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

const cartRetentionJobName = "cart_retention"

type cartPurger interface {
	PurgeAbandoned(ctx context.Context, olderThan time.Duration) (int64, error)
}

// CartRetentionJobParams configure the abandoned-cart sweep.
type CartRetentionJobParams struct {
	Logger *logger.Logger
	Carts  cartPurger
	Config config.CartConfig
}

type cartRetentionJob struct {
	logg   *logger.Logger
	carts  cartPurger
	window time.Duration
}

// NewCartRetentionJob builds the job that removes anonymous-session carts
// untouched for longer than the configured window.
func NewCartRetentionJob(params CartRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Config.AbandonedAfter <= 0 {
		return nil, fmt.Errorf("abandoned-after window must be positive")
	}
	return &cartRetentionJob{
		logg:   params.Logger,
		carts:  params.Carts,
		window: params.Config.AbandonedAfter,
	}, nil
}

func (j *cartRetentionJob) Name() string {
	return cartRetentionJobName
}

func (j *cartRetentionJob) Run(ctx context.Context) error {
	purged, err := j.carts.PurgeAbandoned(ctx, j.window)
	if err != nil {
		return fmt.Errorf("purge abandoned carts: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "purged", purged), "cart retention sweep done")
	return nil
}
