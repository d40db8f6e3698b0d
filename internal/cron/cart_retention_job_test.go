package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oakfield-supplies/storefront-backend/pkg/config"
	"github.com/oakfield-supplies/storefront-backend/pkg/logger"
)

type fakePurger struct {
	window time.Duration
	purged int64
	err    error
}

func (f *fakePurger) PurgeAbandoned(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.window = olderThan
	return f.purged, f.err
}

func TestCartRetentionJobPassesWindow(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{purged: 3}
	job, err := NewCartRetentionJob(CartRetentionJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Carts:  purger,
		Config: config.CartConfig{AbandonedAfter: 720 * time.Hour},
	})
	if err != nil {
		t.Fatalf("NewCartRetentionJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purger.window != 720*time.Hour {
		t.Fatalf("window = %s, want 720h", purger.window)
	}
}

func TestCartRetentionJobPropagatesError(t *testing.T) {
	t.Parallel()

	job, err := NewCartRetentionJob(CartRetentionJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Carts:  &fakePurger{err: fmt.Errorf("db down")},
		Config: config.CartConfig{AbandonedAfter: time.Hour},
	})
	if err != nil {
		t.Fatalf("NewCartRetentionJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCartRetentionJobRequiresWindow(t *testing.T) {
	t.Parallel()

	_, err := NewCartRetentionJob(CartRetentionJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Carts:  &fakePurger{},
	})
	if err == nil {
		t.Fatal("expected error for missing window")
	}
}
