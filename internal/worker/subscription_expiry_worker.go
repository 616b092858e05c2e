package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultExpiryInterval = time.Hour

type subscriptionExpirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

// SubscriptionExpiryWorker periodically downgrades lapsed subscriptions to the free tier.
type SubscriptionExpiryWorker struct {
	subscriptions subscriptionExpirer
	interval      time.Duration
}

// NewSubscriptionExpiryWorker constructs a SubscriptionExpiryWorker.
func NewSubscriptionExpiryWorker(subscriptions subscriptionExpirer, interval time.Duration) *SubscriptionExpiryWorker {
	if interval <= 0 {
		interval = defaultExpiryInterval
	}
	return &SubscriptionExpiryWorker{
		subscriptions: subscriptions,
		interval:      interval,
	}
}

// Start runs the expiry loop until ctx is cancelled.
func (w *SubscriptionExpiryWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting subscription expiry worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Subscription expiry worker stopped")
			return
		}
	}
}

func (w *SubscriptionExpiryWorker) run(ctx context.Context) {
	start := time.Now()
	n, err := w.subscriptions.ExpireDue(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("Failed to expire subscriptions")
		}
		return
	}
	if n > 0 {
		log.Info().Int("expired", n).Dur("duration", time.Since(start)).Msg("Subscriptions expired")
	}
}
