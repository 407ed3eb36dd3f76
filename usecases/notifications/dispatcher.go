package notifications

import (
	"context"
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog/log"

	"krowbot/models"
	"krowbot/usecases"
)

// TaskWrapper decorates a background task, typically with panic recovery and alerting
type TaskWrapper func(taskName string, task func() error) func() error

// DonationDispatcher runs donation notifications on a bounded worker pool so that
// publishing never waits on Discord.
type DonationDispatcher struct {
	notifier usecases.DonationNotifierInterface
	pool     *workerpool.WorkerPool
	wrap     TaskWrapper
	mu       sync.RWMutex
	stopped  bool
}

func NewDonationDispatcher(notifier usecases.DonationNotifierInterface, workers int, wrap TaskWrapper) *DonationDispatcher {
	if wrap == nil {
		wrap = func(_ string, task func() error) func() error { return task }
	}
	return &DonationDispatcher{
		notifier: notifier,
		pool:     workerpool.New(max(workers, 1)),
		wrap:     wrap,
	}
}

func (d *DonationDispatcher) Publish(event models.DonationEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		log.Warn().Str("transaction_id", event.TransactionID).Msg("⚠️ Dispatcher stopped - dropping donation notification")
		return
	}

	task := d.wrap(fmt.Sprintf("NotifyDonation(%s)", event.TransactionID), func() error {
		return d.notifier.NotifyDonation(context.Background(), event)
	})
	d.pool.Submit(func() {
		if err := task(); err != nil {
			log.Error().Err(err).Str("transaction_id", event.TransactionID).Msg("❌ Failed to deliver donation notification")
		}
	})
}

// Stop waits for queued notifications to finish; later publishes are dropped
func (d *DonationDispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	d.pool.StopWait()
}
