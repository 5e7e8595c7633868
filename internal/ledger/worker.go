// internal/ledger/worker.go
package ledger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/otakughor/backend/internal/config"
)

// Worker drains the outbox, paced by a rate limiter.
type Worker struct {
	outbox       *Outbox
	client       *Client
	limiter      *rate.Limiter
	pollInterval time.Duration
	maxAttempts  int
	baseBackoff  time.Duration
	maxBackoff   time.Duration
	now          func() time.Time
}

func NewWorker(outbox *Outbox, client *Client, cfg config.SheetsConfig) *Worker {
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 1
	}
	return &Worker{
		outbox:       outbox,
		client:       client,
		limiter:      rate.NewLimiter(rate.Limit(perSec), 1),
		pollInterval: cfg.PollInterval,
		maxAttempts:  cfg.MaxAttempts,
		baseBackoff:  cfg.BaseBackoff,
		maxBackoff:   cfg.MaxBackoff,
		now:          time.Now,
	}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	logrus.WithField("poll_interval", w.pollInterval).Info("Ledger worker started")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.Drain(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Error("Ledger drain failed")
		}

		select {
		case <-ctx.Done():
			logrus.Info("Ledger worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Drain attempts every due entry once and returns how many were delivered.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	due, err := w.outbox.Due(ctx, w.now())
	if err != nil {
		return 0, err
	}

	delivered := 0
	for i := range due {
		if err := w.limiter.Wait(ctx); err != nil {
			return delivered, err
		}
		if w.deliver(ctx, &due[i]) {
			delivered++
		}
	}
	return delivered, nil
}

func (w *Worker) deliver(ctx context.Context, e *Entry) bool {
	log := logrus.WithFields(logrus.Fields{
		"entry_id":        e.ID,
		"kind":            e.Kind,
		"tracking_number": e.TrackingNumber,
		"attempt":         e.Attempts + 1,
	})

	_, postErr := w.client.Post(ctx, e.Payload)
	if postErr == nil {
		if _, err := w.outbox.markDelivered(ctx, e.ID, w.now()); err != nil {
			log.WithError(err).Error("Failed to mark ledger entry delivered")
		}
		log.Info("Ledger entry delivered")
		return true
	}

	attempts := e.Attempts + 1
	status := StatusPending
	if attempts >= w.maxAttempts {
		status = StatusFailed
	}
	next := w.now().Add(w.Backoff(attempts))
	if _, err := w.outbox.markAttemptFailed(ctx, e, status, postErr, next); err != nil {
		log.WithError(err).Error("Failed to record ledger attempt")
	}

	if status == StatusFailed {
		log.WithError(postErr).Error("Ledger entry failed permanently")
	} else {
		log.WithError(postErr).WithField("next_attempt_at", next).Warn("Ledger delivery failed, will retry")
	}
	return false
}

// Backoff is base * 2^(attempts-1), capped at the configured maximum.
func (w *Worker) Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := w.baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= w.maxBackoff {
			return w.maxBackoff
		}
	}
	if d > w.maxBackoff {
		return w.maxBackoff
	}
	return d
}
