package notify

import (
	"context"
	"log/slog"
	"time"
)

const dispatchBatchSize = 20

// Sender delivers a fired notification to whatever surface the deployment
// has. Delivery is fire-and-forget: nothing tracks whether the user saw it.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender is the default delivery surface for headless deployments: it
// writes the notification to the log. Nil-safe: a nil sender drops
// deliveries silently.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-backed sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification.
func (s *LogSender) Send(_ context.Context, n Notification) error {
	if s == nil {
		return nil
	}
	s.logger.Info("NOTIFY", "identifier", n.Identifier, "title", n.Title, "body", n.Body)
	return nil
}

// StartWorker runs a background loop delivering due notifications.
// Blocks until ctx is cancelled. Intended to be called with `go`.
func StartWorker(ctx context.Context, store *Store, sender Sender, interval time.Duration, logger *slog.Logger) {
	logger.Info("Notification dispatch worker started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			delivered, failed, err := dispatchBatch(ctx, store, sender, logger)
			if err != nil {
				logger.Error("dispatch error", "error", err)
			} else if delivered+failed > 0 {
				logger.Info("dispatch batch", "delivered", delivered, "failed", failed)
			}
		case <-ctx.Done():
			logger.Info("Notification dispatch worker stopped")
			return
		}
	}
}

func dispatchBatch(ctx context.Context, store *Store, sender Sender, logger *slog.Logger) (delivered, failed int, err error) {
	claimed, err := store.claimDue(ctx, dispatchBatchSize)
	if err != nil {
		return 0, 0, err
	}

	for _, row := range claimed {
		n := Notification{
			Identifier: row.Identifier,
			Title:      row.Title,
			Body:       row.Body,
			FireAt:     row.FireAt,
		}
		if sendErr := sender.Send(ctx, n); sendErr != nil {
			logger.Warn("delivery failed", "identifier", row.Identifier, "error", sendErr)
			_ = store.markFailed(ctx, row.ID, sendErr.Error())
			failed++
		} else {
			_ = store.markDelivered(ctx, row.ID)
			delivered++
		}
	}
	return delivered, failed, nil
}
