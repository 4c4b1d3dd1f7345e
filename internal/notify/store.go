package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres-backed Center. A scheduled notification is a row;
// cancellation deletes rows by identifier regardless of status, so
// delivered summaries are replaced wholesale alongside pending ones.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a notification store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CancelAll removes every notification (pending and delivered) carrying
// the given identifiers.
func (s *Store) CancelAll(ctx context.Context, identifiers []string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM notifications WHERE identifier = ANY($1)", identifiers)
	if err != nil {
		return fmt.Errorf("cancel notifications: %w", err)
	}
	return nil
}

// Schedule inserts one notification in scheduled state.
func (s *Store) Schedule(ctx context.Context, n Notification) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (identifier, title, body, status, fire_at)
		VALUES ($1, $2, $3, 'scheduled', $4)`,
		n.Identifier, n.Title, n.Body, n.FireAt,
	)
	if err != nil {
		return fmt.Errorf("schedule notification %s: %w", n.Identifier, err)
	}
	return nil
}

// Pending returns notifications still waiting to fire, soonest first.
func (s *Store) Pending(ctx context.Context) ([]Notification, error) {
	rows, err := s.pool.Query(ctx, "pending_notifications")
	if err != nil {
		return nil, fmt.Errorf("pending notifications: %w", err)
	}
	defer rows.Close()

	var pending []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.Identifier, &n.Title, &n.Body, &n.Status, &n.FireAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		pending = append(pending, n)
	}
	return pending, rows.Err()
}

// claimedRow is an internal type for claimed notification rows.
type claimedRow struct {
	ID         int64
	Identifier string
	Title      string
	Body       string
	FireAt     time.Time
}

// claimDue atomically claims a batch of due notifications for delivery.
// Uses FOR UPDATE SKIP LOCKED for safe concurrent dispatch.
func (s *Store) claimDue(ctx context.Context, limit int) ([]claimedRow, error) {
	rows, err := s.pool.Query(ctx, `
		UPDATE notifications
		SET status = 'delivering', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM notifications
			WHERE status = 'scheduled' AND fire_at <= NOW()
			ORDER BY fire_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, identifier, title, body, fire_at`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claim due notifications: %w", err)
	}
	defer rows.Close()

	var claimed []claimedRow
	for rows.Next() {
		var r claimedRow
		if err := rows.Scan(&r.ID, &r.Identifier, &r.Title, &r.Body, &r.FireAt); err != nil {
			return nil, fmt.Errorf("scan claimed: %w", err)
		}
		claimed = append(claimed, r)
	}
	return claimed, rows.Err()
}

// markDelivered marks a notification as successfully delivered.
func (s *Store) markDelivered(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE notifications SET status = 'delivered', updated_at = NOW()
		WHERE id = $1`, id)
	return err
}

// markFailed marks a notification as failed with the delivery error.
func (s *Store) markFailed(ctx context.Context, id int64, reason string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE notifications SET status = 'failed', last_error = $2, updated_at = NOW()
		WHERE id = $1`, id, reason)
	return err
}
