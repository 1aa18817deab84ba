package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
)

const notificationColumns = `id, delivery_id, old_date, new_date, requested_by, status,
       reason, created_at, resolved_at`

// NotificationRepo represents reschedule notification repository.
type NotificationRepo struct{ db *pgxpool.Pool }

// NewNotificationRepo creates a new NotificationRepo.
func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func scanNotification(r row) (*domain.Notification, error) {
	var (
		n          domain.Notification
		resolvedAt *time.Time
	)
	err := r.Scan(&n.ID, &n.DeliveryID, &n.OldDate, &n.NewDate, &n.RequestedBy,
		&n.Status, &n.Reason, &n.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}
	if resolvedAt != nil {
		n.ResolvedAt = *resolvedAt
	}
	return &n, nil
}

// Get returns a notification by its ID, or nil if absent.
func (r *NotificationRepo) Get(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := scanNotification(r.db.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification %q: %w", id, err)
	}
	return n, nil
}

// ListPending returns unresolved reschedule requests, oldest first.
func (r *NotificationRepo) ListPending(ctx context.Context) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE status = $1 ORDER BY created_at`,
		string(domain.NotificationPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// InsertNotification stores a new pending notification inside the transaction.
func (r *TxRepo) InsertNotification(ctx context.Context, n *domain.Notification) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO notifications (id, delivery_id, old_date, new_date, requested_by, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `, n.ID, n.DeliveryID, n.OldDate, n.NewDate, string(n.RequestedBy), string(n.Status)).
		Scan(&n.CreatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetNotificationForUpdate locks and returns the notification row, or nil if absent.
func (r *TxRepo) GetNotificationForUpdate(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := scanNotification(r.tx.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification %q for update: %w", id, err)
	}
	return n, nil
}

// ResolveNotification moves a pending notification to its final status. A
// notification already resolved leaves the row untouched and returns
// apperr.ErrConflict.
func (r *TxRepo) ResolveNotification(
	ctx context.Context,
	id string,
	status domain.NotificationStatus,
	reason string,
) (*domain.Notification, error) {
	n, err := scanNotification(r.tx.QueryRow(ctx, `
        UPDATE notifications
        SET status = $2, reason = $3, resolved_at = now()
        WHERE id = $1 AND status = $4
        RETURNING `+notificationColumns,
		id, string(status), reason, string(domain.NotificationPending)))
	if err == nil {
		return n, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("resolve notification %q: %w", id, err)
	}

	var exists bool
	if err := r.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("resolve notification %q: %w", id, err)
	}
	if !exists {
		return nil, nil
	}
	return nil, apperr.ErrConflict
}
