package schedtx

import (
	"context"
	"time"

	"laklight-scheduling/internal/domain"
)

// Repository is the transaction-scoped slice of the persistence layer used
// by the reschedule relay: the notification row and the linked delivery are
// always mutated inside one transaction.
type Repository interface {
	GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus, scheduleDate *time.Time, expectedVersion int64) (*domain.Delivery, error)
	InsertNotification(ctx context.Context, n *domain.Notification) error
	GetNotificationForUpdate(ctx context.Context, id string) (*domain.Notification, error)
	ResolveNotification(ctx context.Context, id string, status domain.NotificationStatus, reason string) (*domain.Notification, error)
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
