//go:generate mockgen -source=contracts.go -destination=reschedule_mocks_test.go -package=reschedule_test

package reschedule

import (
	"context"

	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/ports/schedtx"
)

// TxRunner abstracts running a function within a scheduling transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx schedtx.Repository) error) error
}

type notificationReader interface {
	Get(ctx context.Context, id string) (*domain.Notification, error)
	ListPending(ctx context.Context) ([]domain.Notification, error)
}

// Publisher pushes resolved and requested notifications to subscribers.
type Publisher interface {
	Publish(n domain.Notification)
}
