//go:generate mockgen -source=contracts.go -destination=scheduling_mocks_test.go -package=scheduling_test

package scheduling

import (
	"context"
	"time"

	"laklight-scheduling/internal/domain"
)

type deliveryRepository interface {
	Insert(ctx context.Context, d *domain.Delivery) error
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Delivery, error)
	ListByStatus(ctx context.Context, status domain.DeliveryStatus) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus, scheduleDate *time.Time, expectedVersion int64) (*domain.Delivery, error)
}

type counter interface {
	Inc()
}
