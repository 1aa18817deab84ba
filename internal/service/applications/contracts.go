//go:generate mockgen -source=contracts.go -destination=applications_mocks_test.go -package=applications_test

package applications

import (
	"context"

	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/service/scheduling"
)

// SchedulerPort abstracts the subset of scheduling operations needed by
// the applications Processor when handling approval events.
type SchedulerPort interface {
	Create(ctx context.Context, in scheduling.CreateInput) (*domain.Delivery, error)
}
