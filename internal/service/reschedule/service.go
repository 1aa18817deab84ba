package reschedule

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/logx"
	"laklight-scheduling/internal/ports/schedtx"
)

// Service runs the reschedule relay. Creating a request and parking the
// delivery, and resolving a request and settling the delivery, are each a
// single transaction: a notification can never be approved while its
// delivery update is lost.
type Service struct {
	repo             TxRunner
	reader           notificationReader
	publisher        Publisher
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a reschedule Service. publisher may be nil when no
// push channel is wired (worker-only deployments).
func NewService(repo TxRunner, reader notificationReader, publisher Publisher, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             repo,
		reader:           reader,
		publisher:        publisher,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func (s *Service) publish(n domain.Notification) {
	if s.publisher != nil {
		s.publisher.Publish(n)
	}
}

// Request files a reschedule ask against a delivery on behalf of actor. A
// confirmed delivery is parked in reschedule-pending in the same
// transaction; a pending-confirmation delivery stays put (the farmer's
// re-counter keeps the negotiation open until the employee acts).
func (s *Service) Request(ctx context.Context, actor domain.Actor, deliveryID string, newDate time.Time) (*domain.Notification, error) {
	if strings.TrimSpace(deliveryID) == "" || !actor.Valid() {
		return nil, apperr.ErrInvalid
	}
	requested := domain.Date(newDate)
	if requested.Before(domain.Date(s.now())) {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n *domain.Notification
	err := s.repo.WithTx(ctx, func(tx schedtx.Repository) error {
		d, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
		if err != nil {
			return err
		}
		if d == nil {
			return apperr.ErrNotFound
		}

		switch d.Status {
		case domain.StatusConfirmed:
			// Either party may ask after confirmation.
		case domain.StatusPendingConfirmation:
			if actor != domain.ActorFarmer {
				return apperr.Transition(d.Status, d.Status, actor)
			}
		default:
			return apperr.Transition(d.Status, domain.StatusReschedulePending, actor)
		}

		if domain.SameDate(d.ScheduleDate, requested) {
			return apperr.ErrInvalid
		}

		n = &domain.Notification{
			ID:          uuid.NewString(),
			DeliveryID:  d.ID,
			OldDate:     d.ScheduleDate,
			NewDate:     requested,
			RequestedBy: actor,
			Status:      domain.NotificationPending,
		}
		if err := tx.InsertNotification(ctx, n); err != nil {
			return err
		}

		if d.Status == domain.StatusConfirmed {
			if _, err := tx.UpdateDeliveryStatus(ctx, d.ID, domain.StatusReschedulePending, nil, d.Version); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reschedule requested",
		logx.String("event", "reschedule_requested"),
		logx.String("notification_id", n.ID),
		logx.String("delivery_id", n.DeliveryID),
		logx.String("requested_by", string(actor)),
		logx.Time("old_date", n.OldDate),
		logx.Time("new_date", n.NewDate),
	)
	s.publish(*n)
	return n, nil
}

// Resolve settles a pending reschedule request. Only the employee side may
// resolve; a rejection must carry a non-empty reason, which is stored and
// surfaced back to the requester. The notification row and the delivery
// transition commit together.
func (s *Service) Resolve(
	ctx context.Context,
	actor domain.Actor,
	notificationID string,
	outcome domain.NotificationStatus,
	reason string,
) (*domain.Notification, error) {
	if strings.TrimSpace(notificationID) == "" {
		return nil, apperr.ErrInvalid
	}
	if actor != domain.ActorEmployee {
		return nil, apperr.ErrInvalid
	}
	if !outcome.Resolved() {
		return nil, apperr.ErrInvalid
	}
	reason = strings.TrimSpace(reason)
	if outcome == domain.NotificationRejected && reason == "" {
		return nil, apperr.ErrReasonRequired
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var resolved *domain.Notification
	err := s.repo.WithTx(ctx, func(tx schedtx.Repository) error {
		n, err := tx.GetNotificationForUpdate(ctx, notificationID)
		if err != nil {
			return err
		}
		if n == nil {
			return apperr.ErrNotFound
		}
		if n.Status.Resolved() {
			return apperr.ErrConflict
		}

		d, err := tx.GetDeliveryForUpdate(ctx, n.DeliveryID)
		if err != nil {
			return err
		}
		if d == nil {
			return apperr.ErrNotFound
		}

		resolved, err = tx.ResolveNotification(ctx, n.ID, outcome, reason)
		if err != nil {
			return err
		}

		return settleDelivery(ctx, tx, d, n, outcome)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reschedule resolved",
		logx.String("event", "reschedule_resolved"),
		logx.String("notification_id", resolved.ID),
		logx.String("delivery_id", resolved.DeliveryID),
		logx.String("outcome", string(outcome)),
	)
	s.publish(*resolved)
	return resolved, nil
}

// settleDelivery applies the resolution outcome to the linked delivery.
// Approval adopts the requested date; rejection keeps the old one. Both
// end a parked delivery back in confirmed. A rejected re-counter on a
// pending-confirmation delivery leaves it waiting on the farmer.
func settleDelivery(ctx context.Context, tx schedtx.Repository, d *domain.Delivery, n *domain.Notification, outcome domain.NotificationStatus) error {
	switch d.Status {
	case domain.StatusReschedulePending:
		var date *time.Time
		if outcome == domain.NotificationApproved {
			date = &n.NewDate
		}
		_, err := tx.UpdateDeliveryStatus(ctx, d.ID, domain.StatusConfirmed, date, d.Version)
		return err
	case domain.StatusPendingConfirmation:
		if outcome != domain.NotificationApproved {
			return nil
		}
		_, err := tx.UpdateDeliveryStatus(ctx, d.ID, domain.StatusConfirmed, &n.NewDate, d.Version)
		return err
	default:
		// The delivery moved on (completed or cancelled) since the ask.
		return apperr.ErrConflict
	}
}

// ListPending returns unresolved reschedule requests for the employee view.
func (s *Service) ListPending(ctx context.Context) ([]domain.Notification, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.reader.ListPending(ctx)
}

// Get retrieves a notification by its ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Notification, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.reader.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.ErrNotFound
	}
	return n, nil
}
