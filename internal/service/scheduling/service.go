package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/logx"
)

// Service coordinates the delivery negotiation workflow: creation,
// projections and state transitions with optimistic concurrency.
type Service struct {
	repo             deliveryRepository
	operationTimeout time.Duration
	conflictRetries  int
	conflicts        counter
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates and configures a scheduling Service. conflicts counts
// versioned updates lost to a concurrent writer; nil disables it.
func NewService(r deliveryRepository, timeout time.Duration, retries int, conflicts counter, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if retries < 1 {
		retries = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		operationTimeout: timeout,
		conflictRetries:  retries,
		conflicts:        conflicts,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// CreateInput carries the fields a farmer submits with a new delivery.
// ApplicationID is set only for deliveries spawned by an approved supplier
// application and makes redelivered approval events idempotent.
type CreateInput struct {
	ApplicationID   string
	FarmerID        string
	FarmerName      string
	Product         string
	Quantity        int
	TransportMethod domain.TransportMethod
	ProposedDate    time.Time
}

func (s *Service) validateCreate(in *CreateInput) error {
	if strings.TrimSpace(in.FarmerID) == "" {
		return apperr.ErrInvalid
	}
	if strings.TrimSpace(in.Product) == "" {
		return apperr.ErrInvalid
	}
	if in.Quantity <= 0 {
		return apperr.ErrInvalid
	}
	if in.TransportMethod == "" {
		in.TransportMethod = domain.TransportTruck
	}
	if !in.TransportMethod.Valid() {
		return apperr.ErrInvalid
	}
	if domain.Date(in.ProposedDate).Before(domain.Date(s.now())) {
		return apperr.ErrInvalid
	}
	return nil
}

// Create registers a new pending delivery proposed by a farmer.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Delivery, error) {
	if err := s.validateCreate(&in); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d := &domain.Delivery{
		ApplicationID:   strings.TrimSpace(in.ApplicationID),
		FarmerID:        strings.TrimSpace(in.FarmerID),
		FarmerName:      strings.TrimSpace(in.FarmerName),
		Product:         strings.TrimSpace(in.Product),
		Quantity:        in.Quantity,
		TransportMethod: in.TransportMethod,
		ProposedDate:    domain.Date(in.ProposedDate),
		Status:          domain.StatusPending,
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("delivery created",
		logx.String("event", "delivery_created"),
		logx.String("delivery_id", d.ID),
		logx.String("farmer_id", d.FarmerID),
		logx.Time("proposed_date", d.ProposedDate),
	)
	return d, nil
}

// Get retrieves a delivery by its ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.ErrNotFound
	}
	return d, nil
}

// ListByFarmer returns the farmer's deliveries.
func (s *Service) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Delivery, error) {
	if strings.TrimSpace(farmerID) == "" {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByFarmer(ctx, farmerID)
}

// ListByStatus returns deliveries in the given status.
func (s *Service) ListByStatus(ctx context.Context, status domain.DeliveryStatus) ([]domain.Delivery, error) {
	if !status.Valid() {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByStatus(ctx, status)
}

// UpdateStatus moves a delivery along one edge of the negotiation state
// machine on behalf of actor. The update is a versioned read-modify-write:
// a concurrent writer forces a re-read and re-validation against the state
// it produced, and retry exhaustion surfaces apperr.ErrConflict. Re-sending
// a transition the delivery already took is a no-op success.
func (s *Service) UpdateStatus(
	ctx context.Context,
	actor domain.Actor,
	id string,
	newStatus domain.DeliveryStatus,
	newScheduleDate *time.Time,
) (*domain.Delivery, error) {
	if strings.TrimSpace(id) == "" || !actor.Valid() || !newStatus.Valid() {
		return nil, apperr.ErrInvalid
	}
	if newScheduleDate != nil {
		normalized := domain.Date(*newScheduleDate)
		if normalized.Before(domain.Date(s.now())) {
			return nil, apperr.ErrInvalid
		}
		newScheduleDate = &normalized
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	for attempt := 1; ; attempt++ {
		d, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, apperr.ErrNotFound
		}

		if done, ok := alreadyApplied(d, newStatus, newScheduleDate); ok {
			return done, nil
		}

		rule, ok := domain.Rule(d.Status, newStatus)
		if !ok || !domain.CanTransition(d.Status, newStatus, actor) {
			return nil, apperr.Transition(d.Status, newStatus, actor)
		}

		scheduleDate, err := resolveScheduleDate(d, rule, newScheduleDate)
		if err != nil {
			return nil, err
		}

		updated, err := s.repo.UpdateStatus(ctx, id, newStatus, scheduleDate, d.Version)
		if errors.Is(err, apperr.ErrConflict) {
			if s.conflicts != nil {
				s.conflicts.Inc()
			}
			if attempt >= s.conflictRetries {
				return nil, apperr.ErrConflict
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, apperr.ErrNotFound
		}

		s.logger.Info("delivery status changed",
			logx.String("event", "delivery_status_changed"),
			logx.String("delivery_id", updated.ID),
			logx.String("actor", string(actor)),
			logx.String("from", string(d.Status)),
			logx.String("to", string(updated.Status)),
			logx.Time("schedule_date", updated.ScheduleDate),
		)
		return updated, nil
	}
}

// alreadyApplied recognizes a client retry of a transition that has
// already happened, so resends after a timeout stay idempotent.
func alreadyApplied(d *domain.Delivery, newStatus domain.DeliveryStatus, newDate *time.Time) (*domain.Delivery, bool) {
	if d.Status != newStatus {
		return nil, false
	}
	if newDate != nil && !domain.SameDate(d.ScheduleDate, *newDate) {
		return nil, false
	}
	return d, true
}

// resolveScheduleDate applies the edge's date rule to the requested date.
func resolveScheduleDate(d *domain.Delivery, rule domain.TransitionRule, newDate *time.Time) (*time.Time, error) {
	switch rule.Date {
	case domain.DateUnchanged:
		if newDate != nil && !domain.SameDate(*newDate, d.ScheduleDate) {
			return nil, apperr.ErrInvalid
		}
		return nil, nil
	case domain.DateRequired:
		if newDate == nil {
			return nil, apperr.ErrInvalid
		}
		// A counter-date equal to the proposal is the fast-path approval,
		// not a counter.
		if domain.SameDate(*newDate, d.ProposedDate) {
			return nil, apperr.ErrInvalid
		}
		return newDate, nil
	case domain.DateFromProposed:
		if newDate != nil && !domain.SameDate(*newDate, d.ProposedDate) {
			return nil, apperr.ErrInvalid
		}
		proposed := d.ProposedDate
		return &proposed, nil
	case domain.DateOptional:
		return newDate, nil
	default:
		return nil, apperr.ErrInvalid
	}
}
