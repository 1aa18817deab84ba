package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/logx"
	"laklight-scheduling/internal/service/scheduling"
)

// Processor turns approved supplier applications into pending deliveries.
type Processor struct {
	scheduler SchedulerPort
	logger    logx.Logger
	factory   *actionFactory
}

// NewProcessor creates a new applications Processor.
func NewProcessor(scheduler SchedulerPort, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{scheduler: scheduler, logger: logger}
	p.factory = newActionFactory(p.onApproved)
	return p
}

// Handle processes a single application event. Statuses other than
// approved carry no scheduling work and are acknowledged as-is.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onApproved(ctx context.Context, e Event) error {
	proposed, err := time.Parse("2006-01-02", strings.TrimSpace(e.ProposedDate))
	if err != nil {
		p.logger.Warn("application event with bad proposed date, skipping",
			logx.String("application_id", e.ApplicationID),
			logx.String("proposed_date", e.ProposedDate),
		)
		return nil
	}

	d, err := p.scheduler.Create(ctx, scheduling.CreateInput{
		ApplicationID:   e.ApplicationID,
		FarmerID:        e.FarmerID,
		FarmerName:      e.FarmerName,
		Product:         e.Product,
		Quantity:        e.Quantity,
		TransportMethod: domain.TransportMethod(e.TransportMethod),
		ProposedDate:    proposed,
	})
	switch {
	case errors.Is(err, apperr.ErrConflict):
		// Redelivered event, the delivery already exists.
		p.logger.Debug("application already processed",
			logx.String("application_id", e.ApplicationID),
		)
		return nil
	case errors.Is(err, apperr.ErrInvalid):
		p.logger.Warn("application event failed validation, skipping",
			logx.String("application_id", e.ApplicationID),
		)
		return nil
	case err != nil:
		return err
	}

	p.logger.Info("delivery created from application",
		logx.String("event", "application_scheduled"),
		logx.String("application_id", e.ApplicationID),
		logx.String("delivery_id", d.ID),
	)
	return nil
}

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	actions map[string]actionFunc
}

func newActionFactory(onApproved actionFunc) *actionFactory {
	return &actionFactory{actions: map[string]actionFunc{
		"approved": onApproved,
	}}
}

func (f *actionFactory) get(status string) (actionFunc, bool) {
	fn, ok := f.actions[strings.ToLower(strings.TrimSpace(status))]
	return fn, ok
}
