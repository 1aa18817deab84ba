package app

import (
	"context"
	"time"

	"laklight-scheduling/internal/service/applications"
	"laklight-scheduling/internal/transport/kafka"
)

func makeApplicationsKafka(p *applications.Processor) kafka.HandleFunc {
	return func(ctx context.Context, event applications.Event) error {
		handleCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return p.Handle(handleCtx, event)
	}
}
