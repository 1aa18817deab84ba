package app

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"laklight-scheduling/internal/config"
	"laklight-scheduling/internal/service/applications"
	"laklight-scheduling/internal/service/scheduling"
	"laklight-scheduling/internal/transport/kafka"
)

// MustBuildWorkerContainer builds the DI container for the Kafka worker
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

// MustBuildWorker builds and returns a new dig container for the worker
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func registerWorker(container *dig.Container) error {
	consumerProvider := func(cfg *config.Config, h kafka.HandleFunc) (*kafka.Consumer, error) {
		return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
	}
	return provideAll(container,
		func(svc *scheduling.Service) applications.SchedulerPort { return svc },
		applications.NewProcessor,
		makeApplicationsKafka,
		consumerProvider,
	)
}
