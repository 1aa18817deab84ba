package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"laklight-scheduling/internal/config"
	"laklight-scheduling/internal/gateway/identity"
	"laklight-scheduling/internal/http/handlers"
	"laklight-scheduling/internal/http/middleware"
	"laklight-scheduling/internal/http/middleware/ratelimit"
	"laklight-scheduling/internal/http/router"
	"laklight-scheduling/internal/logx"
	prometrics "laklight-scheduling/internal/metrics"
	"laklight-scheduling/internal/notify"
	"laklight-scheduling/internal/repository"
	"laklight-scheduling/internal/service/reschedule"
	"laklight-scheduling/internal/service/scheduling"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
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
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		NewLogger,
		config.Load,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

func registerMetrics(container *dig.Container) error {
	counters := []struct {
		name string
		make func() prometheus.Counter
	}{
		{"rate_limit_exceeded_total", prometrics.NewRateLimitExceededTotal},
		{"gateway_retries_total", prometrics.NewGatewayRetriesTotal},
		{"delivery_version_conflicts_total", prometrics.NewVersionConflictsTotal},
		{"notifications_published_total", prometrics.NewNotificationsPublishedTotal},
	}
	for _, c := range counters {
		counter := c.make()
		if err := prometheus.Register(counter); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return fmt.Errorf("register %s: %w", c.name, err)
			}
			counter = are.ExistingCollector.(prometheus.Counter)
		}
		provider := func() prometheus.Counter { return counter }
		if err := container.Provide(provider, dig.Name(c.name)); err != nil {
			return fmt.Errorf("provide %s: %w", c.name, err)
		}
	}
	return nil
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewDeliveryRepo,
		repository.NewNotificationRepo,
		newHub,
		newSchedulingService,
		newRescheduleService,
	)
}

type hubIn struct {
	dig.In
	Logger    logx.Logger
	Published prometheus.Counter `name:"notifications_published_total"`
}

func newHub(in hubIn) *notify.Hub {
	return notify.NewHub(64, in.Published, in.Logger)
}

type schedulingIn struct {
	dig.In
	Repo      *repository.DeliveryRepo
	Cfg       *config.Config
	Logger    logx.Logger
	Conflicts prometheus.Counter `name:"delivery_version_conflicts_total"`
}

func newSchedulingService(in schedulingIn) *scheduling.Service {
	return scheduling.NewService(
		in.Repo,
		in.Cfg.Scheduling.OperationTimeout,
		in.Cfg.Scheduling.ConflictRetries,
		in.Conflicts,
		in.Logger,
	)
}

func newRescheduleService(
	repo *repository.DeliveryRepo,
	reader *repository.NotificationRepo,
	hub *notify.Hub,
	cfg *config.Config,
	logger logx.Logger,
) *reschedule.Service {
	return reschedule.NewService(repo, reader, hub, cfg.Scheduling.OperationTimeout, logger)
}

type identityIn struct {
	dig.In
	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

// newIdentityResolver wires the session-service gateway. A nil resolver
// means no session service is configured and the trusted actor headers
// carry the identity.
func newIdentityResolver(in identityIn) middleware.IdentityResolver {
	gw := identity.NewHTTPGateway(in.Cfg.Identity.BaseURL, nil)
	if gw == nil {
		return nil
	}
	return identity.NewRetryingGateway(gw, in.Logger, in.Retries, identity.RetryConfig{
		MaxAttempts: in.Cfg.Identity.MaxAttempts,
		BaseDelay:   in.Cfg.Identity.BaseDelay,
		MaxDelay:    in.Cfg.Identity.MaxDelay,
	})
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// No write timeout: the notification stream holds its
			// response open for as long as the subscriber stays.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewSchedulingUsecase,
		handlers.NewRescheduleUsecase,
		handlers.NewNotificationStream,
		handlers.NewDeliveryHandler,
		handlers.NewNotificationHandler,
		newIdentityResolver,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		serverProvider,
	)
}

type routerIn struct {
	dig.In
	Logger        logx.Logger
	Base          *handlers.Handlers
	Deliveries    *handlers.DeliveryHandler
	Notifications *handlers.NotificationHandler
	Resolver      middleware.IdentityResolver
	RateLimit     *ratelimit.Middleware
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Logger:        in.Logger,
		Base:          in.Base,
		Deliveries:    in.Deliveries,
		Notifications: in.Notifications,
		Resolver:      in.Resolver,
		RateLimit:     in.RateLimit,
	})
}
