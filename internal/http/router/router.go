package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"laklight-scheduling/internal/http/handlers"
	"laklight-scheduling/internal/http/middleware"
	"laklight-scheduling/internal/http/middleware/ratelimit"
	"laklight-scheduling/internal/logx"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Logger        logx.Logger
	Base          *handlers.Handlers
	Deliveries    *handlers.DeliveryHandler
	Notifications *handlers.NotificationHandler
	Resolver      middleware.IdentityResolver
	RateLimit     *ratelimit.Middleware
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Observability(d.Logger))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	limit := passthrough
	if d.RateLimit != nil {
		limit = d.RateLimit.Handler()
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.ActorAuth(d.Logger, d.Resolver))

		// The SSE stream holds its connection open, so it lives outside
		// the request timeout applied to the rest of the API.
		api.Get("/notifications/stream", d.Notifications.Stream)

		api.Group(func(api chi.Router) {
			api.Use(chimw.Timeout(5 * time.Second))

			api.Get("/deliveries", d.Deliveries.List)
			api.Get("/deliveries/{id}", d.Deliveries.Get)
			api.Get("/notifications/pending", d.Notifications.ListPending)

			api.Group(func(mut chi.Router) {
				mut.Use(limit)

				mut.Post("/deliveries", d.Deliveries.Create)
				mut.Patch("/deliveries/{id}/status", d.Deliveries.UpdateStatus)
				mut.Post("/deliveries/{id}/reschedule", d.Notifications.Request)
				mut.Post("/notifications/{id}/resolve", d.Notifications.Resolve)
			})
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler { return next }
