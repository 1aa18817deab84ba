package app

import (
	"context"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"laklight-scheduling/internal/config"
)

func TestGracefulShutdown_DoesNotPanic(t *testing.T) {
	t.Parallel()

	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	require.NotPanics(t, func() {
		gracefulShutdown(srv, newTestLogger(), 100*time.Millisecond)
	})
}

func TestStartPprof_DisabledWithoutAddr(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	require.Nil(t, startPprof(cfg, newTestLogger()))
}

func TestStartPprof_EnabledWithAddr(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Pprof = config.Pprof{Addr: "127.0.0.1:0"}

	srv := startPprof(cfg, newTestLogger())
	require.NotNil(t, srv)
	require.Equal(t, "127.0.0.1:0", srv.Addr)
	require.NotNil(t, srv.Handler)
	require.NoError(t, srv.Close())
}

func TestCloseResources_NilPoolAndPprof(t *testing.T) {
	t.Parallel()

	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	require.NotPanics(t, func() {
		closeResources(nil, srv, nil, newTestLogger())
	})
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container := dig.New()

	require.NoError(t, container.Provide(func() context.Context { return ctx }))
	require.NoError(t, container.Provide(func() *log.Logger { return newTestLogger() }))
	require.NoError(t, container.Provide(func() *config.Config { return testConfig() }))
	require.NoError(t, container.Provide(func() *pgxpool.Pool { return nil }))
	require.NoError(t, container.Provide(func() *http.Server {
		return &http.Server{
			Addr:    "127.0.0.1:0",
			Handler: http.NewServeMux(),
		}
	}))

	done := make(chan error, 1)
	go func() { done <- run(container) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after context cancel")
	}
}
