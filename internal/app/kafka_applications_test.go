package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/logx"
	"laklight-scheduling/internal/service/applications"
	"laklight-scheduling/internal/service/scheduling"
)

type spyScheduler struct {
	called      int
	capturedCtx context.Context
	capturedIn  scheduling.CreateInput
	err         error
}

func (s *spyScheduler) Create(ctx context.Context, in scheduling.CreateInput) (*domain.Delivery, error) {
	s.called++
	s.capturedCtx = ctx
	s.capturedIn = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Delivery{ID: "DEL-1001", Status: domain.StatusPending}, nil
}

func requireTimeout5s(t *testing.T, ctx context.Context) {
	t.Helper()
	deadline, ok := ctx.Deadline()
	require.True(t, ok, "expected context with deadline")

	remaining := time.Until(deadline)
	require.Greater(t, remaining, 4*time.Second)
	require.Less(t, remaining, 6*time.Second)
}

func TestMakeApplicationsKafka_ApprovedEventReachesScheduler(t *testing.T) {
	t.Parallel()

	spy := &spyScheduler{}
	h := makeApplicationsKafka(applications.NewProcessor(spy, logx.Nop()))

	err := h(context.Background(), applications.Event{
		ApplicationID:   "app-301",
		FarmerID:        "farmer-17",
		FarmerName:      "Ana Souza",
		Product:         "heirloom tomatoes",
		Quantity:        40,
		TransportMethod: "van",
		ProposedDate:    "2026-09-15",
		Status:          "approved",
	})
	require.NoError(t, err)

	require.Equal(t, 1, spy.called)
	require.Equal(t, "app-301", spy.capturedIn.ApplicationID)
	require.Equal(t, domain.TransportVan, spy.capturedIn.TransportMethod)
	requireTimeout5s(t, spy.capturedCtx)
}

func TestMakeApplicationsKafka_ContextCanceledAfterHandling(t *testing.T) {
	t.Parallel()

	spy := &spyScheduler{}
	h := makeApplicationsKafka(applications.NewProcessor(spy, logx.Nop()))

	err := h(context.Background(), applications.Event{
		ApplicationID: "app-302",
		FarmerID:      "farmer-17",
		FarmerName:    "Ana Souza",
		Product:       "plums",
		Quantity:      10,
		ProposedDate:  "2026-09-15",
		Status:        "approved",
	})
	require.NoError(t, err)

	select {
	case <-spy.capturedCtx.Done():
	default:
		t.Fatal("expected per-event context to be canceled after the handler returns")
	}
}

func TestMakeApplicationsKafka_SchedulerErrorPropagates(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("db down")
	spy := &spyScheduler{err: sentinel}
	h := makeApplicationsKafka(applications.NewProcessor(spy, logx.Nop()))

	err := h(context.Background(), applications.Event{
		ApplicationID: "app-303",
		FarmerID:      "farmer-17",
		FarmerName:    "Ana Souza",
		Product:       "plums",
		Quantity:      10,
		ProposedDate:  "2026-09-15",
		Status:        "approved",
	})
	require.ErrorIs(t, err, sentinel)
}

func TestMakeApplicationsKafka_IgnoredStatusSkipsScheduler(t *testing.T) {
	t.Parallel()

	spy := &spyScheduler{}
	h := makeApplicationsKafka(applications.NewProcessor(spy, logx.Nop()))

	err := h(context.Background(), applications.Event{
		ApplicationID: "app-304",
		Status:        "rejected",
	})
	require.NoError(t, err)
	require.Equal(t, 0, spy.called)
}
