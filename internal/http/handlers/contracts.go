package handlers

import (
	"context"
	"time"

	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/notify"
	"laklight-scheduling/internal/service/reschedule"
	"laklight-scheduling/internal/service/scheduling"
)

type schedulingUsecase interface {
	Create(ctx context.Context, in scheduling.CreateInput) (*domain.Delivery, error)
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]domain.Delivery, error)
	ListByStatus(ctx context.Context, status domain.DeliveryStatus) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, newStatus domain.DeliveryStatus, newScheduleDate *time.Time) (*domain.Delivery, error)
}

// NewSchedulingUsecase wires a scheduling Service into HTTP handlers.
func NewSchedulingUsecase(svc *scheduling.Service) schedulingUsecase {
	return svc
}

type rescheduleUsecase interface {
	Request(ctx context.Context, actor domain.Actor, deliveryID string, newDate time.Time) (*domain.Notification, error)
	Resolve(ctx context.Context, actor domain.Actor, notificationID string, outcome domain.NotificationStatus, reason string) (*domain.Notification, error)
	ListPending(ctx context.Context) ([]domain.Notification, error)
}

// NewRescheduleUsecase wires a reschedule Service into HTTP handlers.
func NewRescheduleUsecase(svc *reschedule.Service) rescheduleUsecase {
	return svc
}

type notificationStream interface {
	Subscribe(ctx context.Context) (<-chan domain.Notification, func())
}

// NewNotificationStream wires the notify Hub into HTTP handlers.
func NewNotificationStream(hub *notify.Hub) notificationStream {
	return hub
}
