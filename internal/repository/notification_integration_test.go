//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/ports/schedtx"
	"laklight-scheduling/internal/repository"
)

type NotificationRepositorySuite struct {
	suite.Suite
	pool          *pgxpool.Pool
	deliveryRepo  *repository.DeliveryRepo
	notifications *repository.NotificationRepo
}

func (s *NotificationRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.deliveryRepo = repository.NewDeliveryRepo(tcPool)
	s.notifications = repository.NewNotificationRepo(tcPool)
}

func (s *NotificationRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE deliveries CASCADE`)
	s.Require().NoError(err)
}

func (s *NotificationRepositorySuite) seedDelivery() *domain.Delivery {
	d := &domain.Delivery{
		FarmerID:        "farmer-17",
		FarmerName:      "Ana Souza",
		Product:         "heirloom tomatoes",
		Quantity:        40,
		TransportMethod: domain.TransportTruck,
		ProposedDate:    domain.Date(time.Now().AddDate(0, 0, 7)),
		Status:          domain.StatusConfirmed,
	}
	s.Require().NoError(s.deliveryRepo.Insert(context.Background(), d))
	return d
}

func (s *NotificationRepositorySuite) insertNotification(deliveryID string) *domain.Notification {
	n := &domain.Notification{
		ID:          uuid.NewString(),
		DeliveryID:  deliveryID,
		OldDate:     domain.Date(time.Now().AddDate(0, 0, 7)),
		NewDate:     domain.Date(time.Now().AddDate(0, 0, 12)),
		RequestedBy: domain.ActorFarmer,
		Status:      domain.NotificationPending,
	}
	err := s.deliveryRepo.WithTx(context.Background(), func(tx schedtx.Repository) error {
		return tx.InsertNotification(context.Background(), n)
	})
	s.Require().NoError(err)
	return n
}

func (s *NotificationRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	d := s.seedDelivery()
	n := s.insertNotification(d.ID)
	s.False(n.CreatedAt.IsZero())

	got, err := s.notifications.Get(ctx, n.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(n.ID, got.ID)
	s.Equal(d.ID, got.DeliveryID)
	s.Equal(domain.ActorFarmer, got.RequestedBy)
	s.Equal(domain.NotificationPending, got.Status)
	s.True(got.NewDate.Equal(n.NewDate))
	s.True(got.ResolvedAt.IsZero())
	s.Empty(got.Reason)
}

func (s *NotificationRepositorySuite) TestInsert_DuplicateID() {
	ctx := context.Background()

	d := s.seedDelivery()
	n := s.insertNotification(d.ID)

	err := s.deliveryRepo.WithTx(ctx, func(tx schedtx.Repository) error {
		return tx.InsertNotification(ctx, &domain.Notification{
			ID:          n.ID,
			DeliveryID:  d.ID,
			OldDate:     n.OldDate,
			NewDate:     n.NewDate,
			RequestedBy: domain.ActorFarmer,
			Status:      domain.NotificationPending,
		})
	})
	s.ErrorIs(err, apperr.ErrConflict)
}

func (s *NotificationRepositorySuite) TestGet_Missing() {
	got, err := s.notifications.Get(context.Background(), uuid.NewString())
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *NotificationRepositorySuite) TestListPending_OldestFirst() {
	ctx := context.Background()

	d := s.seedDelivery()
	first := s.insertNotification(d.ID)
	second := s.insertNotification(d.ID)

	// Force distinct created_at values; now() has limited precision.
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET created_at = created_at - interval '1 minute' WHERE id = $1`, first.ID)
	s.Require().NoError(err)

	got, err := s.notifications.ListPending(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(first.ID, got[0].ID)
	s.Equal(second.ID, got[1].ID)
}

func (s *NotificationRepositorySuite) TestResolve_Approve() {
	ctx := context.Background()

	d := s.seedDelivery()
	n := s.insertNotification(d.ID)

	var resolved *domain.Notification
	err := s.deliveryRepo.WithTx(ctx, func(tx schedtx.Repository) error {
		var err error
		resolved, err = tx.ResolveNotification(ctx, n.ID, domain.NotificationApproved, "")
		return err
	})
	s.Require().NoError(err)
	s.Require().NotNil(resolved)
	s.Equal(domain.NotificationApproved, resolved.Status)
	s.False(resolved.ResolvedAt.IsZero())

	pending, err := s.notifications.ListPending(ctx)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *NotificationRepositorySuite) TestResolve_RejectKeepsReason() {
	ctx := context.Background()

	d := s.seedDelivery()
	n := s.insertNotification(d.ID)

	err := s.deliveryRepo.WithTx(ctx, func(tx schedtx.Repository) error {
		_, err := tx.ResolveNotification(ctx, n.ID, domain.NotificationRejected, "truck already booked")
		return err
	})
	s.Require().NoError(err)

	got, err := s.notifications.Get(ctx, n.ID)
	s.Require().NoError(err)
	s.Equal(domain.NotificationRejected, got.Status)
	s.Equal("truck already booked", got.Reason)
}

func (s *NotificationRepositorySuite) TestResolve_AlreadyResolved() {
	ctx := context.Background()

	d := s.seedDelivery()
	n := s.insertNotification(d.ID)

	err := s.deliveryRepo.WithTx(ctx, func(tx schedtx.Repository) error {
		_, err := tx.ResolveNotification(ctx, n.ID, domain.NotificationApproved, "")
		return err
	})
	s.Require().NoError(err)

	err = s.deliveryRepo.WithTx(ctx, func(tx schedtx.Repository) error {
		_, err := tx.ResolveNotification(ctx, n.ID, domain.NotificationRejected, "late")
		return err
	})
	s.ErrorIs(err, apperr.ErrConflict)
}

func (s *NotificationRepositorySuite) TestResolve_Unknown() {
	ctx := context.Background()

	s.seedDelivery()

	err := s.deliveryRepo.WithTx(ctx, func(tx schedtx.Repository) error {
		got, err := tx.ResolveNotification(ctx, uuid.NewString(), domain.NotificationApproved, "")
		s.Require().NoError(err)
		s.Nil(got)
		return nil
	})
	s.Require().NoError(err)
}

func (s *NotificationRepositorySuite) TestGetNotificationForUpdate() {
	ctx := context.Background()

	d := s.seedDelivery()
	n := s.insertNotification(d.ID)

	err := s.deliveryRepo.WithTx(ctx, func(tx schedtx.Repository) error {
		locked, err := tx.GetNotificationForUpdate(ctx, n.ID)
		s.Require().NoError(err)
		s.Require().NotNil(locked)
		s.Equal(n.ID, locked.ID)

		missing, err := tx.GetNotificationForUpdate(ctx, uuid.NewString())
		s.Require().NoError(err)
		s.Nil(missing)
		return nil
	})
	s.Require().NoError(err)
}

func TestNotificationRepositorySuite(t *testing.T) {
	suite.Run(t, new(NotificationRepositorySuite))
}
