//go:build integration

package repository_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/ports/schedtx"
	"laklight-scheduling/internal/repository"
)

type DeliveryRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.DeliveryRepo
}

func (s *DeliveryRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewDeliveryRepo(tcPool)
}

func (s *DeliveryRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE deliveries CASCADE`)
	s.Require().NoError(err)
}

func (s *DeliveryRepositorySuite) insertDelivery(farmerID, applicationID string, status domain.DeliveryStatus) *domain.Delivery {
	d := &domain.Delivery{
		ApplicationID:   applicationID,
		FarmerID:        farmerID,
		FarmerName:      "Ana Souza",
		Product:         "heirloom tomatoes",
		Quantity:        40,
		TransportMethod: domain.TransportTruck,
		ProposedDate:    domain.Date(time.Now().AddDate(0, 0, 7)),
		Status:          status,
	}
	s.Require().NoError(s.repo.Insert(context.Background(), d))
	return d
}

func (s *DeliveryRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	d := s.insertDelivery("farmer-17", "", domain.StatusPending)

	s.True(strings.HasPrefix(d.ID, "DEL-"), "id %q must carry the DEL- prefix", d.ID)
	s.Equal(int64(1), d.Version)
	s.False(d.CreatedAt.IsZero())

	got, err := s.repo.Get(ctx, d.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(d.ID, got.ID)
	s.Equal("farmer-17", got.FarmerID)
	s.Equal("heirloom tomatoes", got.Product)
	s.Equal(domain.TransportTruck, got.TransportMethod)
	s.Equal(domain.StatusPending, got.Status)
	s.True(got.ProposedDate.Equal(d.ProposedDate))
	s.False(got.Scheduled())
}

func (s *DeliveryRepositorySuite) TestInsert_DuplicateApplicationID() {
	s.insertDelivery("farmer-17", "app-301", domain.StatusPending)

	dup := &domain.Delivery{
		ApplicationID:   "app-301",
		FarmerID:        "farmer-17",
		FarmerName:      "Ana Souza",
		Product:         "heirloom tomatoes",
		Quantity:        40,
		TransportMethod: domain.TransportVan,
		ProposedDate:    domain.Date(time.Now().AddDate(0, 0, 7)),
		Status:          domain.StatusPending,
	}
	err := s.repo.Insert(context.Background(), dup)
	s.ErrorIs(err, apperr.ErrConflict)
}

func (s *DeliveryRepositorySuite) TestInsert_EmptyApplicationIDsDoNotCollide() {
	a := s.insertDelivery("farmer-17", "", domain.StatusPending)
	b := s.insertDelivery("farmer-18", "", domain.StatusPending)
	s.NotEqual(a.ID, b.ID)
}

func (s *DeliveryRepositorySuite) TestGet_Missing() {
	got, err := s.repo.Get(context.Background(), "DEL-0")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *DeliveryRepositorySuite) TestListByFarmer() {
	ctx := context.Background()

	s.insertDelivery("farmer-17", "", domain.StatusPending)
	s.insertDelivery("farmer-17", "", domain.StatusConfirmed)
	s.insertDelivery("farmer-18", "", domain.StatusPending)

	got, err := s.repo.ListByFarmer(ctx, "farmer-17")
	s.Require().NoError(err)
	s.Len(got, 2)
	for _, d := range got {
		s.Equal("farmer-17", d.FarmerID)
	}

	empty, err := s.repo.ListByFarmer(ctx, "farmer-99")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)
}

func (s *DeliveryRepositorySuite) TestListByStatus() {
	ctx := context.Background()

	s.insertDelivery("farmer-17", "", domain.StatusPending)
	s.insertDelivery("farmer-18", "", domain.StatusConfirmed)

	got, err := s.repo.ListByStatus(ctx, domain.StatusConfirmed)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("farmer-18", got[0].FarmerID)
}

func (s *DeliveryRepositorySuite) TestUpdateStatus() {
	ctx := context.Background()

	d := s.insertDelivery("farmer-17", "", domain.StatusPending)
	date := domain.Date(time.Now().AddDate(0, 0, 10))

	got, err := s.repo.UpdateStatus(ctx, d.ID, domain.StatusConfirmed, &date, d.Version)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(domain.StatusConfirmed, got.Status)
	s.Equal(int64(2), got.Version)
	s.True(got.ScheduleDate.Equal(date))
}

func (s *DeliveryRepositorySuite) TestUpdateStatus_NilDateKeepsExisting() {
	ctx := context.Background()

	d := s.insertDelivery("farmer-17", "", domain.StatusPending)
	date := domain.Date(time.Now().AddDate(0, 0, 10))

	confirmed, err := s.repo.UpdateStatus(ctx, d.ID, domain.StatusConfirmed, &date, d.Version)
	s.Require().NoError(err)

	done, err := s.repo.UpdateStatus(ctx, d.ID, domain.StatusCompleted, nil, confirmed.Version)
	s.Require().NoError(err)
	s.Require().NotNil(done)
	s.Equal(domain.StatusCompleted, done.Status)
	s.True(done.ScheduleDate.Equal(date), "schedule date must survive a nil update")
}

func (s *DeliveryRepositorySuite) TestUpdateStatus_StaleVersion() {
	ctx := context.Background()

	d := s.insertDelivery("farmer-17", "", domain.StatusPending)

	_, err := s.repo.UpdateStatus(ctx, d.ID, domain.StatusConfirmed, nil, d.Version)
	s.Require().NoError(err)

	_, err = s.repo.UpdateStatus(ctx, d.ID, domain.StatusCancelled, nil, d.Version)
	s.ErrorIs(err, apperr.ErrConflict)

	got, err := s.repo.Get(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusConfirmed, got.Status, "stale update must leave the row untouched")
}

func (s *DeliveryRepositorySuite) TestUpdateStatus_UnknownID() {
	got, err := s.repo.UpdateStatus(context.Background(), "DEL-0", domain.StatusConfirmed, nil, 1)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *DeliveryRepositorySuite) TestWithTx_Commit() {
	ctx := context.Background()

	d := s.insertDelivery("farmer-17", "", domain.StatusConfirmed)

	err := s.repo.WithTx(ctx, func(tx schedtx.Repository) error {
		locked, err := tx.GetDeliveryForUpdate(ctx, d.ID)
		s.Require().NoError(err)
		s.Require().NotNil(locked)

		_, err = tx.UpdateDeliveryStatus(ctx, d.ID, domain.StatusReschedulePending, nil, locked.Version)
		return err
	})
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusReschedulePending, got.Status)
}

func (s *DeliveryRepositorySuite) TestWithTx_RollbackOnError() {
	ctx := context.Background()

	d := s.insertDelivery("farmer-17", "", domain.StatusConfirmed)

	err := s.repo.WithTx(ctx, func(tx schedtx.Repository) error {
		if _, err := tx.UpdateDeliveryStatus(ctx, d.ID, domain.StatusCancelled, nil, d.Version); err != nil {
			return err
		}
		return apperr.ErrInvalid
	})
	s.ErrorIs(err, apperr.ErrInvalid)

	got, err := s.repo.Get(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusConfirmed, got.Status, "rolled back update must not be visible")
	s.Equal(int64(1), got.Version)
}

func (s *DeliveryRepositorySuite) TestGetDeliveryForUpdate_Missing() {
	ctx := context.Background()

	err := s.repo.WithTx(ctx, func(tx schedtx.Repository) error {
		got, err := tx.GetDeliveryForUpdate(ctx, "DEL-0")
		s.Require().NoError(err)
		s.Nil(got)
		return nil
	})
	s.Require().NoError(err)
}

func TestDeliveryRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeliveryRepositorySuite))
}
