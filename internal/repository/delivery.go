package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"laklight-scheduling/internal/apperr"
	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/ports/schedtx"
)

const deliveryColumns = `id, application_id, farmer_id, farmer_name, product, quantity, transport_method,
       proposed_date, schedule_date, status, version, created_at, updated_at`

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

type row interface {
	Scan(dest ...any) error
}

func scanDelivery(r row) (*domain.Delivery, error) {
	var (
		d             domain.Delivery
		applicationID *string
		scheduleDate  *time.Time
	)
	err := r.Scan(&d.ID, &applicationID, &d.FarmerID, &d.FarmerName, &d.Product, &d.Quantity,
		&d.TransportMethod, &d.ProposedDate, &scheduleDate, &d.Status,
		&d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if applicationID != nil {
		d.ApplicationID = *applicationID
	}
	if scheduleDate != nil {
		d.ScheduleDate = *scheduleDate
	}
	return &d, nil
}

// Insert stores a new delivery. The id is minted from the delivery sequence
// ("DEL-<n>"); version and timestamps come back from the database. A
// duplicate application id returns apperr.ErrConflict so event consumers
// can skip redeliveries.
func (r *DeliveryRepo) Insert(ctx context.Context, d *domain.Delivery) error {
	var applicationID *string
	if d.ApplicationID != "" {
		applicationID = &d.ApplicationID
	}
	err := r.db.QueryRow(ctx, `
        INSERT INTO deliveries (id, application_id, farmer_id, farmer_name, product,
                                quantity, transport_method, proposed_date, status, version)
        VALUES ('DEL-' || nextval('delivery_id_seq'), $1, $2, $3, $4, $5, $6, $7, $8, 1)
        RETURNING id, version, created_at, updated_at
    `, applicationID, d.FarmerID, d.FarmerName, d.Product, d.Quantity,
		string(d.TransportMethod), d.ProposedDate, string(d.Status)).
		Scan(&d.ID, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// Get returns a delivery by its ID, or nil if absent.
func (r *DeliveryRepo) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %q: %w", id, err)
	}
	return d, nil
}

// ListByFarmer returns the farmer's deliveries, newest first.
func (r *DeliveryRepo) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Delivery, error) {
	return r.list(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE farmer_id = $1 ORDER BY created_at DESC`,
		farmerID)
}

// ListByStatus returns deliveries in the given status, newest first.
func (r *DeliveryRepo) ListByStatus(ctx context.Context, status domain.DeliveryStatus) ([]domain.Delivery, error) {
	return r.list(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE status = $1 ORDER BY created_at DESC`,
		string(status))
}

func (r *DeliveryRepo) list(ctx context.Context, q string, arg any) ([]domain.Delivery, error) {
	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdateStatus applies a versioned status update. A stale expectedVersion
// leaves the row untouched and returns apperr.ErrConflict; an unknown id
// returns nil, nil.
func (r *DeliveryRepo) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.DeliveryStatus,
	scheduleDate *time.Time,
	expectedVersion int64,
) (*domain.Delivery, error) {
	return updateStatus(ctx, r.db, id, status, scheduleDate, expectedVersion)
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func updateStatus(
	ctx context.Context,
	q execQuerier,
	id string,
	status domain.DeliveryStatus,
	scheduleDate *time.Time,
	expectedVersion int64,
) (*domain.Delivery, error) {
	d, err := scanDelivery(q.QueryRow(ctx, `
        UPDATE deliveries
        SET status = $2,
            schedule_date = COALESCE($3, schedule_date),
            version = version + 1,
            updated_at = now()
        WHERE id = $1 AND version = $4
        RETURNING `+deliveryColumns, id, string(status), scheduleDate, expectedVersion))
	if err == nil {
		return d, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("update delivery %q: %w", id, err)
	}

	// No row matched: either the id is unknown or the version is stale.
	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM deliveries WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("update delivery %q: %w", id, err)
	}
	if !exists {
		return nil, nil
	}
	return nil, apperr.ErrConflict
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx schedtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

// GetDeliveryForUpdate locks and returns the delivery row, or nil if absent.
func (r *TxRepo) GetDeliveryForUpdate(ctx context.Context, id string) (*domain.Delivery, error) {
	d, err := scanDelivery(r.tx.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %q for update: %w", id, err)
	}
	return d, nil
}

// UpdateDeliveryStatus applies a versioned status update inside the transaction.
func (r *TxRepo) UpdateDeliveryStatus(
	ctx context.Context,
	id string,
	status domain.DeliveryStatus,
	scheduleDate *time.Time,
	expectedVersion int64,
) (*domain.Delivery, error) {
	return updateStatus(ctx, r.tx, id, status, scheduleDate, expectedVersion)
}
