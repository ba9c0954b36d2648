package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/droppoint/lockerd/internal/db"
	"github.com/droppoint/lockerd/internal/engine"
	"github.com/droppoint/lockerd/internal/repository"
)

const reservationColumns = `id, parcel_ref, slot_id, status, pickup_code, reserved_at, expires_at,
        delivered_at, code_expires_at, picked_up_at, pickup_attempts, cancel_reason, created_at, updated_at`

type ReservationRepo struct {
	db db.DB
}

var _ engine.ReservationRepository = (*ReservationRepo)(nil)

func NewReservationRepo(db db.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

func (r *ReservationRepo) CreateTx(ctx context.Context, tx db.Tx, reservation *repository.Reservation) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO reservations (
            id, parcel_ref, slot_id, status, reserved_at, expires_at, pickup_attempts, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, reservation.ID, reservation.ParcelRef, reservation.SlotID, reservation.Status,
		reservation.ReservedAt, reservation.ExpiresAt, reservation.PickupAttempts,
		reservation.CreatedAt, reservation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.Reservation, error) {
	var reservation repository.Reservation
	err := r.db.Get(ctx, &reservation, "SELECT "+reservationColumns+" FROM reservations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.Reservation, error) {
	var reservation repository.Reservation
	err := tx.Get(ctx, &reservation, "SELECT "+reservationColumns+" FROM reservations WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

// GetActiveByCodeTx row-locks the reservation bound to a code so a racing
// reclaim sweep and a pickup serialize at the reservation granularity.
func (r *ReservationRepo) GetActiveByCodeTx(ctx context.Context, tx db.Tx, code string) (*repository.Reservation, error) {
	var reservation repository.Reservation
	err := tx.Get(ctx, &reservation, `
        SELECT `+reservationColumns+`
        FROM reservations
        WHERE pickup_code = $1 AND status = 'active'
        FOR UPDATE
    `, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationRepo) CodeInUseTx(ctx context.Context, tx db.Tx, code string) (bool, error) {
	var count int
	err := tx.Get(ctx, &count,
		"SELECT COUNT(*) FROM reservations WHERE pickup_code = $1 AND status = 'active'", code)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkDeliveredTx issues the code and opens the pickup window; guarded so it
// can only happen once per reservation.
func (r *ReservationRepo) MarkDeliveredTx(ctx context.Context, tx db.Tx, id uuid.UUID, code string, deliveredAt, codeExpiresAt time.Time) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE reservations
        SET pickup_code = $2, delivered_at = $3, code_expires_at = $4, updated_at = now()
        WHERE id = $1 AND status = 'active' AND delivered_at IS NULL
    `, id, code, deliveredAt, codeExpiresAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepo) IncrementAttemptsTx(ctx context.Context, tx db.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `
        UPDATE reservations
        SET pickup_attempts = pickup_attempts + 1, updated_at = now()
        WHERE id = $1
    `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

// TerminateTx is the single gate into terminal states. The status predicate
// makes competing terminal transitions mutually exclusive: exactly one caller
// sees an affected row, every loser observes zero.
func (r *ReservationRepo) TerminateTx(ctx context.Context, tx db.Tx, id uuid.UUID, to repository.ReservationStatus, pickedUpAt *time.Time, reason *string) (bool, error) {
	if !to.Terminal() {
		return false, fmt.Errorf("status %s is not terminal", to)
	}
	tag, err := tx.Exec(ctx, `
        UPDATE reservations
        SET status = $2, picked_up_at = $3, cancel_reason = $4, updated_at = now()
        WHERE id = $1 AND status = 'active'
    `, id, to, pickedUpAt, reason)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepo) DueForReclaim(ctx context.Context, now time.Time, limit int) ([]*repository.Reservation, error) {
	var reservations []*repository.Reservation
	err := r.db.Select(ctx, &reservations, `
        SELECT `+reservationColumns+`
        FROM reservations
        WHERE status = 'active'
          AND (
            (delivered_at IS NULL AND expires_at < $1)
            OR (delivered_at IS NOT NULL AND code_expires_at < $1)
          )
        ORDER BY reserved_at ASC
        LIMIT $2
    `, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reservations: %w", err)
	}
	return reservations, nil
}

// ActiveAll feeds the reservation cache at startup.
func (r *ReservationRepo) ActiveAll(ctx context.Context) ([]*repository.Reservation, error) {
	var reservations []*repository.Reservation
	err := r.db.Select(ctx, &reservations,
		"SELECT "+reservationColumns+" FROM reservations WHERE status = 'active' ORDER BY reserved_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list active reservations: %w", err)
	}
	return reservations, nil
}
