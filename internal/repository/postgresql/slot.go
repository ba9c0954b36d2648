package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/droppoint/lockerd/internal/config"
	"github.com/droppoint/lockerd/internal/db"
	"github.com/droppoint/lockerd/internal/engine"
	"github.com/droppoint/lockerd/internal/repository"
)

const slotColumns = "id, locker_id, label, size_class, status, parcel_ref, created_at, updated_at"

type SlotRepo struct {
	db db.DB
}

var _ engine.SlotRepository = (*SlotRepo)(nil)

func NewSlotRepo(db db.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

func (r *SlotRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Slot, error) {
	var slot repository.Slot
	err := tx.Get(ctx, &slot, fmt.Sprintf("SELECT %s FROM slots WHERE id = $1 FOR UPDATE", slotColumns), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &slot, nil
}

// AvailableCandidatesTx lists claimable slots in tie-break order. The listing
// takes no row locks: exclusion is carried entirely by the ClaimTx
// compare-and-swap, so concurrent allocators contend slot by slot instead of
// one transaction locking the whole candidate set and starving the rest into
// a false no-capacity answer.
func (r *SlotRepo) AvailableCandidatesTx(ctx context.Context, tx db.Tx, sizeClass repository.SizeClass, location string, policy config.TieBreak) ([]*repository.Slot, error) {
	orderBy := "s.id ASC"
	if policy == config.TieBreakLeastOccupied {
		orderBy = `(
            SELECT COUNT(*) FROM slots o
            WHERE o.locker_id = s.locker_id AND o.status IN ('reserved', 'occupied')
        ) ASC, s.id ASC`
	}

	query := fmt.Sprintf(`
        SELECT s.id, s.locker_id, s.label, s.size_class, s.status, s.parcel_ref, s.created_at, s.updated_at
        FROM slots s
        JOIN lockers l ON l.id = s.locker_id
        WHERE s.size_class = $1
          AND s.status = 'available'
          AND ($2 = '' OR l.location = $2)
        ORDER BY %s
    `, orderBy)

	var slots []*repository.Slot
	if err := tx.Select(ctx, &slots, query, sizeClass, location); err != nil {
		return nil, fmt.Errorf("failed to list available slots: %w", err)
	}
	return slots, nil
}

// ClaimTx is the test-and-set over (status, parcel_ref): it succeeds only if
// the slot is still available, so no two callers can ever claim the same slot.
func (r *SlotRepo) ClaimTx(ctx context.Context, tx db.Tx, slotID int64, parcelRef string) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE slots
        SET status = 'reserved', parcel_ref = $2, updated_at = now()
        WHERE id = $1 AND status = 'available'
    `, slotID, parcelRef)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SlotRepo) OccupyTx(ctx context.Context, tx db.Tx, slotID int64) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE slots
        SET status = 'occupied', updated_at = now()
        WHERE id = $1 AND status = 'reserved'
    `, slotID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseTx returns the slot to the pool, clearing the parcel back-pointer in
// the same statement so the two never diverge.
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx db.Tx, slotID int64, from repository.SlotStatus) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE slots
        SET status = 'available', parcel_ref = NULL, updated_at = now()
        WHERE id = $1 AND status = $2
    `, slotID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SlotRepo) InfoTx(ctx context.Context, tx db.Tx, slotID int64) (*repository.SlotInfo, error) {
	var info repository.SlotInfo
	err := tx.Get(ctx, &info, `
        SELECT s.id AS slot_id, s.label AS slot_label, l.id AS locker_id, l.label AS locker_label, l.location
        FROM slots s
        JOIN lockers l ON l.id = s.locker_id
        WHERE s.id = $1
    `, slotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &info, nil
}
