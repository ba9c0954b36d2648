package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/droppoint/lockerd/internal/db"
	"github.com/droppoint/lockerd/internal/engine"
	"github.com/droppoint/lockerd/internal/repository"
)

const parcelColumns = "tracking_ref, recipient_name, recipient_phone, recipient_email, size_class, status, created_at, updated_at"

type ParcelRepo struct {
	db db.DB
}

var _ engine.ParcelRepository = (*ParcelRepo)(nil)

func NewParcelRepo(db db.DB) *ParcelRepo {
	return &ParcelRepo{db: db}
}

func (r *ParcelRepo) CreateTx(ctx context.Context, tx db.Tx, parcel *repository.Parcel) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO parcels (
            tracking_ref, recipient_name, recipient_phone, recipient_email, size_class, status, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, parcel.TrackingRef, parcel.RecipientName, parcel.RecipientPhone, parcel.RecipientEmail,
		parcel.SizeClass, parcel.Status, parcel.CreatedAt, parcel.UpdatedAt)
	return err
}

func (r *ParcelRepo) GetByRef(ctx context.Context, ref string) (*repository.Parcel, error) {
	var parcel repository.Parcel
	err := r.db.Get(ctx, &parcel, "SELECT "+parcelColumns+" FROM parcels WHERE tracking_ref = $1", ref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &parcel, nil
}

func (r *ParcelRepo) GetByRefTx(ctx context.Context, tx db.Tx, ref string) (*repository.Parcel, error) {
	var parcel repository.Parcel
	err := tx.Get(ctx, &parcel, "SELECT "+parcelColumns+" FROM parcels WHERE tracking_ref = $1 FOR UPDATE", ref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &parcel, nil
}

// TransitionTx moves the parcel between lifecycle states only if it still is
// in the expected one.
func (r *ParcelRepo) TransitionTx(ctx context.Context, tx db.Tx, ref string, from, to repository.ParcelStatus) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE parcels SET status = $3, updated_at = now()
        WHERE tracking_ref = $1 AND status = $2
    `, ref, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ParcelRepo) UpdateStatusTx(ctx context.Context, tx db.Tx, ref string, to repository.ParcelStatus) error {
	tag, err := tx.Exec(ctx, `
        UPDATE parcels SET status = $2, updated_at = now()
        WHERE tracking_ref = $1
    `, ref, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
