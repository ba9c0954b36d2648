package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/droppoint/lockerd/internal/metrics"
	"github.com/droppoint/lockerd/internal/repository"
)

// VerifyPickup validates a presented code plus the secondary factor (last
// four digits of the recipient phone) and on success completes the
// reservation and releases its slot.
//
// The attempt counter is incremented on every outcome once a reservation is
// found, so upstream lockout policies can act on it. A factor mismatch leaves
// the reservation active; an expired code terminates it the same way the
// reclaimer would.
func (e *Engine) VerifyPickup(ctx context.Context, code, secondaryFactor string) (*PickupResult, error) {
	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	reservation, err := e.reservations.GetActiveByCodeTx(ctx, tx, code)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			metrics.VerificationFailuresTotal.WithLabelValues("invalid_code").Inc()
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to look up pickup code: %w", err)
	}

	if err := e.reservations.IncrementAttemptsTx(ctx, tx, reservation.ID); err != nil {
		return nil, fmt.Errorf("failed to record pickup attempt: %w", err)
	}

	now := e.now().UTC()
	if reservation.CodeExpiresAt == nil || now.After(*reservation.CodeExpiresAt) {
		ok, err := e.reservations.TerminateTx(ctx, tx, reservation.ID, repository.ReservationExpired, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to expire reservation: %w", err)
		}
		if ok {
			if err := e.releaseSlot(ctx, tx, reservation); err != nil {
				return nil, err
			}
			if err := e.parcels.UpdateStatusTx(ctx, tx, reservation.ParcelRef, repository.ParcelExpired); err != nil {
				return nil, fmt.Errorf("failed to update parcel status: %w", err)
			}
			if err := e.recordTransition(ctx, tx, reservation.ID, "expire", "active", "expired", now); err != nil {
				return nil, err
			}
			if err := e.recordSlotTransition(ctx, tx, reservation.SlotID, "release", slotStateFor(reservation), repository.SlotAvailable, now); err != nil {
				return nil, err
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit expiry: %w", err)
		}
		e.cacheDelete(reservation.ID)
		metrics.VerificationFailuresTotal.WithLabelValues("code_expired").Inc()
		return nil, ErrCodeExpired
	}

	parcel, err := e.parcels.GetByRefTx(ctx, tx, reservation.ParcelRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get parcel: %w", err)
	}

	if !matchPhoneSuffix(parcel.RecipientPhone, secondaryFactor) {
		// Persist the attempt counter, keep the reservation active.
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit attempt: %w", err)
		}
		reservation.PickupAttempts++
		e.cacheSet(reservation)
		metrics.VerificationFailuresTotal.WithLabelValues("factor_mismatch").Inc()
		return nil, ErrVerificationFailed
	}

	ok, err := e.reservations.TerminateTx(ctx, tx, reservation.ID, repository.ReservationCompleted, &now, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to complete reservation: %w", err)
	}
	if !ok {
		// A competing terminal transition committed first; its code is no
		// longer valid.
		return nil, ErrInvalidCode
	}
	if err := e.releaseSlot(ctx, tx, reservation); err != nil {
		return nil, err
	}
	ok, err = e.parcels.TransitionTx(ctx, tx, reservation.ParcelRef, repository.ParcelInLocker, repository.ParcelPickedUp)
	if err != nil {
		return nil, fmt.Errorf("failed to update parcel status: %w", err)
	}
	if !ok {
		e.invariantViolation("reservation %s completed but parcel %s is not in_locker", reservation.ID, reservation.ParcelRef)
	}

	if err := e.recordTransition(ctx, tx, reservation.ID, "pickup", "active", "completed", now); err != nil {
		return nil, err
	}
	if err := e.recordSlotTransition(ctx, tx, reservation.SlotID, "release", repository.SlotOccupied, repository.SlotAvailable, now); err != nil {
		return nil, err
	}

	info, err := e.slots.InfoTx(ctx, tx, reservation.SlotID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slot info: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit pickup: %w", err)
	}

	e.cacheDelete(reservation.ID)
	metrics.PickupsCompletedTotal.Inc()
	e.logger.Info("pickup completed",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("parcel_ref", reservation.ParcelRef),
		zap.Int64("slot_id", reservation.SlotID),
	)

	return &PickupResult{
		LockerLabel: info.LockerLabel,
		SlotLabel:   info.SlotLabel,
		ParcelRef:   reservation.ParcelRef,
	}, nil
}

// matchPhoneSuffix compares the factor against the last four digits of the
// stored phone number. The error path deliberately carries no detail about
// how close the guess was.
func matchPhoneSuffix(phone, factor string) bool {
	if len(factor) != 4 {
		return false
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 4 {
		return false
	}
	return d[len(d)-4:] == factor
}
