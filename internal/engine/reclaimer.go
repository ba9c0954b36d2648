package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/droppoint/lockerd/internal/metrics"
	"github.com/droppoint/lockerd/internal/repository"
)

// ReclaimExpired releases every active reservation whose relevant deadline
// has lapsed: expires_at while undelivered, code_expires_at once delivered.
// Each reservation is reclaimed in its own transaction with a terminal
// compare-and-swap, so racing pickups or cancellations are safe: whichever
// transition commits first wins and the loser is a no-op, never a double
// release. Returns the number of reservations actually released.
func (e *Engine) ReclaimExpired(ctx context.Context) (int, error) {
	now := e.now().UTC()
	due, err := e.reservations.DueForReclaim(ctx, now, e.opts.ReclaimBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired reservations: %w", err)
	}

	released := 0
	for _, reservation := range due {
		ok, err := e.reclaimOne(ctx, reservation)
		if err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("reclaim").Inc()
			e.logger.Error("failed to reclaim reservation",
				zap.String("reservation_id", reservation.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if ok {
			released++
		}
	}
	return released, nil
}

func (e *Engine) reclaimOne(ctx context.Context, due *repository.Reservation) (bool, error) {
	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	// The listing snapshot is stale by the time the row lock is acquired. A
	// delivery committed in between replaces the lapsed reservation lease with
	// a fresh pickup window, and a pickup or cancellation may have terminated
	// the reservation outright. Re-read under the lock and decide from live
	// state only.
	reservation, err := e.reservations.GetByIDTx(ctx, tx, due.ID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to reload reservation: %w", err)
	}
	if reservation.Status != repository.ReservationActive {
		// A pickup, cancellation or a concurrent sweep got there first.
		return false, nil
	}
	now := e.now().UTC()
	if reservation.Deadline().After(now) {
		return false, nil
	}

	ok, err := e.reservations.TerminateTx(ctx, tx, reservation.ID, repository.ReservationExpired, nil, nil)
	if err != nil {
		return false, fmt.Errorf("failed to expire reservation: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := e.releaseSlot(ctx, tx, reservation); err != nil {
		return false, err
	}
	if err := e.parcels.UpdateStatusTx(ctx, tx, reservation.ParcelRef, repository.ParcelExpired); err != nil {
		return false, fmt.Errorf("failed to update parcel status: %w", err)
	}
	if err := e.recordTransition(ctx, tx, reservation.ID, "expire", "active", "expired", now); err != nil {
		return false, err
	}
	if err := e.recordSlotTransition(ctx, tx, reservation.SlotID, "release", slotStateFor(reservation), repository.SlotAvailable, now); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit reclaim: %w", err)
	}

	e.cacheDelete(reservation.ID)
	metrics.ReservationsExpiredTotal.Inc()
	e.logger.Info("reservation reclaimed",
		zap.String("reservation_id", reservation.ID.String()),
		zap.Int64("slot_id", reservation.SlotID),
		zap.Bool("delivered", reservation.Delivered()),
	)
	return true, nil
}

type expiryReclaimer interface {
	ReclaimExpired(ctx context.Context) (int, error)
}

// Reclaimer runs the expiry sweep on a fixed interval, independent of any
// request. Failures are logged and retried on the next tick.
type Reclaimer struct {
	engine   expiryReclaimer
	interval time.Duration
	logger   *zap.Logger

	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewReclaimer(engine expiryReclaimer, interval time.Duration, logger *zap.Logger) *Reclaimer {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reclaimer{
		engine:         engine,
		interval:       interval,
		logger:         logger,
		shutdownSignal: make(chan struct{}),
	}
}

func (r *Reclaimer) Run(ctx context.Context) {
	r.logger.Info("starting expiry reclaimer", zap.Duration("interval", r.interval))
	r.wg.Add(1)
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			released, err := r.engine.ReclaimExpired(ctx)
			if err != nil {
				r.logger.Error("expiry sweep failed", zap.Error(err))
				continue
			}
			if released > 0 {
				r.logger.Info("expiry sweep released reservations", zap.Int("count", released))
			}
		case <-r.shutdownSignal:
			r.logger.Info("expiry reclaimer received shutdown signal, stopping")
			return
		case <-ctx.Done():
			// Return directly: Shutdown waits on this goroutine's WaitGroup
			// entry, so calling it from here would wait on itself.
			r.logger.Info("expiry reclaimer context cancelled, stopping")
			return
		}
	}
}

func (r *Reclaimer) Shutdown() {
	r.stopOnce.Do(func() {
		close(r.shutdownSignal)
		done := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(30 * time.Second):
			r.logger.Warn("expiry reclaimer shutdown timed out")
		}
	})
}
