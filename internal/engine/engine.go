//go:generate mockgen -source ./engine.go -destination=./mocks/engine.go -package=engine_mocks
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/droppoint/lockerd/internal/audit"
	"github.com/droppoint/lockerd/internal/config"
	"github.com/droppoint/lockerd/internal/db"
	"github.com/droppoint/lockerd/internal/metrics"
	"github.com/droppoint/lockerd/internal/repository"
)

type SlotRepository interface {
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Slot, error)
	AvailableCandidatesTx(ctx context.Context, tx db.Tx, sizeClass repository.SizeClass, location string, policy config.TieBreak) ([]*repository.Slot, error)
	ClaimTx(ctx context.Context, tx db.Tx, slotID int64, parcelRef string) (bool, error)
	OccupyTx(ctx context.Context, tx db.Tx, slotID int64) (bool, error)
	ReleaseTx(ctx context.Context, tx db.Tx, slotID int64, from repository.SlotStatus) (bool, error)
	InfoTx(ctx context.Context, tx db.Tx, slotID int64) (*repository.SlotInfo, error)
}

type ParcelRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, parcel *repository.Parcel) error
	GetByRef(ctx context.Context, ref string) (*repository.Parcel, error)
	GetByRefTx(ctx context.Context, tx db.Tx, ref string) (*repository.Parcel, error)
	TransitionTx(ctx context.Context, tx db.Tx, ref string, from, to repository.ParcelStatus) (bool, error)
	UpdateStatusTx(ctx context.Context, tx db.Tx, ref string, to repository.ParcelStatus) error
}

type ReservationRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, reservation *repository.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Reservation, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id uuid.UUID) (*repository.Reservation, error)
	GetActiveByCodeTx(ctx context.Context, tx db.Tx, code string) (*repository.Reservation, error)
	CodeInUseTx(ctx context.Context, tx db.Tx, code string) (bool, error)
	MarkDeliveredTx(ctx context.Context, tx db.Tx, id uuid.UUID, code string, deliveredAt, codeExpiresAt time.Time) (bool, error)
	IncrementAttemptsTx(ctx context.Context, tx db.Tx, id uuid.UUID) error
	TerminateTx(ctx context.Context, tx db.Tx, id uuid.UUID, to repository.ReservationStatus, pickedUpAt *time.Time, reason *string) (bool, error)
	DueForReclaim(ctx context.Context, now time.Time, limit int) ([]*repository.Reservation, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, tx db.Tx, event audit.Event) error
}

// ReservationCache is the optional read cache kept in step with transitions.
// It serves lookups only, never allocation or verification.
type ReservationCache interface {
	Get(id uuid.UUID) (*repository.Reservation, bool)
	Set(reservation *repository.Reservation)
	Delete(id uuid.UUID)
}

type Options struct {
	ReservationLease time.Duration
	PickupWindow     time.Duration
	CodeMaxAttempts  int
	TieBreak         config.TieBreak
	ReclaimBatchSize int
}

func (o *Options) withDefaults() {
	if o.ReservationLease <= 0 {
		o.ReservationLease = 15 * time.Minute
	}
	if o.PickupWindow <= 0 {
		o.PickupWindow = 72 * time.Hour
	}
	if o.CodeMaxAttempts <= 0 {
		o.CodeMaxAttempts = 25
	}
	if o.TieBreak == "" {
		o.TieBreak = config.TieBreakLeastOccupied
	}
	if o.ReclaimBatchSize <= 0 {
		o.ReclaimBatchSize = 100
	}
}

// Engine owns the reservation state machine. Every multi-step transition runs
// inside a single transaction; no partial application is observable.
type Engine struct {
	db           db.DB
	slots        SlotRepository
	parcels      ParcelRepository
	reservations ReservationRepository
	auditor      AuditRecorder
	codes        *CodeGenerator
	cache        ReservationCache
	opts         Options
	logger       *zap.Logger

	now func() time.Time
}

func New(
	database db.DB,
	slots SlotRepository,
	parcels ParcelRepository,
	reservations ReservationRepository,
	auditor AuditRecorder,
	codes *CodeGenerator,
	cache ReservationCache,
	opts Options,
	logger *zap.Logger,
) *Engine {
	opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		db:           database,
		slots:        slots,
		parcels:      parcels,
		reservations: reservations,
		auditor:      auditor,
		codes:        codes,
		cache:        cache,
		opts:         opts,
		logger:       logger,
		now:          time.Now,
	}
}

type ReserveResult struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	SlotID        int64     `json:"slot_id"`
	SlotLabel     string    `json:"slot_label"`
	LockerLabel   string    `json:"locker_label"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type DeliveryResult struct {
	PickupCode    string    `json:"pickup_code"`
	CodeExpiresAt time.Time `json:"code_expires_at"`
}

type PickupResult struct {
	LockerLabel string `json:"locker_label"`
	SlotLabel   string `json:"slot_label"`
	ParcelRef   string `json:"parcel_ref"`
}

// RegisterParcel records parcel intake. The parcel starts pending and is only
// mutated through the reservation lifecycle afterwards.
func (e *Engine) RegisterParcel(ctx context.Context, parcel *repository.Parcel) error {
	if !parcel.SizeClass.Valid() {
		return fmt.Errorf("unknown size class %q", parcel.SizeClass)
	}
	now := e.now().UTC()
	parcel.Status = repository.ParcelPending
	parcel.CreatedAt = now
	parcel.UpdatedAt = now

	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if err := e.parcels.CreateTx(ctx, tx, parcel); err != nil {
		return fmt.Errorf("failed to register parcel: %w", err)
	}
	err = e.auditor.Record(ctx, tx, audit.Event{
		EntityType: "parcel",
		EntityID:   parcel.TrackingRef,
		Action:     "register",
		AfterState: string(repository.ParcelPending),
		Timestamp:  now,
	})
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Reserve claims one slot for the parcel and opens an active reservation with
// a delivery lease. Exactly one of N concurrent calls can win any given slot.
func (e *Engine) Reserve(ctx context.Context, parcelRef string, sizeClass repository.SizeClass, location string) (*ReserveResult, error) {
	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	parcel, err := e.parcels.GetByRefTx(ctx, tx, parcelRef)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("parcel %s: %w", parcelRef, repository.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get parcel: %w", err)
	}
	if parcel.Status != repository.ParcelPending {
		return nil, fmt.Errorf("%w: parcel %s is %s, want pending", ErrInvalidState, parcelRef, parcel.Status)
	}
	if sizeClass == "" {
		sizeClass = parcel.SizeClass
	}
	if sizeClass != parcel.SizeClass {
		return nil, fmt.Errorf("%w: parcel %s is size %s, requested %s", ErrInvalidState, parcelRef, parcel.SizeClass, sizeClass)
	}

	slot, err := e.allocateSlot(ctx, tx, sizeClass, location, parcelRef)
	if err != nil {
		if errors.Is(err, ErrNoCapacity) {
			metrics.NoCapacityTotal.WithLabelValues(string(sizeClass)).Inc()
		}
		return nil, err
	}

	now := e.now().UTC()
	reservation := &repository.Reservation{
		ID:         uuid.New(),
		ParcelRef:  parcelRef,
		SlotID:     slot.ID,
		Status:     repository.ReservationActive,
		ReservedAt: now,
		ExpiresAt:  now.Add(e.opts.ReservationLease),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.reservations.CreateTx(ctx, tx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	ok, err := e.parcels.TransitionTx(ctx, tx, parcelRef, repository.ParcelPending, repository.ParcelReserved)
	if err != nil {
		return nil, fmt.Errorf("failed to update parcel status: %w", err)
	}
	if !ok {
		// Row is locked by us since GetByRefTx; a failed transition here
		// can only mean corrupted state.
		e.invariantViolation("parcel %s changed state mid-transaction", parcelRef)
	}

	if err := e.recordTransition(ctx, tx, reservation.ID, "reserve", "", "active", now); err != nil {
		return nil, err
	}
	if err := e.recordSlotTransition(ctx, tx, slot.ID, "claim", repository.SlotAvailable, repository.SlotReserved, now); err != nil {
		return nil, err
	}

	info, err := e.slots.InfoTx(ctx, tx, slot.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slot info: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	e.cacheSet(reservation)
	metrics.ReservationsCreatedTotal.Inc()
	e.logger.Info("reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("parcel_ref", parcelRef),
		zap.Int64("slot_id", slot.ID),
		zap.Time("expires_at", reservation.ExpiresAt),
	)

	return &ReserveResult{
		ReservationID: reservation.ID,
		SlotID:        slot.ID,
		SlotLabel:     info.SlotLabel,
		LockerLabel:   info.LockerLabel,
		ExpiresAt:     reservation.ExpiresAt,
	}, nil
}

// ConfirmDelivery marks the parcel as physically placed, issues the pickup
// code and starts the pickup window.
func (e *Engine) ConfirmDelivery(ctx context.Context, reservationID uuid.UUID) (*DeliveryResult, error) {
	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	reservation, err := e.reservations.GetByIDTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("reservation %s: %w", reservationID, repository.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if reservation.Status != repository.ReservationActive {
		return nil, fmt.Errorf("%w: reservation %s is %s", ErrInvalidState, reservationID, reservation.Status)
	}
	if reservation.Delivered() {
		return nil, fmt.Errorf("%w: reservation %s already delivered", ErrInvalidState, reservationID)
	}

	code, err := e.issueUniqueCode(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := e.now().UTC()
	codeExpiresAt := now.Add(e.opts.PickupWindow)
	ok, err := e.reservations.MarkDeliveredTx(ctx, tx, reservationID, code, now, codeExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to mark reservation delivered: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", ErrInvalidState, reservationID)
	}

	ok, err = e.slots.OccupyTx(ctx, tx, reservation.SlotID)
	if err != nil {
		return nil, fmt.Errorf("failed to occupy slot: %w", err)
	}
	if !ok {
		e.invariantViolation("reservation %s is active but slot %d is not reserved", reservationID, reservation.SlotID)
	}

	ok, err = e.parcels.TransitionTx(ctx, tx, reservation.ParcelRef, repository.ParcelReserved, repository.ParcelInLocker)
	if err != nil {
		return nil, fmt.Errorf("failed to update parcel status: %w", err)
	}
	if !ok {
		e.invariantViolation("reservation %s is active but parcel %s is not reserved", reservationID, reservation.ParcelRef)
	}

	if err := e.recordTransition(ctx, tx, reservationID, "confirm_delivery", "active_undelivered", "active_delivered", now); err != nil {
		return nil, err
	}
	if err := e.recordSlotTransition(ctx, tx, reservation.SlotID, "occupy", repository.SlotReserved, repository.SlotOccupied, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit delivery: %w", err)
	}

	reservation.PickupCode = &code
	reservation.DeliveredAt = &now
	reservation.CodeExpiresAt = &codeExpiresAt
	reservation.UpdatedAt = now
	e.cacheSet(reservation)
	metrics.DeliveriesConfirmedTotal.Inc()
	e.logger.Info("delivery confirmed",
		zap.String("reservation_id", reservationID.String()),
		zap.Time("code_expires_at", codeExpiresAt),
	)

	return &DeliveryResult{PickupCode: code, CodeExpiresAt: codeExpiresAt}, nil
}

// Cancel terminates an active reservation before pickup and releases its slot
// regardless of whether the parcel was already placed.
func (e *Engine) Cancel(ctx context.Context, reservationID uuid.UUID, reason string) error {
	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	reservation, err := e.reservations.GetByIDTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return fmt.Errorf("reservation %s: %w", reservationID, repository.ErrObjectNotFound)
		}
		return fmt.Errorf("failed to get reservation: %w", err)
	}
	if reservation.Status != repository.ReservationActive {
		return fmt.Errorf("%w: reservation %s is %s", ErrInvalidState, reservationID, reservation.Status)
	}

	now := e.now().UTC()
	ok, err := e.reservations.TerminateTx(ctx, tx, reservationID, repository.ReservationCancelled, nil, &reason)
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: reservation %s", ErrInvalidState, reservationID)
	}

	if err := e.releaseSlot(ctx, tx, reservation); err != nil {
		return err
	}

	if err := e.parcels.UpdateStatusTx(ctx, tx, reservation.ParcelRef, repository.ParcelCancelled); err != nil {
		return fmt.Errorf("failed to update parcel status: %w", err)
	}

	if err := e.recordTransition(ctx, tx, reservationID, "cancel", "active", "cancelled", now); err != nil {
		return err
	}
	if err := e.recordSlotTransition(ctx, tx, reservation.SlotID, "release", slotStateFor(reservation), repository.SlotAvailable, now); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	e.cacheDelete(reservationID)
	metrics.ReservationsCancelledTotal.Inc()
	e.logger.Info("reservation cancelled",
		zap.String("reservation_id", reservationID.String()),
		zap.String("reason", reason),
	)
	return nil
}

// GetReservation serves lookups, read-through against the cache.
func (e *Engine) GetReservation(ctx context.Context, id uuid.UUID) (*repository.Reservation, error) {
	if e.cache != nil {
		if reservation, ok := e.cache.Get(id); ok {
			return reservation, nil
		}
	}
	reservation, err := e.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == repository.ReservationActive {
		e.cacheSet(reservation)
	}
	return reservation, nil
}

// issueUniqueCode generates candidates until one is free among the codes of
// currently active reservations. Codes of terminated reservations may be
// reused.
func (e *Engine) issueUniqueCode(ctx context.Context, tx db.Tx) (string, error) {
	for attempt := 0; attempt < e.opts.CodeMaxAttempts; attempt++ {
		code, err := e.codes.Generate()
		if err != nil {
			return "", err
		}
		inUse, err := e.reservations.CodeInUseTx(ctx, tx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, e.opts.CodeMaxAttempts)
}

// releaseSlot flips the reservation's slot back to available from whichever
// claimed state it is in. A failed flip means slot and reservation disagree,
// which is a programming invariant violation: crash loudly rather than risk
// double-allocating a physical compartment.
func (e *Engine) releaseSlot(ctx context.Context, tx db.Tx, reservation *repository.Reservation) error {
	ok, err := e.slots.ReleaseTx(ctx, tx, reservation.SlotID, slotStateFor(reservation))
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	if !ok {
		e.invariantViolation("reservation %s is active but slot %d is not %s",
			reservation.ID, reservation.SlotID, slotStateFor(reservation))
	}
	return nil
}

// slotStateFor returns the slot status implied by the reservation substate:
// reserved before delivery, occupied after.
func slotStateFor(reservation *repository.Reservation) repository.SlotStatus {
	if reservation.Delivered() {
		return repository.SlotOccupied
	}
	return repository.SlotReserved
}

func (e *Engine) recordTransition(ctx context.Context, tx db.Tx, id uuid.UUID, action, before, after string, at time.Time) error {
	return e.auditor.Record(ctx, tx, audit.Event{
		EntityType:  "reservation",
		EntityID:    id.String(),
		Action:      action,
		BeforeState: before,
		AfterState:  after,
		Timestamp:   at,
	})
}

func (e *Engine) recordSlotTransition(ctx context.Context, tx db.Tx, slotID int64, action string, before, after repository.SlotStatus, at time.Time) error {
	return e.auditor.Record(ctx, tx, audit.Event{
		EntityType:  "slot",
		EntityID:    fmt.Sprintf("%d", slotID),
		Action:      action,
		BeforeState: string(before),
		AfterState:  string(after),
		Timestamp:   at,
	})
}

func (e *Engine) cacheSet(reservation *repository.Reservation) {
	if e.cache != nil {
		e.cache.Set(reservation)
	}
}

func (e *Engine) cacheDelete(id uuid.UUID) {
	if e.cache != nil {
		e.cache.Delete(id)
	}
}

func (e *Engine) invariantViolation(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	e.logger.Error("slot/reservation consistency violation", zap.String("detail", msg))
	panic("slot/reservation consistency violation: " + msg)
}
