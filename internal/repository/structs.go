package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("not found")

type SizeClass string

const (
	SizeSmall      SizeClass = "small"
	SizeMedium     SizeClass = "medium"
	SizeLarge      SizeClass = "large"
	SizeExtraLarge SizeClass = "extra_large"
)

func (s SizeClass) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge:
		return true
	}
	return false
}

type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotReserved    SlotStatus = "reserved"
	SlotOccupied    SlotStatus = "occupied"
	SlotMaintenance SlotStatus = "maintenance"
)

type ParcelStatus string

const (
	ParcelPending   ParcelStatus = "pending"
	ParcelReserved  ParcelStatus = "reserved"
	ParcelInLocker  ParcelStatus = "in_locker"
	ParcelPickedUp  ParcelStatus = "picked_up"
	ParcelExpired   ParcelStatus = "expired"
	ParcelCancelled ParcelStatus = "cancelled"
)

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationExpired   ReservationStatus = "expired"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Terminal reports whether no further transition out of the status is allowed.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationExpired || s == ReservationCancelled
}

type Locker struct {
	ID        int64     `db:"id"`
	Label     string    `db:"label"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
}

// Slot is one physical compartment. Status and ParcelRef change together only;
// the active reservation is the authoritative owner of the claim, ParcelRef is
// a denormalized back-pointer kept in lockstep by the same transaction.
type Slot struct {
	ID        int64      `db:"id"`
	LockerID  int64      `db:"locker_id"`
	Label     string     `db:"label"`
	SizeClass SizeClass  `db:"size_class"`
	Status    SlotStatus `db:"status"`
	ParcelRef *string    `db:"parcel_ref"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// SlotInfo is the slot/locker join read model returned to callers for
// physical retrieval guidance.
type SlotInfo struct {
	SlotID      int64  `db:"slot_id"`
	SlotLabel   string `db:"slot_label"`
	LockerID    int64  `db:"locker_id"`
	LockerLabel string `db:"locker_label"`
	Location    string `db:"location"`
}

type Parcel struct {
	TrackingRef    string       `db:"tracking_ref"`
	RecipientName  string       `db:"recipient_name"`
	RecipientPhone string       `db:"recipient_phone"`
	RecipientEmail string       `db:"recipient_email"`
	SizeClass      SizeClass    `db:"size_class"`
	Status         ParcelStatus `db:"status"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

type Reservation struct {
	ID             uuid.UUID         `db:"id"`
	ParcelRef      string            `db:"parcel_ref"`
	SlotID         int64             `db:"slot_id"`
	Status         ReservationStatus `db:"status"`
	PickupCode     *string           `db:"pickup_code"`
	ReservedAt     time.Time         `db:"reserved_at"`
	ExpiresAt      time.Time         `db:"expires_at"`
	DeliveredAt    *time.Time        `db:"delivered_at"`
	CodeExpiresAt  *time.Time        `db:"code_expires_at"`
	PickedUpAt     *time.Time        `db:"picked_up_at"`
	PickupAttempts int               `db:"pickup_attempts"`
	CancelReason   *string           `db:"cancel_reason"`
	CreatedAt      time.Time         `db:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at"`
}

// Delivered reports whether the parcel has been physically placed and a
// pickup code issued.
func (r *Reservation) Delivered() bool {
	return r.DeliveredAt != nil
}

// Deadline returns the lease that currently bounds the reservation:
// expires_at while undelivered, code_expires_at once delivered.
func (r *Reservation) Deadline() time.Time {
	if r.Delivered() && r.CodeExpiresAt != nil {
		return *r.CodeExpiresAt
	}
	return r.ExpiresAt
}
