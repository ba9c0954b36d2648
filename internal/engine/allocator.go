package engine

import (
	"context"
	"fmt"

	"github.com/droppoint/lockerd/internal/db"
	"github.com/droppoint/lockerd/internal/repository"
)

// allocateSlot picks one available slot matching size class and optional
// location and claims it with a compare-and-swap on (status, parcel_ref).
//
// The candidate listing takes no locks, so concurrent allocators see the full
// eligible set and race per slot on the claim. A requester whose chosen
// candidate was claimed first moves on to the next one, and the candidate set
// is refreshed once before giving up, so a transient losing streak does not
// turn into a spurious ErrNoCapacity while eligible slots remain.
func (e *Engine) allocateSlot(ctx context.Context, tx db.Tx, sizeClass repository.SizeClass, location, parcelRef string) (*repository.Slot, error) {
	if !sizeClass.Valid() {
		return nil, fmt.Errorf("unknown size class %q", sizeClass)
	}

	for pass := 0; pass < 2; pass++ {
		candidates, err := e.slots.AvailableCandidatesTx(ctx, tx, sizeClass, location, e.opts.TieBreak)
		if err != nil {
			return nil, fmt.Errorf("failed to list candidate slots: %w", err)
		}
		if len(candidates) == 0 {
			break
		}
		for _, candidate := range candidates {
			claimed, err := e.slots.ClaimTx(ctx, tx, candidate.ID, parcelRef)
			if err != nil {
				return nil, fmt.Errorf("failed to claim slot %d: %w", candidate.ID, err)
			}
			if claimed {
				return candidate, nil
			}
			// Lost the race on this slot; try the next candidate.
		}
	}
	return nil, ErrNoCapacity
}
