package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/droppoint/lockerd/internal/metrics"
	"github.com/droppoint/lockerd/internal/repository"
)

type ReservationRepository interface {
	ActiveAll(ctx context.Context) ([]*repository.Reservation, error)
}

// ReservationCache keeps active reservations in memory for lookup traffic.
// It serves reads only; allocation and verification always go to the store.
// Terminal transitions evict their entry.
type ReservationCache struct {
	mu     sync.RWMutex
	cache  map[uuid.UUID]*repository.Reservation
	repo   ReservationRepository
	logger *zap.Logger
}

func NewReservationCache(repo ReservationRepository, logger *zap.Logger) *ReservationCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationCache{
		cache:  make(map[uuid.UUID]*repository.Reservation),
		repo:   repo,
		logger: logger,
	}
}

func (c *ReservationCache) LoadInitialData(ctx context.Context) error {
	reservations, err := c.repo.ActiveAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, reservation := range reservations {
		copied := *reservation
		c.cache[reservation.ID] = &copied
	}
	metrics.ReservationCacheItems.Set(float64(len(c.cache)))
	c.logger.Info("loaded active reservations into cache", zap.Int("count", len(c.cache)))
	return nil
}

func (c *ReservationCache) Get(id uuid.UUID) (*repository.Reservation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	reservation, found := c.cache[id]
	if !found {
		return nil, false
	}
	copied := *reservation
	return &copied, true
}

func (c *ReservationCache) Set(reservation *repository.Reservation) {
	if reservation.Status != repository.ReservationActive {
		c.Delete(reservation.ID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *reservation
	c.cache[reservation.ID] = &copied
	metrics.ReservationCacheItems.Set(float64(len(c.cache)))
}

func (c *ReservationCache) Delete(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[id]; found {
		delete(c.cache, id)
		metrics.ReservationCacheItems.Set(float64(len(c.cache)))
	}
}
