package service

import (
	"context"
	"sync"
	"time"

	"projet/internal/geo/models"
	id "projet/pkg/domain"
	dErrors "projet/pkg/domain-errors"
)

type RegionStore interface {
	Create(ctx context.Context, region *models.Region) error
	Update(ctx context.Context, region *models.Region) error
	FindByID(ctx context.Context, regionID id.RegionID) (*models.Region, error)
	FindByIDForUpdate(ctx context.Context, regionID id.RegionID) (*models.Region, error)
	ListAll(ctx context.Context) ([]*models.Region, error)
	Delete(ctx context.Context, regionID id.RegionID) error
}

type CityStore interface {
	Create(ctx context.Context, city *models.City) error
	Update(ctx context.Context, city *models.City) error
	FindByID(ctx context.Context, cityID id.CityID) (*models.City, error)
	FindByIDForUpdate(ctx context.Context, cityID id.CityID) (*models.City, error)
	ListAll(ctx context.Context) ([]*models.City, error)
	ListByRegion(ctx context.Context, regionID id.RegionID) ([]*models.City, error)
	DetachRegion(ctx context.Context, regionID id.RegionID) ([]id.CityID, error)
	Delete(ctx context.Context, cityID id.CityID) error
}

type PlayerStore interface {
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	FindByID(ctx context.Context, playerID id.PlayerID) (*models.Player, error)
	FindByIDForUpdate(ctx context.Context, playerID id.PlayerID) (*models.Player, error)
	ListAll(ctx context.Context) ([]*models.Player, error)
	ListByCity(ctx context.Context, cityID id.CityID) ([]*models.Player, error)
	DetachCity(ctx context.Context, cityID id.CityID) ([]id.PlayerID, error)
	Delete(ctx context.Context, playerID id.PlayerID) error
}

// Stores groups the three record stores bound to one unit of work.
type Stores struct {
	Regions RegionStore
	Cities  CityStore
	Players PlayerStore
}

// StoreTx provides the transactional boundary every service call runs in.
// Implementations may wrap a database transaction or, in-memory, a coarse lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(stores Stores) error) error
}

// defaultTxTimeout is the maximum duration of a unit of work when the caller
// set no deadline.
const defaultTxTimeout = 5 * time.Second

// InMemoryTx serialises units of work over in-memory stores with one mutex.
// It does not roll back: a failing unit of work keeps the writes it made
// before the failure.
type InMemoryTx struct {
	mu      sync.Mutex
	stores  Stores
	timeout time.Duration
}

// NewInMemoryTx wraps stores. A zero timeout selects the default.
func NewInMemoryTx(stores Stores, timeout time.Duration) *InMemoryTx {
	return &InMemoryTx{stores: stores, timeout: timeout}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(stores Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(t.stores)
}
