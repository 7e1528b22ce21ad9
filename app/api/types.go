package api

import (
	"context"
	"time"

	"github.com/plenarlab/bt-agenda/app/agenda"
	"github.com/plenarlab/bt-agenda/app/cache"
)

type PlannerInterface interface {
	Resolve(ctx context.Context, q agenda.Query) ([]agenda.Item, error)
	ListWeeks(minYear int) (map[int][]int, error)
}

var _ PlannerInterface = (*agenda.Planner)(nil)

type ResponseCacheInterface interface {
	Lookup(ctx context.Context, key string) (*cache.Entry, error)
	Store(ctx context.Context, key string, entry cache.Entry, ttl time.Duration) error
	PurgeAll(ctx context.Context) (int, error)
}

var _ ResponseCacheInterface = (*cache.Coordinator)(nil)

type PartitionPurgerInterface interface {
	PurgeAll() (int, error)
}

var _ PartitionPurgerInterface = (*agenda.PartitionRepository)(nil)

type Handler struct {
	planner    PlannerInterface
	cache      ResponseCacheInterface
	partitions PartitionPurgerInterface
}
