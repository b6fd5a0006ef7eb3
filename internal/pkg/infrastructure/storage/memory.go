package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
)

type memoryStore struct {
	catalog *catalog.Registry

	mu      sync.RWMutex
	plans   map[string]types.Object
	objects map[string]types.Object
	shared  map[string]types.Object
}

// NewMemoryStore returns a Store that keeps all graphs in memory
func NewMemoryStore(c *catalog.Registry) Store {
	return &memoryStore{
		catalog: c,
		plans:   map[string]types.Object{},
		objects: map[string]types.Object{},
		shared:  map[string]types.Object{},
	}
}

func (s *memoryStore) Save(ctx context.Context, plan types.Object) error {
	info, ok := s.catalog.Lookup(plan.Type())
	if !ok || info.Root != catalog.RootPlan {
		return xerrors.NewInvalidGraphError(fmt.Sprintf("%s is not a plan type", plan.Type()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	err := objects.Walk(plan, func(o types.Object) error {
		s.objects[o.ID()] = o
		count++

		if info, ok := s.catalog.Lookup(o.Type()); ok && info.Shared {
			key, err := objects.ValueKey(o)
			if err != nil {
				return err
			}
			if _, exists := s.shared[key]; !exists {
				s.shared[key] = o
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.plans[plan.ID()] = plan

	logging.GetFromContext(ctx).Debug("plan saved", "plan_id", plan.ID(), "objects", count)

	return nil
}

func (s *memoryStore) RetrievePlan(ctx context.Context, planID string) (types.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[planID]
	if !ok {
		return nil, xerrors.NewNotFoundError(fmt.Sprintf("no plan with id %s", planID))
	}

	return plan, nil
}

func (s *memoryStore) FindExisting(ctx context.Context, o types.Object) (types.Object, bool) {
	key, err := objects.ValueKey(o)
	if err != nil {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	existing, ok := s.shared[key]
	return existing, ok
}

func (s *memoryStore) Close() {}
