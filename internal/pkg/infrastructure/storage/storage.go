package storage

import (
	"context"

	"github.com/diwise/xplan-gml/pkg/xplan/types"
)

// Store persists plan graphs. Saved shared data objects are offered to the
// reader through FindExisting so that equal objects are stored only once.
type Store interface {
	Save(ctx context.Context, plan types.Object) error
	RetrievePlan(ctx context.Context, planID string) (types.Object, error)
	FindExisting(ctx context.Context, o types.Object) (types.Object, bool)
	Close()
}
