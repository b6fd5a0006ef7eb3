package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
)

func TestLoadFollowsRelationshipsOneLevelPerFetch(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	plan := testPlan("p1", "Hamburg")
	rows := storedRows(t, plan)

	fetches := 0
	loaded, err := load(ctx, "p1", func(ctx context.Context, ids []string) ([]types.Object, error) {
		fetches++
		return fetchRows(rows, ids)
	})
	is.NoErr(err)

	is.Equal(len(loaded), 3)
	is.Equal(fetches, 2)
}

func TestLoadedPlanIsResolved(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	plan := testPlan("p1", "Hamburg")
	region := objects.Related(plan, "bereich")[0]
	rows := storedRows(t, plan)

	loaded, err := load(ctx, "p1", func(ctx context.Context, ids []string) ([]types.Object, error) {
		return fetchRows(rows, ids)
	})
	is.NoErr(err)
	is.Equal(resolveAll(ctx, loaded), 0)

	retrieved := loaded["p1"]
	is.Equal(objects.Related(retrieved, "bereich")[0].ID(), region.ID())

	municipality := objects.Related(retrieved, "gemeinde")[0]
	name, ok := municipality.Property("gemeindeName")
	is.True(ok)
	is.Equal(name.Value(), "Hamburg")
}

func TestMissingRowsLeaveDanglingRelationships(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	plan := testPlan("p1", "Hamburg")
	rows := storedRows(t, plan)
	delete(rows, objects.Related(plan, "bereich")[0].ID())

	loaded, err := load(ctx, "p1", func(ctx context.Context, ids []string) ([]types.Object, error) {
		return fetchRows(rows, ids)
	})
	is.NoErr(err)

	is.Equal(len(loaded), 2)
	is.Equal(resolveAll(ctx, loaded), 1)
	is.Equal(len(objects.Related(loaded["p1"], "gemeinde")), 1)
}

func TestLoadReturnsFetchErrors(t *testing.T) {
	is := is.New(t)

	errFetch := errors.New("connection reset")
	_, err := load(context.Background(), "p1", func(ctx context.Context, ids []string) ([]types.Object, error) {
		return nil, errFetch
	})
	is.True(errors.Is(err, errFetch))
}

func TestSharedKeyIsKeptByItsFirstOwner(t *testing.T) {
	is := is.New(t)

	key, err := sharedKeyOf(gemeinde("Hamburg"))
	is.NoErr(err)

	other, err := sharedKeyOf(gemeinde("Bremen"))
	is.NoErr(err)
	is.True(key != other)

	is.Equal(*claimSharedKey(key, "", "g1"), key)
	is.Equal(*claimSharedKey(key, "g1", "g1"), key)
	is.True(claimSharedKey(key, "g1", "g2") == nil)
}

func TestSharedKeyIgnoresIdentifier(t *testing.T) {
	is := is.New(t)

	first, err := sharedKeyOf(gemeinde("Hamburg"))
	is.NoErr(err)
	second, err := sharedKeyOf(gemeinde("Hamburg"))
	is.NoErr(err)

	is.Equal(first, second)
}

func TestConnectionString(t *testing.T) {
	is := is.New(t)

	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "xplan")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DBNAME", "plans")

	cfg := LoadConfiguration(context.Background())
	is.True(cfg.Configured())
	is.Equal(cfg.ConnStr(), "postgres://xplan:secret@db:5432/plans?sslmode=disable")

	t.Setenv("POSTGRES_HOST", "")
	is.True(!LoadConfiguration(context.Background()).Configured())
}

// storedRows serializes every object of the graph the way the database stores them
func storedRows(t *testing.T, plan types.Object) map[string][]byte {
	rows := map[string][]byte{}
	err := objects.Walk(plan, func(o types.Object) error {
		body, err := json.Marshal(o)
		rows[o.ID()] = body
		return err
	})
	if err != nil {
		t.Fatalf("failed to serialize graph: %s", err.Error())
	}
	return rows
}

func fetchRows(rows map[string][]byte, ids []string) ([]types.Object, error) {
	result := []types.Object{}
	for _, id := range ids {
		body, ok := rows[id]
		if !ok {
			continue
		}
		o, err := objects.NewFromJSON(body)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}
