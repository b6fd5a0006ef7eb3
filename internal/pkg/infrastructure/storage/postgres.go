package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/diwise/xplan-gml/pkg/xplan/catalog"
	xerrors "github.com/diwise/xplan-gml/pkg/xplan/errors"
	"github.com/diwise/xplan-gml/pkg/xplan/types"
	"github.com/diwise/xplan-gml/pkg/xplan/types/objects"
	"github.com/diwise/xplan-gml/pkg/xplan/types/relationships"
)

var tracer = otel.Tracer("xplan-gml/storage")

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func LoadConfiguration(ctx context.Context) Config {
	return Config{
		host:     env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:     env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password: env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:     env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:   env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "diwise"),
		sslmode:  env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
	}
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

// Configured reports whether a database host has been set
func (c Config) Configured() bool {
	return c.host != ""
}

type postgresStore struct {
	catalog *catalog.Registry
	db      *pgxpool.Pool
}

// NewPostgresStore connects to the database and creates the tables if needed.
// Every object of a graph is stored as a jsonb row, relationships hold the ids
// of their targets.
func NewPostgresStore(ctx context.Context, cfg Config, c *catalog.Registry) (Store, error) {
	p, err := connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &postgresStore{catalog: c, db: p}

	if err = s.initialize(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	conn, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	err = conn.Ping(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return conn, err
}

func (s *postgresStore) initialize(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS xplan_objects (
			id          TEXT PRIMARY KEY,
			type        TEXT NOT NULL,
			shared_key  TEXT NULL,
			body        JSONB NOT NULL,
			modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS xplan_objects_shared_key_idx ON xplan_objects (shared_key);

		CREATE TABLE IF NOT EXISTS xplan_plans (
			id         TEXT PRIMARY KEY REFERENCES xplan_objects (id),
			type       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`)

	return err
}

func (s *postgresStore) Save(ctx context.Context, plan types.Object) (err error) {
	ctx, span := tracer.Start(ctx, "save-plan")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	info, ok := s.catalog.Lookup(plan.Type())
	if !ok || info.Root != catalog.RootPlan {
		err = xerrors.NewInvalidGraphError(fmt.Sprintf("%s is not a plan type", plan.Type()))
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}

	count := 0
	err = objects.Walk(plan, func(o types.Object) error {
		count++
		return s.saveObject(ctx, tx, o)
	})
	if err != nil {
		tx.Rollback(ctx)
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO xplan_plans (id, type) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING;`, plan.ID(), plan.Type())
	if err != nil {
		tx.Rollback(ctx)
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	span.SetAttributes(attribute.Int("objects", count))
	logging.GetFromContext(ctx).Debug("plan saved", "plan_id", plan.ID(), "objects", count)

	return nil
}

func (s *postgresStore) saveObject(ctx context.Context, tx pgx.Tx, o types.Object) error {
	body, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", o.Type(), o.ID(), err)
	}

	var sharedKey *string
	if info, ok := s.catalog.Lookup(o.Type()); ok && info.Shared {
		key, err := sharedKeyOf(o)
		if err != nil {
			return err
		}

		var owner string
		err = tx.QueryRow(ctx, `SELECT id FROM xplan_objects WHERE shared_key = $1;`, key).Scan(&owner)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to look up shared key of %s %s: %w", o.Type(), o.ID(), err)
		}
		sharedKey = claimSharedKey(key, owner, o.ID())
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO xplan_objects (id, type, shared_key, body) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET type = EXCLUDED.type, shared_key = EXCLUDED.shared_key, body = EXCLUDED.body, modified_at = now();`,
		o.ID(), o.Type(), sharedKey, body,
	)
	if err != nil {
		return fmt.Errorf("failed to store %s %s: %w", o.Type(), o.ID(), err)
	}

	return nil
}

// claimSharedKey returns the key to store with object id. An equal object that
// already owns the key keeps it and the new row is stored without one.
func claimSharedKey(key, owner, id string) *string {
	if owner != "" && owner != id {
		return nil
	}
	return &key
}

func sharedKeyOf(o types.Object) (string, error) {
	key, err := objects.ValueKey(o)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]), nil
}

func (s *postgresStore) RetrievePlan(ctx context.Context, planID string) (result types.Object, err error) {
	ctx, span := tracer.Start(ctx, "retrieve-plan")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var planType string
	err = s.db.QueryRow(ctx, `SELECT type FROM xplan_plans WHERE id = $1;`, planID).Scan(&planType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = xerrors.NewNotFoundError(fmt.Sprintf("no plan with id %s", planID))
		}
		return nil, err
	}

	loaded, err := load(ctx, planID, s.fetch)
	if err != nil {
		return nil, err
	}

	plan, ok := loaded[planID]
	if !ok {
		err = xerrors.NewNotFoundError(fmt.Sprintf("plan %s has no stored object", planID))
		return nil, err
	}

	if dangling := resolveAll(ctx, loaded); dangling > 0 {
		span.SetAttributes(attribute.Int("dangling", dangling))
	}

	span.SetAttributes(attribute.Int("objects", len(loaded)))

	return plan, nil
}

type fetchFunc func(ctx context.Context, ids []string) ([]types.Object, error)

// load fetches the object with the given id and everything it relates to,
// one round trip per level of the graph
func load(ctx context.Context, id string, fetch fetchFunc) (map[string]types.Object, error) {
	loaded := map[string]types.Object{}
	requested := map[string]bool{id: true}
	pending := []string{id}

	for len(pending) > 0 {
		found, err := fetch(ctx, pending)
		if err != nil {
			return nil, err
		}

		pending = []string{}
		for _, o := range found {
			loaded[o.ID()] = o

			o.ForEachAttribute(func(attributeType, attributeName string, contents any) {
				r, ok := contents.(types.Relationship)
				if !ok {
					return
				}
				for _, target := range relationships.IDs(r) {
					if !requested[target] {
						requested[target] = true
						pending = append(pending, target)
					}
				}
			})
		}
	}

	return loaded, nil
}

// resolveAll points every relationship of the loaded objects at its target and
// returns the number of relationships that could not be resolved
func resolveAll(ctx context.Context, loaded map[string]types.Object) int {
	find := func(id string) (types.Object, bool) {
		o, ok := loaded[id]
		return o, ok
	}

	log := logging.GetFromContext(ctx)
	dangling := 0

	for _, o := range loaded {
		o.ForEachAttribute(func(attributeType, attributeName string, contents any) {
			r, ok := contents.(types.Relationship)
			if !ok {
				return
			}
			if err := relationships.Resolve(r, find); err != nil {
				dangling++
				log.Warn("dangling relationship", "id", o.ID(), "relationship", attributeName, "err", err.Error())
			}
		})
	}

	return dangling
}

func (s *postgresStore) fetch(ctx context.Context, ids []string) ([]types.Object, error) {
	rows, err := s.db.Query(ctx, `SELECT body FROM xplan_objects WHERE id = ANY($1);`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.Object, 0, len(ids))

	for rows.Next() {
		var body []byte
		err := rows.Scan(&body)
		if err != nil {
			return nil, err
		}

		o, err := objects.NewFromJSON(body)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *postgresStore) FindExisting(ctx context.Context, o types.Object) (types.Object, bool) {
	key, err := sharedKeyOf(o)
	if err != nil {
		return nil, false
	}

	var body []byte
	err = s.db.QueryRow(ctx, `SELECT body FROM xplan_objects WHERE shared_key = $1;`, key).Scan(&body)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			logging.GetFromContext(ctx).Error("failed to look up existing object", "type", o.Type(), "err", err.Error())
		}
		return nil, false
	}

	existing, err := objects.NewFromJSON(body)
	if err != nil {
		return nil, false
	}

	return existing, true
}

func (s *postgresStore) Close() {
	s.db.Close()
}
