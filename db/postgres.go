// Package db - PostgreSQL build store
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"pc-builder/core/build"
	"pc-builder/core/catalog"
	"pc-builder/core/selection"
	"pc-builder/internal/errors"
	"pc-builder/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS configurations (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    components  TEXT NOT NULL,
    total_price NUMERIC(12,2) NOT NULL,
    customer_id TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS configurations_customer_idx ON configurations (customer_id, created_at DESC);
`

// PostgresStore persists builds in the configurations table.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to PostgreSQL, verifies the connection and
// ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string, maxOpen, maxIdle int) (*PostgresStore, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Internal("opening database", err)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, errors.Internal("pinging database", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		sqlDB.Close()
		return nil, errors.Internal("creating schema", err)
	}

	logging.Info("connected to build store database")
	return &PostgresStore{db: sqlDB}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert stores a new build record.
func (s *PostgresStore) Insert(ctx context.Context, b build.NamedBuild) error {
	components, err := encodeSelection(b.Selection)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO configurations (id, name, components, total_price, customer_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Name, components, b.TotalPrice.StringFixed(2), b.OwnerID, b.CreatedAt)
	if err != nil {
		return errors.Internal("inserting build", err)
	}
	return nil
}

// Get returns a build by id if it is owned by ownerID.
func (s *PostgresStore) Get(ctx context.Context, id, ownerID string) (build.NamedBuild, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, components, total_price, customer_id, created_at
		 FROM configurations WHERE id = $1 AND customer_id = $2`,
		id, ownerID)
	return scanBuild(row, id)
}

// List returns every build owned by ownerID, newest first.
func (s *PostgresStore) List(ctx context.Context, ownerID string) ([]build.NamedBuild, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, components, total_price, customer_id, created_at
		 FROM configurations WHERE customer_id = $1 ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, errors.Internal("listing builds", err)
	}
	defer rows.Close()

	var out []build.NamedBuild
	for rows.Next() {
		b, err := scanBuild(rows, "")
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("listing builds", err)
	}
	return out, nil
}

// Delete removes a build owned by ownerID.
func (s *PostgresStore) Delete(ctx context.Context, id, ownerID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM configurations WHERE id = $1 AND customer_id = $2`, id, ownerID)
	if err != nil {
		return errors.Internal("deleting build", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("build", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBuild(row scanner, id string) (build.NamedBuild, error) {
	var (
		b          build.NamedBuild
		components string
		totalPrice string
	)
	err := row.Scan(&b.ID, &b.Name, &components, &totalPrice, &b.OwnerID, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return build.NamedBuild{}, errors.NotFound("build", id)
	}
	if err != nil {
		return build.NamedBuild{}, errors.Internal("reading build row", err)
	}
	if b.Selection, err = decodeSelection(components); err != nil {
		return build.NamedBuild{}, err
	}
	if b.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
		return build.NamedBuild{}, errors.Internal(fmt.Sprintf("parsing stored total %q", totalPrice), err)
	}
	return b, nil
}

// encodeSelection stores only the chosen slots as a slot-key JSON
// object, the same shape the original configurations table held.
func encodeSelection(sel selection.Selection) (string, error) {
	m := make(map[string]string, len(sel))
	for _, c := range catalog.Categories {
		if id := sel.Get(c); id != "" {
			m[c.SlotKey()] = id
		}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", errors.Internal("encoding selection", err)
	}
	return string(data), nil
}

func decodeSelection(data string) (selection.Selection, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, errors.Internal("decoding stored selection", err)
	}
	sel := selection.New()
	for slot, id := range m {
		if c, ok := catalog.FromSlotKey(slot); ok && id != "" {
			sel[c] = id
		}
	}
	return sel, nil
}
