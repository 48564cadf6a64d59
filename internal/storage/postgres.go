package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/example/workshop-booking/libs/db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	pk TEXT NOT NULL,
	sk TEXT NOT NULL,
	attrs JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (pk, sk)
);
`

// Migrate creates the records table. Safe to run on every startup.
func Migrate(ctx context.Context, pool *db.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

// PostgresStore keeps every projection in a single (pk, sk)-keyed table,
// mirroring the key layout of the original single-table deployment so stored
// data stays interoperable.
type PostgresStore struct {
	pool *db.Pool
}

func NewPostgresStore(pool *db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, pk, sk string) (Record, error) {
	rec := Record{PK: pk, SK: sk}
	err := s.pool.QueryRow(ctx, `
		SELECT attrs FROM records WHERE pk = $1 AND sk = $2
	`, pk, sk).Scan(&rec.Attrs)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *PostgresStore) Query(ctx context.Context, pk, skPrefix string) ([]Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sk, attrs FROM records
		WHERE pk = $1 AND sk LIKE $2
		ORDER BY sk
	`, pk, escapeLike(skPrefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec := Record{PK: pk}
		if err := rows.Scan(&rec.SK, &rec.Attrs); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec Record) error {
	attrs := rec.Attrs
	if attrs == nil {
		attrs = map[string]string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO records (pk, sk, attrs)
		VALUES ($1, $2, $3)
		ON CONFLICT (pk, sk) DO UPDATE SET attrs = EXCLUDED.attrs
	`, rec.PK, rec.SK, attrs)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, pk, sk string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM records WHERE pk = $1 AND sk = $2
	`, pk, sk)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var _ Store = (*PostgresStore)(nil)
