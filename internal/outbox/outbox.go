package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/example/workshop-booking/libs/db"
	otelx "github.com/example/workshop-booking/libs/otel"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id BIGSERIAL PRIMARY KEY,
	event_id TEXT NOT NULL,
	aggregate_type TEXT NOT NULL,
	aggregate_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	traceparent TEXT NOT NULL DEFAULT '',
	tracestate TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_unpublished ON outbox_events (id) WHERE published_at IS NULL;
`

func Migrate(ctx context.Context, pool *db.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}

// Record is one stored outbox row. The Kafka topic equals EventType.
type Record struct {
	ID          int64
	EventID     string
	AggregateID string
	EventType   string
	Payload     []byte
	Traceparent string
	Tracestate  string
	CreatedAt   time.Time
}

type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

// Enqueue writes one appointment event row. It runs outside any transaction:
// the booking's dual write has no transaction either, and a lost event is an
// accepted consequence of a crash at the wrong moment.
func (r *Repository) Enqueue(ctx context.Context, eventType, aggregateID string, payload []byte) error {
	traceparent, tracestate := otelx.TraceContextStrings(ctx)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO outbox_events (event_id, aggregate_type, aggregate_id, event_type, payload, traceparent, tracestate)
		VALUES ($1, 'appointment', $2, $3, $4, $5, $6)
	`, uuid.NewString(), aggregateID, eventType, payload, traceparent, tracestate)
	return err
}

func (r *Repository) FetchUnpublished(ctx context.Context, tx pgx.Tx, limit int) ([]Record, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, event_id, aggregate_id, event_type, payload, traceparent, tracestate, created_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rcd Record
		if err := rows.Scan(&rcd.ID, &rcd.EventID, &rcd.AggregateID, &rcd.EventType, &rcd.Payload, &rcd.Traceparent, &rcd.Tracestate, &rcd.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rcd)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

func (r *Repository) MarkPublished(ctx context.Context, tx pgx.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE outbox_events
		SET published_at = now()
		WHERE id = ANY($1)
	`, ids)
	return err
}
