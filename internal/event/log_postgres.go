package event

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLog appends events to the user_events table.
type PostgresLog struct {
	pool *pgxpool.Pool
}

func NewPostgresLog(pool *pgxpool.Pool) *PostgresLog {
	return &PostgresLog{pool: pool}
}

func (l *PostgresLog) Append(ctx context.Context, evt Event) error {
	const q = `
		INSERT INTO user_events (id, event_type, entity_data, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := l.pool.Exec(ctx, q, evt.ID, string(evt.Type), []byte(evt.EntityData), evt.Message, evt.Timestamp); err != nil {
		return fmt.Errorf("append event %s: %w", evt.ID, err)
	}
	return nil
}
