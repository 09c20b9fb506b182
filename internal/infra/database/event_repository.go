package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ProcessedEventRepository records payment-processor event ids so that
// at-least-once webhook delivery cannot replay side effects.
type ProcessedEventRepository struct {
	DB *sql.DB
}

func NewProcessedEventRepository(db *sql.DB) *ProcessedEventRepository {
	return &ProcessedEventRepository{DB: db}
}

// MarkProcessed inserts the event id. A conflict means the event was
// already handled; the caller should acknowledge and do nothing else.
func (r *ProcessedEventRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	query := `
		INSERT INTO webhook_events (event_id, processed_at)
		VALUES ($1, NOW())
		ON CONFLICT (event_id) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		return false, fmt.Errorf("mark event processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
