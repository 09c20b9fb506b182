package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
)

// ActivityRepository is append-only by construction: there is no
// update or delete statement in this file.
type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Append(ctx context.Context, a *entity.Activity) error {
	var metadata interface{}
	if len(a.Metadata) > 0 {
		raw, err := json.Marshal(a.Metadata)
		if err != nil {
			return fmt.Errorf("activity metadata marshal: %w", err)
		}
		metadata = raw
	}

	query := `
		INSERT INTO activities (id, lead_id, type, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.LeadID, a.Type, a.Description, metadata, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("activity append: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByLeadID(ctx context.Context, leadID string) ([]*entity.Activity, error) {
	query := `
		SELECT id, lead_id, type, description, metadata, created_at
		FROM activities
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer rows.Close()

	var activities []*entity.Activity
	for rows.Next() {
		var a entity.Activity
		var metadata []byte
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Type, &a.Description, &metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
				return nil, fmt.Errorf("activity metadata decode: %w", err)
			}
		}
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}
