package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
)

type NoteRepository struct {
	DB *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	query := `
		INSERT INTO notes (id, lead_id, type, body, author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, n.ID, n.LeadID, n.Type, n.Body, n.Author, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("note create: %w", err)
	}
	return nil
}

func (r *NoteRepository) ListByLeadID(ctx context.Context, leadID string) ([]*entity.Note, error) {
	query := `
		SELECT id, lead_id, type, body, author, created_at
		FROM notes
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("note list: %w", err)
	}
	defer rows.Close()

	var notes []*entity.Note
	for rows.Next() {
		var n entity.Note
		var author sql.NullString
		if err := rows.Scan(&n.ID, &n.LeadID, &n.Type, &n.Body, &author, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Author = author.String
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
