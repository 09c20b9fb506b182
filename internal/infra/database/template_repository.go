package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
)

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

// FindActiveByType returns the single active template for a type. With
// more than one active the newest wins; with none the caller gets
// ErrNoActiveTemplate and should treat it as a configuration problem.
func (r *TemplateRepository) FindActiveByType(ctx context.Context, templateType string) (*entity.EmailTemplate, error) {
	query := `
		SELECT id, name, type, subject, html_body, text_body, variables, active
		FROM email_templates
		WHERE type = $1 AND active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var tmpl entity.EmailTemplate
	var textBody sql.NullString
	var variables []byte

	err := r.DB.QueryRowContext(ctx, query, templateType).Scan(
		&tmpl.ID, &tmpl.Name, &tmpl.Type, &tmpl.Subject, &tmpl.HTMLBody,
		&textBody, &variables, &tmpl.Active,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNoActiveTemplate
	}
	if err != nil {
		return nil, fmt.Errorf("template lookup: %w", err)
	}

	tmpl.TextBody = textBody.String
	if len(variables) > 0 {
		if err := json.Unmarshal(variables, &tmpl.Variables); err != nil {
			return nil, fmt.Errorf("template variables decode: %w", err)
		}
	}
	return &tmpl, nil
}
