package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, partner_one, partner_two, pronouns, email, phone,
	event_date, event_type, location, venue, budget_range, estimated_value,
	status, priority, message, source, utm_source, utm_medium, utm_campaign,
	last_contacted_at, next_follow_up_at, created_at, updated_at
`

// Upsert inserts a lead or, when the email already exists, refreshes
// the mutable event/value fields. The unique index on email makes the
// database the serialization point for concurrent submissions, so two
// racing submissions cannot produce a duplicate. Status, priority and
// the follow-up schedule of an existing lead are left alone.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) (bool, error) {
	query := `
		INSERT INTO leads (
			id, partner_one, partner_two, pronouns, email, phone,
			event_date, event_type, location, venue, budget_range, estimated_value,
			status, priority, message, source, utm_source, utm_medium, utm_campaign,
			next_follow_up_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			partner_one     = COALESCE(NULLIF(EXCLUDED.partner_one, ''), leads.partner_one),
			partner_two     = COALESCE(NULLIF(EXCLUDED.partner_two, ''), leads.partner_two),
			phone           = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
			event_date      = COALESCE(NULLIF(EXCLUDED.event_date, ''), leads.event_date),
			event_type      = COALESCE(NULLIF(EXCLUDED.event_type, ''), leads.event_type),
			location        = COALESCE(NULLIF(EXCLUDED.location, ''), leads.location),
			venue           = COALESCE(NULLIF(EXCLUDED.venue, ''), leads.venue),
			budget_range    = COALESCE(NULLIF(EXCLUDED.budget_range, ''), leads.budget_range),
			message         = COALESCE(NULLIF(EXCLUDED.message, ''), leads.message),
			estimated_value = GREATEST(EXCLUDED.estimated_value, leads.estimated_value),
			updated_at      = NOW()
		RETURNING id, status, priority, last_contacted_at, next_follow_up_at,
			created_at, updated_at, (xmax <> 0) AS existed
	`

	var lastContacted, nextFollowUp sql.NullTime
	var existed bool

	err := r.DB.QueryRowContext(ctx, query,
		lead.ID, lead.PartnerOne, lead.PartnerTwo, lead.Pronouns, lead.Email, lead.Phone,
		lead.EventDate, lead.EventType, lead.Location, lead.Venue, lead.BudgetRange, lead.EstimatedValue,
		lead.Status, lead.Priority, lead.Message, lead.Source, lead.UTMSource, lead.UTMMedium, lead.UTMCampaign,
		nullTime(lead.NextFollowUpAt),
	).Scan(
		&lead.ID, &lead.Status, &lead.Priority, &lastContacted, &nextFollowUp,
		&lead.CreatedAt, &lead.UpdatedAt, &existed,
	)
	if err != nil {
		return false, fmt.Errorf("lead upsert: %w", err)
	}

	lead.LastContactAt = timePtr(lastContacted)
	lead.NextFollowUpAt = timePtr(nextFollowUp)
	return existed, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lead lookup: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (partner_one ILIKE $%d OR partner_two ILIKE $%d OR email ILIKE $%d OR location ILIKE $%d)", n, n, n, n)
	}
	query += " ORDER BY created_at DESC LIMIT 200"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lead list: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			partner_one = $2, partner_two = $3, pronouns = $4, phone = $5,
			event_date = $6, event_type = $7, location = $8, venue = $9,
			budget_range = $10, estimated_value = $11, status = $12, priority = $13,
			next_follow_up_at = $14, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		lead.ID, lead.PartnerOne, lead.PartnerTwo, lead.Pronouns, lead.Phone,
		lead.EventDate, lead.EventType, lead.Location, lead.Venue,
		lead.BudgetRange, lead.EstimatedValue, lead.Status, lead.Priority,
		nullTime(lead.NextFollowUpAt),
	)
	if err != nil {
		return fmt.Errorf("lead update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("lead delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("lead status update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) FindDueFollowUps(ctx context.Context, now time.Time) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE status = $1 AND next_follow_up_at IS NOT NULL AND next_follow_up_at <= $2
		ORDER BY next_follow_up_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, entity.StatusNew, now)
	if err != nil {
		return nil, fmt.Errorf("due follow-ups query: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) MarkContacted(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE leads SET
			status = $2,
			last_contacted_at = $3,
			next_follow_up_at = NULL,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, entity.StatusContacted, at)
	if err != nil {
		return fmt.Errorf("mark contacted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var pronouns, phone, eventDate, eventType, location, venue, budget, message sql.NullString
	var utmSource, utmMedium, utmCampaign sql.NullString
	var estimatedValue sql.NullInt64
	var lastContacted, nextFollowUp sql.NullTime

	err := row.Scan(
		&lead.ID, &lead.PartnerOne, &lead.PartnerTwo, &pronouns, &lead.Email, &phone,
		&eventDate, &eventType, &location, &venue, &budget, &estimatedValue,
		&lead.Status, &lead.Priority, &message, &lead.Source, &utmSource, &utmMedium, &utmCampaign,
		&lastContacted, &nextFollowUp, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Pronouns = pronouns.String
	lead.Phone = phone.String
	lead.EventDate = eventDate.String
	lead.EventType = eventType.String
	lead.Location = location.String
	lead.Venue = venue.String
	lead.BudgetRange = budget.String
	lead.Message = message.String
	lead.EstimatedValue = int(estimatedValue.Int64)
	lead.UTMSource = utmSource.String
	lead.UTMMedium = utmMedium.String
	lead.UTMCampaign = utmCampaign.String
	lead.LastContactAt = timePtr(lastContacted)
	lead.NextFollowUpAt = timePtr(nextFollowUp)
	return &lead, nil
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
