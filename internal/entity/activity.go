package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity types.
const (
	ActivityStatusChange    = "status_change"
	ActivityEmailSent       = "email_sent"
	ActivityEmailReceived   = "email_received"
	ActivityNoteAdded       = "note_added"
	ActivityProposalSent    = "proposal_sent"
	ActivityPaymentReceived = "payment_received"
)

// Activity is an append-only audit entry on a lead. Rows are created
// once and never updated or reassigned.
type Activity struct {
	ID          string            `json:"id"`
	LeadID      string            `json:"lead_id"`
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewActivity(leadID, activityType, description string) *Activity {
	return &Activity{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		Type:        activityType,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

type ActivityRepositoryInterface interface {
	Append(ctx context.Context, a *Activity) error
	ListByLeadID(ctx context.Context, leadID string) ([]*Activity, error)
}
