package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lead statuses. A lead only leaves "new" through a follow-up send,
// a staff edit or a completed payment.
const (
	StatusNew          = "new"
	StatusContacted    = "contacted"
	StatusProposalSent = "proposal_sent"
	StatusBooked       = "booked"
	StatusDeclined     = "declined"
	StatusArchived     = "archived"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Event types offered on the inquiry form.
const (
	EventElopement        = "elopement"
	EventIntimate         = "intimate"
	EventFullWedding      = "full_wedding"
	EventLargeWedding     = "large_wedding"
	EventDestination      = "destination"
	EventAdventureSession = "adventure_session"
)

var ErrLeadNotFound = errors.New("lead not found")

type Lead struct {
	ID             string     `json:"id"`
	PartnerOne     string     `json:"partner_one"`
	PartnerTwo     string     `json:"partner_two,omitempty"`
	Pronouns       string     `json:"pronouns,omitempty"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	EventDate      string     `json:"event_date,omitempty"`
	EventType      string     `json:"event_type,omitempty"`
	Location       string     `json:"location,omitempty"`
	Venue          string     `json:"venue,omitempty"`
	BudgetRange    string     `json:"budget_range,omitempty"`
	EstimatedValue int        `json:"estimated_value,omitempty"` // whole USD
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Message        string     `json:"message,omitempty"`
	Source         string     `json:"source"`
	UTMSource      string     `json:"utm_source,omitempty"`
	UTMMedium      string     `json:"utm_medium,omitempty"`
	UTMCampaign    string     `json:"utm_campaign,omitempty"`
	LastContactAt  *time.Time `json:"last_contacted_at,omitempty"`
	NextFollowUpAt *time.Time `json:"next_follow_up_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewLead(partnerOne, partnerTwo, email, source string) *Lead {
	return &Lead{
		ID:         uuid.New().String(),
		PartnerOne: partnerOne,
		PartnerTwo: partnerTwo,
		Email:      email,
		Source:     source,
		Status:     StatusNew,
		Priority:   PriorityMedium,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusProposalSent, StatusBooked, StatusDeclined, StatusArchived:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidEventType(e string) bool {
	switch e {
	case EventElopement, EventIntimate, EventFullWedding, EventLargeWedding, EventDestination, EventAdventureSession:
		return true
	}
	return false
}

// LeadFilter narrows List results. Zero values mean "no filter".
type LeadFilter struct {
	Status   string
	Priority string
	Search   string
}

type LeadRepositoryInterface interface {
	// Upsert inserts by email or, if the email already exists, updates the
	// mutable event/value fields. The database's unique index on email is
	// the serialization point for concurrent submissions. The lead's ID,
	// status and timestamps are refreshed from the stored row, and the
	// returned flag reports whether the row already existed.
	Upsert(ctx context.Context, lead *Lead) (existed bool, err error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) error
	// FindDueFollowUps returns leads with status=new whose
	// next_follow_up_at is set and not after now.
	FindDueFollowUps(ctx context.Context, now time.Time) ([]*Lead, error)
	// MarkContacted flips the lead to contacted, stamps last_contacted_at
	// and clears next_follow_up_at so the next sweep skips it.
	MarkContacted(ctx context.Context, id string, at time.Time) error
}
