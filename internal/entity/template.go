package entity

import (
	"context"
	"errors"
)

// Template types. Exactly one active template per type is expected;
// finding none is a configuration error, not a transient one.
const (
	TemplateConfirmation        = "confirmation"
	TemplateFollowUp            = "follow_up"
	TemplateProposal            = "proposal"
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateReminder            = "reminder"
	TemplateCustom              = "custom"
)

var ErrNoActiveTemplate = errors.New("no active template for type")

// EmailTemplate holds {{variable}} placeholder templates for one
// notification purpose. Variables lists the placeholder names the
// bodies expect, used to catch missing bindings before a send.
type EmailTemplate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Subject   string   `json:"subject"`
	HTMLBody  string   `json:"html_body"`
	TextBody  string   `json:"text_body,omitempty"`
	Variables []string `json:"variables,omitempty"`
	Active    bool     `json:"active"`
}

type TemplateRepositoryInterface interface {
	// FindActiveByType returns the unique active template of the given
	// type, or ErrNoActiveTemplate.
	FindActiveByType(ctx context.Context, templateType string) (*EmailTemplate, error)
}
