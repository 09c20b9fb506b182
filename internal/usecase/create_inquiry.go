package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/queue"
)

// Lead sources.
const (
	SourceWebsiteInquiry = "website_inquiry"
	SourceDirectBooking  = "direct_booking"
)

// DefaultFollowUpDelay is how long after an inquiry the automated
// follow-up goes out, absent any staff contact.
const DefaultFollowUpDelay = 24 * time.Hour

// CreateInquiryUseCase turns a consultation form submission into a lead
// with a scheduled follow-up, and sends the confirmation email.
type CreateInquiryUseCase struct {
	Leads         entity.LeadRepositoryInterface
	Activities    entity.ActivityRepositoryInterface
	Notifier      NotificationDispatcher
	Queue         queue.QueueProducerInterface
	FollowUpDelay time.Duration
}

func NewCreateInquiryUseCase(
	leads entity.LeadRepositoryInterface,
	activities entity.ActivityRepositoryInterface,
	notifier NotificationDispatcher,
	producer queue.QueueProducerInterface,
) *CreateInquiryUseCase {
	return &CreateInquiryUseCase{
		Leads:         leads,
		Activities:    activities,
		Notifier:      notifier,
		Queue:         producer,
		FollowUpDelay: DefaultFollowUpDelay,
	}
}

func (uc *CreateInquiryUseCase) Execute(ctx context.Context, input InquiryInput) (*InquiryOutput, error) {
	if errs := ValidateInquiryInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: validationMessage(errs)}
	}

	eventType := NormalizeEventType(input.EventType)
	if eventType == "" {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "validation failed: event_type (is not a known event type)"}
	}

	lead := entity.NewLead(
		sanitize(input.PartnerOne),
		sanitize(input.PartnerTwo),
		strings.ToLower(strings.TrimSpace(input.Email)),
		SourceWebsiteInquiry,
	)
	lead.Pronouns = sanitize(input.Pronouns)
	lead.Phone = sanitize(input.Phone)
	lead.EventDate = strings.TrimSpace(input.EventDate)
	lead.EventType = eventType
	lead.Location = sanitize(input.Location)
	lead.Venue = sanitize(input.Venue)
	lead.BudgetRange = sanitize(input.BudgetRange)
	lead.Message = sanitize(input.Message)
	lead.UTMSource = sanitize(input.UTMSource)
	lead.UTMMedium = sanitize(input.UTMMedium)
	lead.UTMCampaign = sanitize(input.UTMCampaign)
	lead.Priority = DerivePriority(SourceWebsiteInquiry, input.BudgetRange)

	// The follow-up only applies to freshly created leads; the upsert
	// leaves it untouched for existing rows.
	due := time.Now().Add(uc.FollowUpDelay)
	lead.NextFollowUpAt = &due

	existed, err := uc.Leads.Upsert(ctx, lead)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to save inquiry: " + err.Error()}
	}

	if existed {
		activity := entity.NewActivity(lead.ID, entity.ActivityNoteAdded,
			"New inquiry received from existing lead")
		activity.Metadata = map[string]string{"event_type": eventType, "source": SourceWebsiteInquiry}
		if err := uc.Activities.Append(ctx, activity); err != nil {
			log.Printf("[INQUIRY] activity append failed lead=%s: %v", lead.ID, err)
		}
	}

	// Confirmation email is best-effort: the lead is already saved and
	// the couple sees an on-page success message either way.
	if uc.Notifier != nil {
		_, err := uc.Notifier.Dispatch(ctx, DispatchInput{
			To:           lead.Email,
			TemplateType: entity.TemplateConfirmation,
			LeadID:       lead.ID,
			Variables: map[string]string{
				"partner_one": lead.PartnerOne,
				"partner_two": lead.PartnerTwo,
				"event_type":  FormatEventType(eventType),
				"event_date":  lead.EventDate,
				"location":    lead.Location,
				"collection":  SuggestCollection(eventType, lead.BudgetRange),
			},
		})
		if err != nil {
			log.Printf("[INQUIRY] confirmation dispatch failed lead=%s: %v", lead.ID, err)
		}
	}

	if uc.Queue != nil {
		payload := queue.LeadEventPayload{
			Event:     queue.EventLeadCreated,
			LeadID:    lead.ID,
			Email:     lead.Email,
			Name:      lead.PartnerOne + " & " + lead.PartnerTwo,
			EventType: eventType,
			Status:    lead.Status,
			Source:    lead.Source,
		}
		if err := uc.Queue.PublishLeadEvent(ctx, payload); err != nil {
			log.Printf("[INQUIRY] queue publish failed lead=%s: %v", lead.ID, err)
		}
	}

	msg := "Thank you! We received your inquiry and will be in touch soon."
	return &InquiryOutput{LeadID: lead.ID, Existed: existed, Msg: msg}, nil
}
