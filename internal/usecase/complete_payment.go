package usecase

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/queue"
)

// Processor event types this pipeline reacts to.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventPaymentFailed     = "payment_intent.payment_failed"
	EventChargeDisputed    = "charge.dispute.created"
)

// CompletePaymentUseCase applies the state transition for a verified
// processor event: booked status, one payment_received activity, one
// booking confirmation email. The processor delivers at least once, so
// event ids are recorded and duplicates acknowledged without re-running
// side effects.
type CompletePaymentUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Activities entity.ActivityRepositoryInterface
	Events     entity.ProcessedEventRepositoryInterface
	Notifier   NotificationDispatcher
	Queue      queue.QueueProducerInterface
}

func NewCompletePaymentUseCase(
	leads entity.LeadRepositoryInterface,
	activities entity.ActivityRepositoryInterface,
	events entity.ProcessedEventRepositoryInterface,
	notifier NotificationDispatcher,
	producer queue.QueueProducerInterface,
) *CompletePaymentUseCase {
	return &CompletePaymentUseCase{
		Leads:      leads,
		Activities: activities,
		Events:     events,
		Notifier:   notifier,
		Queue:      producer,
	}
}

func (uc *CompletePaymentUseCase) Execute(ctx context.Context, input CompletePaymentInput) error {
	if uc.Events != nil && input.EventID != "" {
		seen, err := uc.Events.MarkProcessed(ctx, input.EventID)
		if err != nil {
			// Dedupe is protection, not a gate. Proceed without it.
			log.Printf("[WEBHOOK] event dedupe unavailable (continuing): %v", err)
		} else if seen {
			log.Printf("[WEBHOOK] duplicate event %s, skipping", input.EventID)
			return nil
		}
	}

	switch input.EventType {
	case EventCheckoutCompleted:
		return uc.handleCompleted(ctx, input)
	case EventCheckoutExpired:
		return uc.handleExpired(ctx, input)
	case EventPaymentFailed, EventChargeDisputed:
		// No automatic remediation; surfaced for manual follow-up.
		log.Printf("[WEBHOOK] %s event=%s lead=%s amount=%d — needs manual review",
			input.EventType, input.EventID, input.LeadID, input.AmountCents)
		return nil
	default:
		log.Printf("[WEBHOOK] ignoring event type %s", input.EventType)
		return nil
	}
}

func (uc *CompletePaymentUseCase) handleCompleted(ctx context.Context, input CompletePaymentInput) error {
	if input.LeadID == "" {
		// Still acknowledged upstream; the processor must not retry
		// forever over a session we cannot attribute.
		log.Printf("[WEBHOOK] completed session without lead_id metadata (event=%s)", input.EventID)
		return nil
	}

	if err := uc.Leads.UpdateStatus(ctx, input.LeadID, entity.StatusBooked); err != nil {
		return fmt.Errorf("failed to mark lead %s booked: %w", input.LeadID, err)
	}

	activity := entity.NewActivity(input.LeadID, entity.ActivityPaymentReceived,
		fmt.Sprintf("Deposit received: $%.2f %s", float64(input.AmountCents)/100, input.Currency))
	activity.Metadata = map[string]string{
		"amount_cents": strconv.FormatInt(input.AmountCents, 10),
		"currency":     input.Currency,
		"event_id":     input.EventID,
	}
	if err := uc.Activities.Append(ctx, activity); err != nil {
		log.Printf("[WEBHOOK] payment activity append failed lead=%s: %v", input.LeadID, err)
	}

	if uc.Notifier != nil {
		lead, err := uc.Leads.FindByID(ctx, input.LeadID)
		if err != nil {
			log.Printf("[WEBHOOK] lead fetch for confirmation failed lead=%s: %v", input.LeadID, err)
		} else {
			result, err := uc.Notifier.Dispatch(ctx, DispatchInput{
				To:           lead.Email,
				TemplateType: entity.TemplateBookingConfirmation,
				LeadID:       lead.ID,
				Variables: map[string]string{
					"partner_one": lead.PartnerOne,
					"partner_two": lead.PartnerTwo,
					"event_date":  lead.EventDate,
					"amount":      fmt.Sprintf("%.2f", float64(input.AmountCents)/100),
				},
			})
			// Email failure is non-fatal: the booked transition is
			// already committed.
			if err != nil {
				log.Printf("[WEBHOOK] booking confirmation dispatch error lead=%s: %v", lead.ID, err)
			} else if !result.Sent {
				log.Printf("[WEBHOOK] booking confirmation not sent lead=%s: %s", lead.ID, result.Failure)
			}
		}
	}

	if uc.Queue != nil {
		payload := queue.LeadEventPayload{
			Event:       queue.EventLeadBooked,
			LeadID:      input.LeadID,
			Status:      entity.StatusBooked,
			AmountCents: input.AmountCents,
		}
		if err := uc.Queue.PublishLeadEvent(ctx, payload); err != nil {
			log.Printf("[WEBHOOK] queue publish failed lead=%s: %v", input.LeadID, err)
		}
	}

	return nil
}

func (uc *CompletePaymentUseCase) handleExpired(ctx context.Context, input CompletePaymentInput) error {
	if input.LeadID == "" {
		return nil
	}
	activity := entity.NewActivity(input.LeadID, entity.ActivityNoteAdded,
		"Checkout session expired before payment")
	activity.Metadata = map[string]string{"event_id": input.EventID}
	if err := uc.Activities.Append(ctx, activity); err != nil {
		log.Printf("[WEBHOOK] expiry activity append failed lead=%s: %v", input.LeadID, err)
	}
	return nil
}
