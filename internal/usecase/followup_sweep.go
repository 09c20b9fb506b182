package usecase

import (
	"context"
	"log"
	"time"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/queue"
)

// FollowUpSweepUseCase is one bounded pass over due leads, designed to
// be fired by an external hourly trigger. It holds no timer of its own.
//
// At-most-once: a successful send flips the lead to contacted and
// clears next_follow_up_at, so the next sweep's query cannot reselect
// it.
type FollowUpSweepUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Notifier NotificationDispatcher
	Queue    queue.QueueProducerInterface
}

func NewFollowUpSweepUseCase(
	leads entity.LeadRepositoryInterface,
	notifier NotificationDispatcher,
	producer queue.QueueProducerInterface,
) *FollowUpSweepUseCase {
	return &FollowUpSweepUseCase{Leads: leads, Notifier: notifier, Queue: producer}
}

func (uc *FollowUpSweepUseCase) Execute(ctx context.Context) (*SweepOutput, error) {
	now := time.Now()
	due, err := uc.Leads.FindDueFollowUps(ctx, now)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to query due follow-ups: " + err.Error()}
	}

	out := &SweepOutput{}
	for _, lead := range due {
		out.Processed++

		// Per-lead best-effort: one bad address must not starve the
		// rest of the batch.
		if err := uc.sendFollowUp(ctx, lead, now); err != nil {
			log.Printf("[SWEEP] follow-up failed lead=%s: %v", lead.ID, err)
			out.Failed++
			continue
		}
		out.Sent++
	}

	if out.Processed > 0 {
		log.Printf("[SWEEP] processed=%d sent=%d failed=%d", out.Processed, out.Sent, out.Failed)
	}
	return out, nil
}

func (uc *FollowUpSweepUseCase) sendFollowUp(ctx context.Context, lead *entity.Lead, now time.Time) error {
	result, err := uc.Notifier.Dispatch(ctx, DispatchInput{
		To:           lead.Email,
		TemplateType: entity.TemplateFollowUp,
		LeadID:       lead.ID,
		Variables: map[string]string{
			"partner_one": lead.PartnerOne,
			"partner_two": lead.PartnerTwo,
			"event_type":  FormatEventType(lead.EventType),
			"collection":  SuggestCollection(lead.EventType, lead.BudgetRange),
		},
	})
	if err != nil {
		return err
	}
	if !result.Sent {
		return &TechnicalError{Code: "MAIL_SEND_FAILED", Message: result.Failure}
	}

	if err := uc.Leads.MarkContacted(ctx, lead.ID, now); err != nil {
		// The email went out but the lead stays selectable; the next
		// sweep may double-send. Logged loudly for that reason.
		log.Printf("[SWEEP] CRITICAL: sent but failed to mark contacted lead=%s: %v", lead.ID, err)
		return err
	}

	if uc.Queue != nil {
		payload := queue.LeadEventPayload{
			Event:     queue.EventFollowUpSent,
			LeadID:    lead.ID,
			Email:     lead.Email,
			EventType: lead.EventType,
			Status:    entity.StatusContacted,
			Source:    lead.Source,
		}
		if err := uc.Queue.PublishLeadEvent(ctx, payload); err != nil {
			log.Printf("[SWEEP] queue publish failed lead=%s: %v", lead.ID, err)
		}
	}
	return nil
}
