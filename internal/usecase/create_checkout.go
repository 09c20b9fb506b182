package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/integration/payments"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/queue"
)

// Deposit sanity bounds in cents. Anything outside means a tampered
// request or a broken catalog entry.
const (
	MinDepositCents = 100_00    // $100
	MaxDepositCents = 25_000_00 // $25,000
)

// CreateCheckoutUseCase upserts a high-priority lead and opens a hosted
// checkout session for the package deposit. The CRM write is explicitly
// non-fatal: the payment flow must proceed even when the lead store is
// down.
type CreateCheckoutUseCase struct {
	Leads      entity.LeadRepositoryInterface
	Activities entity.ActivityRepositoryInterface
	Gateway    PaymentGateway
	Queue      queue.QueueProducerInterface
	SiteURL    string
}

func NewCreateCheckoutUseCase(
	leads entity.LeadRepositoryInterface,
	activities entity.ActivityRepositoryInterface,
	gateway PaymentGateway,
	producer queue.QueueProducerInterface,
	siteURL string,
) *CreateCheckoutUseCase {
	return &CreateCheckoutUseCase{
		Leads:      leads,
		Activities: activities,
		Gateway:    gateway,
		Queue:      producer,
		SiteURL:    strings.TrimRight(siteURL, "/"),
	}
}

func (uc *CreateCheckoutUseCase) Execute(ctx context.Context, input CheckoutInput) (*CheckoutOutput, error) {
	if uc.Gateway == nil {
		return nil, &TechnicalError{Code: "PAYMENTS_NOT_CONFIGURED", Message: "payment processing is not configured"}
	}

	if errs := ValidateCheckoutInput(input); len(errs) > 0 {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: validationMessage(errs)}
	}

	pkg, err := entity.FindPackageBySlug(input.PackageSlug)
	if err != nil {
		return nil, &DomainError{Code: "PACKAGE_NOT_FOUND", Message: "unknown film package: " + input.PackageSlug}
	}

	deposit := pkg.DepositCents()
	if deposit < MinDepositCents || deposit > MaxDepositCents {
		return nil, &DomainError{
			Code:    "INVALID_AMOUNT",
			Message: fmt.Sprintf("deposit amount out of range for package %s", pkg.Slug),
		}
	}

	// Best-effort CRM upsert. Never block revenue on CRM availability.
	var leadID string
	lead := entity.NewLead(
		sanitize(input.PartnerOne),
		sanitize(input.PartnerTwo),
		strings.ToLower(strings.TrimSpace(input.Email)),
		SourceDirectBooking,
	)
	lead.Phone = sanitize(input.Phone)
	lead.EventDate = strings.TrimSpace(input.EventDate)
	lead.EstimatedValue = pkg.PriceUSD
	lead.Priority = entity.PriorityHigh

	if uc.Leads != nil {
		if _, err := uc.Leads.Upsert(ctx, lead); err != nil {
			log.Printf("[CHECKOUT] CRM upsert failed (continuing): %v", err)
		} else {
			leadID = lead.ID
			activity := entity.NewActivity(leadID, entity.ActivityNoteAdded,
				fmt.Sprintf("Checkout started for %s ($%d deposit)", pkg.Name, deposit/100))
			activity.Metadata = map[string]string{"package": pkg.Slug}
			if err := uc.Activities.Append(ctx, activity); err != nil {
				log.Printf("[CHECKOUT] activity append failed lead=%s: %v", leadID, err)
			}
		}
	}

	session, err := uc.Gateway.CreateCheckoutSession(ctx, payments.CheckoutSessionInput{
		ProductName:   fmt.Sprintf("%s — Booking Deposit (50%%)", pkg.Name),
		AmountCents:   deposit,
		Currency:      "usd",
		CustomerEmail: lead.Email,
		LeadID:        leadID,
		PackageSlug:   pkg.Slug,
		SuccessURL:    uc.SiteURL + "/booking/confirmed?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     uc.SiteURL + "/pricing",
	})
	if err != nil {
		return nil, &TechnicalError{Code: "CHECKOUT_FAILED", Message: "could not start checkout: " + err.Error()}
	}

	if uc.Queue != nil && leadID != "" {
		payload := queue.LeadEventPayload{
			Event:       queue.EventLeadCreated,
			LeadID:      leadID,
			Email:       lead.Email,
			Name:        lead.PartnerOne,
			Status:      lead.Status,
			Source:      lead.Source,
			AmountCents: deposit,
		}
		if err := uc.Queue.PublishLeadEvent(ctx, payload); err != nil {
			log.Printf("[CHECKOUT] queue publish failed lead=%s: %v", leadID, err)
		}
	}

	return &CheckoutOutput{
		CheckoutURL: session.URL,
		SessionID:   session.SessionID,
		LeadID:      leadID,
	}, nil
}
