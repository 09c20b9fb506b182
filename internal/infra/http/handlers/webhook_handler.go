package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/middleware"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/integration/payments"
	"github.com/YxungHermes/LVR-HM-sub001/internal/usecase"
)

type WebhookHandler struct {
	CompletePaymentUC *usecase.CompletePaymentUseCase
	SigningSecret     string
}

func NewWebhookHandler(uc *usecase.CompletePaymentUseCase, signingSecret string) *WebhookHandler {
	return &WebhookHandler{CompletePaymentUC: uc, SigningSecret: signingSecret}
}

// Handle verifies the processor's signature over the raw body, then
// acknowledges the event. Once the signature checks out we always
// return 200: the processor redelivers on anything else, and replaying
// a non-idempotent email send is worse than a logged failure.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	sig := r.Header.Get(payments.SignatureHeader)
	if err := payments.VerifySignature(body, sig, h.SigningSecret, payments.DefaultTolerance); err != nil {
		log.Printf("[WEBHOOK] signature rejected ip=%s: %v", middleware.ClientIP(r), err)
		if err == payments.ErrMissingSignature {
			writeError(w, http.StatusBadRequest, "missing_signature")
		} else {
			writeError(w, http.StatusUnauthorized, "invalid_signature")
		}
		return
	}

	var event payments.Event
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, "bad JSON")
		return
	}

	input := usecase.CompletePaymentInput{
		EventID:     event.ID,
		EventType:   event.Type,
		LeadID:      event.Data.Object.Metadata["lead_id"],
		AmountCents: event.Data.Object.AmountTotal,
		Currency:    event.Data.Object.Currency,
	}

	if err := h.CompletePaymentUC.Execute(r.Context(), input); err != nil {
		// Swallowed on purpose; see above.
		log.Printf("[WEBHOOK] fulfillment error event=%s: %v", event.ID, err)
		middleware.RecordPayment(event.Type, "error")
	} else {
		middleware.RecordPayment(event.Type, "ok")
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
