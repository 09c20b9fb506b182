package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/middleware"
	"github.com/YxungHermes/LVR-HM-sub001/internal/usecase"
)

type CheckoutHandler struct {
	CreateCheckoutUC *usecase.CreateCheckoutUseCase
	AllowedOrigins   map[string]bool
}

func NewCheckoutHandler(uc *usecase.CreateCheckoutUseCase, allowedOrigins []string) *CheckoutHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &CheckoutHandler{CreateCheckoutUC: uc, AllowedOrigins: allowed}
}

func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Checkout only starts from our own pages. Security-relevant, so
	// the rejection is logged.
	origin := r.Header.Get("Origin")
	if len(h.AllowedOrigins) > 0 && !h.AllowedOrigins[origin] {
		log.Printf("[CHECKOUT] rejected origin %q", origin)
		writeError(w, http.StatusForbidden, "Origin not allowed")
		return
	}

	var input usecase.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	output, err := h.CreateCheckoutUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsTechnicalError(err) {
			middleware.RecordIntegrationError("payments")
		}
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, output)
}
