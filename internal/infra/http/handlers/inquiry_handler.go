package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/middleware"
	"github.com/YxungHermes/LVR-HM-sub001/internal/usecase"
)

// CaptchaVerifier checks an anti-bot token before an inquiry is
// accepted.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type InquiryHandler struct {
	CreateInquiryUC *usecase.CreateInquiryUseCase
	Captcha         CaptchaVerifier
}

func NewInquiryHandler(uc *usecase.CreateInquiryUseCase, captcha CaptchaVerifier) *InquiryHandler {
	return &InquiryHandler{CreateInquiryUC: uc, Captcha: captcha}
}

func (h *InquiryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.InquiryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if h.Captcha != nil {
		if err := h.Captcha.Verify(r.Context(), input.CaptchaToken, middleware.ClientIP(r)); err != nil {
			log.Printf("[INQUIRY] captcha rejected ip=%s: %v", middleware.ClientIP(r), err)
			writeError(w, http.StatusBadRequest, "CAPTCHA verification failed. Please try again.")
			return
		}
	}

	output, err := h.CreateInquiryUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordInquiry()
	writeJSON(w, http.StatusCreated, output)
}
