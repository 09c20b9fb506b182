package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/handlers"
	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/middleware"
	"github.com/YxungHermes/LVR-HM-sub001/internal/usecase"
)

const validInquiryJSON = `{
	"partner_one": "Avery",
	"partner_two": "Jordan",
	"email": "avery@example.com",
	"event_date": "2026-10-12",
	"event_type": "elopements",
	"location": "Big Sur, CA",
	"message": "We are eloping on the coast."
}`

func newInquiryHandler(leads *MockLeadRepository, captcha handlers.CaptchaVerifier) *handlers.InquiryHandler {
	uc := usecase.NewCreateInquiryUseCase(leads, new(MockActivityRepository), stubNotifier{}, nil)
	return handlers.NewInquiryHandler(uc, captcha)
}

func postInquiry(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/inquiry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestInquiryHandler_Created(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Upsert", mock.Anything, mock.Anything).Return(false, nil)

	h := newInquiryHandler(leads, nil)
	rec := postInquiry(http.HandlerFunc(h.Handle), validInquiryJSON)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var output usecase.InquiryOutput
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.NotEmpty(t, output.LeadID)
	assert.False(t, output.Existed)
	assert.NotEmpty(t, output.Msg)
}

func TestInquiryHandler_InvalidJSON(t *testing.T) {
	h := newInquiryHandler(new(MockLeadRepository), nil)
	rec := postInquiry(http.HandlerFunc(h.Handle), "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInquiryHandler_ValidationFailure(t *testing.T) {
	leads := new(MockLeadRepository)
	h := newInquiryHandler(leads, nil)

	rec := postInquiry(http.HandlerFunc(h.Handle), `{"partner_one": "Avery"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation failed")
	leads.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestInquiryHandler_CaptchaRejected(t *testing.T) {
	leads := new(MockLeadRepository)
	h := newInquiryHandler(leads, stubCaptcha{err: errors.New("invalid token")})

	rec := postInquiry(http.HandlerFunc(h.Handle), validInquiryJSON)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CAPTCHA")
	leads.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestInquiryHandler_DatabaseErrorHidesDetails(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Upsert", mock.Anything, mock.Anything).
		Return(false, errors.New("pq: connection refused host=10.0.0.5"))

	h := newInquiryHandler(leads, nil)
	rec := postInquiry(http.HandlerFunc(h.Handle), validInquiryJSON)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}

func TestInquiryHandler_RateLimited(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("Upsert", mock.Anything, mock.Anything).Return(false, nil)

	h := newInquiryHandler(leads, nil)
	limited := middleware.RateLimit(middleware.NewLimiter(nil, "inquiry-test", 2, time.Minute))(http.HandlerFunc(h.Handle))

	for i := 0; i < 2; i++ {
		rec := postInquiry(limited, validInquiryJSON)
		assert.Equal(t, http.StatusCreated, rec.Code, "request %d", i+1)
	}

	rec := postInquiry(limited, validInquiryJSON)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
}
