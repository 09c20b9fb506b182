package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
	"github.com/YxungHermes/LVR-HM-sub001/internal/usecase"
)

func completedPaymentInput() usecase.CompletePaymentInput {
	return usecase.CompletePaymentInput{
		EventID:     "evt_123",
		EventType:   usecase.EventCheckoutCompleted,
		LeadID:      "lead-1",
		AmountCents: 175000,
		Currency:    "usd",
	}
}

func TestCompletePayment_Completed(t *testing.T) {
	leads := new(MockLeadRepository)
	activities := new(MockActivityRepository)
	events := new(MockProcessedEventRepository)
	notifier := new(MockNotifier)

	events.On("MarkProcessed", mock.Anything, "evt_123").Return(false, nil)
	leads.On("UpdateStatus", mock.Anything, "lead-1", entity.StatusBooked).Return(nil)

	var appended *entity.Activity
	activities.On("Append", mock.Anything, mock.AnythingOfType("*entity.Activity")).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*entity.Activity) }).
		Return(nil)

	booked := &entity.Lead{ID: "lead-1", PartnerOne: "Avery", Email: "avery@example.com", EventDate: "2026-10-12"}
	leads.On("FindByID", mock.Anything, "lead-1").Return(booked, nil)
	notifier.On("Dispatch", mock.Anything, mock.Anything).
		Return(&usecase.DispatchResult{Sent: true}, nil)

	uc := usecase.NewCompletePaymentUseCase(leads, activities, events, notifier, nil)
	err := uc.Execute(context.Background(), completedPaymentInput())

	assert.NoError(t, err)
	leads.AssertCalled(t, "UpdateStatus", mock.Anything, "lead-1", entity.StatusBooked)

	// Exactly one audit row for the payment.
	activities.AssertNumberOfCalls(t, "Append", 1)
	assert.Equal(t, entity.ActivityPaymentReceived, appended.Type)
	assert.Equal(t, "175000", appended.Metadata["amount_cents"])
	assert.Equal(t, "usd", appended.Metadata["currency"])
	assert.Contains(t, appended.Description, "$1750.00")

	notifier.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestCompletePayment_DuplicateEventIsSkipped(t *testing.T) {
	leads := new(MockLeadRepository)
	activities := new(MockActivityRepository)
	events := new(MockProcessedEventRepository)

	events.On("MarkProcessed", mock.Anything, "evt_123").Return(true, nil)

	uc := usecase.NewCompletePaymentUseCase(leads, activities, events, new(MockNotifier), nil)
	err := uc.Execute(context.Background(), completedPaymentInput())

	assert.NoError(t, err)
	leads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	activities.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestCompletePayment_DedupeUnavailableStillProcesses(t *testing.T) {
	leads := new(MockLeadRepository)
	activities := new(MockActivityRepository)
	events := new(MockProcessedEventRepository)
	notifier := new(MockNotifier)

	events.On("MarkProcessed", mock.Anything, "evt_123").Return(false, errors.New("db down"))
	leads.On("UpdateStatus", mock.Anything, "lead-1", entity.StatusBooked).Return(nil)
	activities.On("Append", mock.Anything, mock.Anything).Return(nil)
	leads.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1", Email: "a@b.co"}, nil)
	notifier.On("Dispatch", mock.Anything, mock.Anything).
		Return(&usecase.DispatchResult{Sent: true}, nil)

	uc := usecase.NewCompletePaymentUseCase(leads, activities, events, notifier, nil)
	err := uc.Execute(context.Background(), completedPaymentInput())

	assert.NoError(t, err)
	leads.AssertCalled(t, "UpdateStatus", mock.Anything, "lead-1", entity.StatusBooked)
}

func TestCompletePayment_MissingLeadID(t *testing.T) {
	leads := new(MockLeadRepository)
	events := new(MockProcessedEventRepository)
	events.On("MarkProcessed", mock.Anything, mock.Anything).Return(false, nil)

	uc := usecase.NewCompletePaymentUseCase(leads, new(MockActivityRepository), events, new(MockNotifier), nil)

	input := completedPaymentInput()
	input.LeadID = ""
	err := uc.Execute(context.Background(), input)

	assert.NoError(t, err)
	leads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompletePayment_UpdateStatusError(t *testing.T) {
	leads := new(MockLeadRepository)
	events := new(MockProcessedEventRepository)
	events.On("MarkProcessed", mock.Anything, mock.Anything).Return(false, nil)
	leads.On("UpdateStatus", mock.Anything, "lead-1", entity.StatusBooked).
		Return(errors.New("connection reset"))

	uc := usecase.NewCompletePaymentUseCase(leads, new(MockActivityRepository), events, new(MockNotifier), nil)
	err := uc.Execute(context.Background(), completedPaymentInput())

	assert.Error(t, err)
}

func TestCompletePayment_Expired(t *testing.T) {
	leads := new(MockLeadRepository)
	activities := new(MockActivityRepository)
	events := new(MockProcessedEventRepository)
	events.On("MarkProcessed", mock.Anything, mock.Anything).Return(false, nil)

	var appended *entity.Activity
	activities.On("Append", mock.Anything, mock.AnythingOfType("*entity.Activity")).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*entity.Activity) }).
		Return(nil)

	uc := usecase.NewCompletePaymentUseCase(leads, activities, events, new(MockNotifier), nil)

	input := completedPaymentInput()
	input.EventType = usecase.EventCheckoutExpired
	err := uc.Execute(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, entity.ActivityNoteAdded, appended.Type)
	assert.Equal(t, "Checkout session expired before payment", appended.Description)
	leads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompletePayment_UnhandledEventTypeIsAcknowledged(t *testing.T) {
	leads := new(MockLeadRepository)
	events := new(MockProcessedEventRepository)
	events.On("MarkProcessed", mock.Anything, mock.Anything).Return(false, nil)

	uc := usecase.NewCompletePaymentUseCase(leads, new(MockActivityRepository), events, new(MockNotifier), nil)

	input := completedPaymentInput()
	input.EventType = "invoice.paid"
	err := uc.Execute(context.Background(), input)

	assert.NoError(t, err)
	leads.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
