package usecase

import (
	"context"

	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/integration/payments"
)

// PaymentGateway creates hosted checkout sessions with the processor.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, input payments.CheckoutSessionInput) (*payments.CheckoutSessionOutput, error)
}

// EmailTransport hands a fully rendered message to the mail provider.
type EmailTransport interface {
	Send(to, replyTo, subject, htmlBody, textBody string) error
}

// NotificationDispatcher renders a named template and sends it.
// Implemented by Notifier; declared here so callers can be tested with
// mocks.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error)
}
