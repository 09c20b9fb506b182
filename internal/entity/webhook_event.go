package entity

import "context"

// ProcessedEventRepositoryInterface records payment-processor event ids
// so redelivered events are acknowledged without re-running their side
// effects.
type ProcessedEventRepositoryInterface interface {
	// MarkProcessed inserts the event id and reports whether it was
	// already present.
	MarkProcessed(ctx context.Context, eventID string) (alreadySeen bool, err error)
}
