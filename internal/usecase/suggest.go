package usecase

import (
	"strings"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
)

// NormalizeEventType maps the inquiry form's values (which include
// plural and hyphenated variants) onto the canonical enum. Unknown
// values come back empty.
func NormalizeEventType(formValue string) string {
	v := strings.ToLower(strings.TrimSpace(formValue))
	v = strings.ReplaceAll(v, "-", "_")
	v = strings.ReplaceAll(v, " ", "_")

	switch v {
	case "elopement", "elopements":
		return entity.EventElopement
	case "intimate", "intimate_wedding", "intimate_weddings":
		return entity.EventIntimate
	case "full_wedding", "full_weddings", "wedding", "weddings":
		return entity.EventFullWedding
	case "large_wedding", "large_weddings":
		return entity.EventLargeWedding
	case "destination", "destination_wedding", "destination_weddings":
		return entity.EventDestination
	case "adventure_session", "adventure_sessions":
		return entity.EventAdventureSession
	}
	return ""
}

// FormatEventType renders an event type (canonical or raw form value)
// for email subjects and bodies.
func FormatEventType(eventType string) string {
	switch NormalizeEventType(eventType) {
	case entity.EventElopement:
		return "Elopement / Intimate Gathering"
	case entity.EventIntimate:
		return "Intimate Wedding"
	case entity.EventFullWedding:
		return "Full Wedding Day"
	case entity.EventLargeWedding:
		return "Large Wedding Celebration"
	case entity.EventDestination:
		return "Destination Wedding"
	case entity.EventAdventureSession:
		return "Adventure Session"
	}

	// Unrecognized values get a readable fallback rather than an error.
	cleaned := strings.ReplaceAll(strings.TrimSpace(eventType), "_", " ")
	if cleaned == "" {
		return "Wedding"
	}
	words := strings.Fields(cleaned)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SuggestCollection picks the film collection to pitch in a follow-up,
// keyed off event type and the stated budget band. Pure function.
func SuggestCollection(eventType, budgetRange string) string {
	if isHighBudget(budgetRange) {
		return "The Feature Film Collection"
	}

	switch NormalizeEventType(eventType) {
	case entity.EventElopement, entity.EventAdventureSession:
		return "The Elopement Collection"
	case entity.EventDestination, entity.EventLargeWedding:
		return "The Feature Film Collection"
	default:
		return "The Wedding Day Collection"
	}
}

// DerivePriority sets the initial pipeline priority for a fresh lead.
// Checkout-originated leads are already reaching for their wallet.
func DerivePriority(source, budgetRange string) string {
	if source == SourceDirectBooking {
		return entity.PriorityHigh
	}
	if isHighBudget(budgetRange) {
		return entity.PriorityHigh
	}
	return entity.PriorityMedium
}

func isHighBudget(budgetRange string) bool {
	b := strings.ToLower(budgetRange)
	return strings.Contains(b, "6,000") || strings.Contains(b, "6000") || strings.Contains(b, "+")
}
