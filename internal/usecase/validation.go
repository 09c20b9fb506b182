package usecase

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RFC-lite: something, an @, something, a dot, something. The mail
// provider does the real verification on send.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var packageSlugRe = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

func ValidateInquiryInput(input InquiryInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.PartnerOne) == "" {
		errs = append(errs, ValidationError{"partner_one", "is required"})
	} else if len(input.PartnerOne) > 100 {
		errs = append(errs, ValidationError{"partner_one", "must not exceed 100 characters"})
	}

	if strings.TrimSpace(input.PartnerTwo) == "" {
		errs = append(errs, ValidationError{"partner_two", "is required"})
	} else if len(input.PartnerTwo) > 100 {
		errs = append(errs, ValidationError{"partner_two", "must not exceed 100 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if !emailRe.MatchString(strings.TrimSpace(input.Email)) {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.EventDate) == "" {
		errs = append(errs, ValidationError{"event_date", "is required"})
	} else if !isValidDate(input.EventDate) {
		errs = append(errs, ValidationError{"event_date", "must be a valid date (YYYY-MM-DD)"})
	}

	if strings.TrimSpace(input.Location) == "" {
		errs = append(errs, ValidationError{"location", "is required"})
	}

	if strings.TrimSpace(input.EventType) == "" {
		errs = append(errs, ValidationError{"event_type", "is required"})
	}

	if strings.TrimSpace(input.Message) == "" {
		errs = append(errs, ValidationError{"message", "is required"})
	} else if len(input.Message) > 5000 {
		errs = append(errs, ValidationError{"message", "must not exceed 5000 characters"})
	}

	return errs
}

func ValidateCheckoutInput(input CheckoutInput) []ValidationError {
	var errs []ValidationError

	if !packageSlugRe.MatchString(input.PackageSlug) {
		errs = append(errs, ValidationError{"package_slug", "is invalid"})
	}

	if strings.TrimSpace(input.PartnerOne) == "" {
		errs = append(errs, ValidationError{"partner_one", "is required"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if !emailRe.MatchString(strings.TrimSpace(input.Email)) {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	return errs
}

func isValidDate(dateStr string) bool {
	if _, err := time.Parse("2006-01-02", dateStr); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return true
	}
	return false
}

// sanitize HTML-escapes free text before it is persisted, so nothing
// stored can render as markup in the CRM views.
func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func validationMessage(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
