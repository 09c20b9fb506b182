package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/osteele/liquid"

	"github.com/YxungHermes/LVR-HM-sub001/internal/entity"
)

type DispatchInput struct {
	To           string
	ReplyTo      string
	TemplateType string
	LeadID       string
	Variables    map[string]string
}

// DispatchResult is returned even when the transport fails, so callers
// can decide whether a dead email is fatal to their own operation.
type DispatchResult struct {
	Sent    bool
	Subject string
	Failure string
}

// Notifier looks up the active template for a type, renders it against
// a variable map and hands the result to the email transport. Unmatched
// placeholders render as empty string, never as literal {{key}}.
type Notifier struct {
	Templates  entity.TemplateRepositoryInterface
	Activities entity.ActivityRepositoryInterface
	Transport  EmailTransport
	Env        string // "production" relaxes the declared-variable check
}

func NewNotifier(
	templates entity.TemplateRepositoryInterface,
	activities entity.ActivityRepositoryInterface,
	transport EmailTransport,
	env string,
) *Notifier {
	return &Notifier{
		Templates:  templates,
		Activities: activities,
		Transport:  transport,
		Env:        env,
	}
}

var liquidEngine = liquid.NewEngine()

func (n *Notifier) Dispatch(ctx context.Context, input DispatchInput) (*DispatchResult, error) {
	if n.Transport == nil {
		return nil, &TechnicalError{
			Code:    "MAIL_NOT_CONFIGURED",
			Message: "email transport is not configured",
		}
	}

	tmpl, err := n.Templates.FindActiveByType(ctx, input.TemplateType)
	if err != nil {
		// Configuration error, not transient. Not retried.
		return nil, &TechnicalError{
			Code:    "TEMPLATE_NOT_FOUND",
			Message: fmt.Sprintf("no active template for type %q: %v", input.TemplateType, err),
		}
	}

	// Outside production a missing declared variable fails loudly
	// instead of silently rendering as empty and masking a bug.
	if n.Env != "production" {
		if missing := missingVariables(tmpl, input.Variables); len(missing) > 0 {
			return nil, &TechnicalError{
				Code:    "TEMPLATE_VARIABLES_MISSING",
				Message: fmt.Sprintf("template %q missing variables: %s", tmpl.Name, strings.Join(missing, ", ")),
			}
		}
	}

	subject, err := RenderTemplate(tmpl.Subject, input.Variables)
	if err != nil {
		return nil, &TechnicalError{Code: "TEMPLATE_RENDER_FAILED", Message: err.Error()}
	}
	htmlBody, err := RenderTemplate(tmpl.HTMLBody, input.Variables)
	if err != nil {
		return nil, &TechnicalError{Code: "TEMPLATE_RENDER_FAILED", Message: err.Error()}
	}
	textBody, err := RenderTemplate(tmpl.TextBody, input.Variables)
	if err != nil {
		return nil, &TechnicalError{Code: "TEMPLATE_RENDER_FAILED", Message: err.Error()}
	}

	if err := n.Transport.Send(input.To, input.ReplyTo, subject, htmlBody, textBody); err != nil {
		log.Printf("[NOTIFY] send failed to=%s template=%s: %v", input.To, input.TemplateType, err)
		return &DispatchResult{Sent: false, Subject: subject, Failure: err.Error()}, nil
	}

	if input.LeadID != "" && n.Activities != nil {
		activity := entity.NewActivity(input.LeadID, entity.ActivityEmailSent,
			fmt.Sprintf("Email sent: %s", subject))
		activity.Metadata = map[string]string{
			"template_type": input.TemplateType,
			"to":            input.To,
		}
		if err := n.Activities.Append(ctx, activity); err != nil {
			// The email is already out; losing the audit row is not
			// worth failing the dispatch over.
			log.Printf("[NOTIFY] activity append failed lead=%s: %v", input.LeadID, err)
		}
	}

	return &DispatchResult{Sent: true, Subject: subject}, nil
}

// RenderTemplate substitutes {{key}} placeholders from vars. Keys
// absent from the map render as empty string.
func RenderTemplate(src string, vars map[string]string) (string, error) {
	if src == "" {
		return "", nil
	}
	bindings := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		bindings[k] = v
	}
	out, err := liquidEngine.ParseAndRenderString(src, bindings)
	if err != nil {
		return "", fmt.Errorf("template render: %w", err)
	}
	return out, nil
}

func missingVariables(tmpl *entity.EmailTemplate, vars map[string]string) []string {
	var missing []string
	for _, name := range tmpl.Variables {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
