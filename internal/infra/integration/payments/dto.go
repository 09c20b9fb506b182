package payments

// CheckoutSessionInput describes one hosted checkout for a package
// deposit. LeadID rides in the session metadata and comes back on the
// completion webhook.
type CheckoutSessionInput struct {
	ProductName   string
	AmountCents   int64
	Currency      string
	CustomerEmail string
	LeadID        string
	PackageSlug   string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSessionOutput struct {
	SessionID string `json:"id"`
	URL       string `json:"url"`
}

// Event is the processor's webhook envelope, decoded after signature
// verification.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID          string            `json:"id"`
			AmountTotal int64             `json:"amount_total"`
			Currency    string            `json:"currency"`
			Metadata    map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}
