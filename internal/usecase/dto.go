package usecase

// InquiryInput is the consultation form submission.
type InquiryInput struct {
	PartnerOne   string `json:"partner_one"`
	PartnerTwo   string `json:"partner_two"`
	Pronouns     string `json:"pronouns"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	EventDate    string `json:"event_date"`
	EventType    string `json:"event_type"`
	Location     string `json:"location"`
	Venue        string `json:"venue"`
	BudgetRange  string `json:"budget_range"`
	Message      string `json:"message"`
	UTMSource    string `json:"utm_source"`
	UTMMedium    string `json:"utm_medium"`
	UTMCampaign  string `json:"utm_campaign"`
	CaptchaToken string `json:"captcha_token"`
}

type InquiryOutput struct {
	LeadID  string `json:"lead_id"`
	Existed bool   `json:"existed"`
	Msg     string `json:"msg"`
}

// CheckoutInput starts a booking for one film package.
type CheckoutInput struct {
	PackageSlug string `json:"package_slug"`
	PartnerOne  string `json:"partner_one"`
	PartnerTwo  string `json:"partner_two"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	EventDate   string `json:"event_date"`
}

type CheckoutOutput struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
	LeadID      string `json:"lead_id,omitempty"`
}

// CompletePaymentInput is what the webhook handler extracts from a
// verified processor event.
type CompletePaymentInput struct {
	EventID     string
	EventType   string
	LeadID      string
	AmountCents int64
	Currency    string
}

type SweepOutput struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}
