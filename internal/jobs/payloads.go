package jobs

// SendWelcomeEmailPayload greets a freshly registered user.
// Keep payloads minimal and ID-based; the worker loads details if it needs more.
type SendWelcomeEmailPayload struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	RequestID string `json:"requestId,omitempty"` // optional: correlation
}

// SendAccountFarewellPayload confirms an account deletion to its former owner.
type SendAccountFarewellPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
