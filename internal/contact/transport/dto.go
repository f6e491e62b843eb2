package transport

// SubmissionRequest is the raw, untrusted contact form payload. Website is a
// honeypot field rendered invisibly on the form; humans leave it empty.
type SubmissionRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Service  string `json:"service"`
	Message  string `json:"message"`
	Website  string `json:"website"`
	BotToken string `json:"cf-turnstile-response"`
}

// SubmissionResponse is the wire result for a contact submission.
type SubmissionResponse struct {
	OK             bool              `json:"ok"`
	Error          string            `json:"error,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
	ProviderStatus int               `json:"providerStatus,omitempty"`
	ProviderBody   string            `json:"providerBody,omitempty"`
}
