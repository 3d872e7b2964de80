package models

// AskRequest is the JSON body posted to the ask endpoint
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse is the decoded reply of the ask endpoint.
//
// HasAnswer and HasError follow JavaScript truthiness of the corresponding
// fields: an empty string, zero, false or null count as absent.
type AskResponse struct {
	Answer    string
	HasAnswer bool
	Error     string
	HasError  bool

	// StatusCode is informational; replies are interpreted from the body only.
	StatusCode int
	Raw        []byte
}

// ErrorText returns the server supplied error or the generic fallback
func (r *AskResponse) ErrorText() string {
	if r == nil || !r.HasError {
		return UnknownErrorText
	}
	return r.Error
}
