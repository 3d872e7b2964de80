// Package models contains data types and wire constants for the answer service.
package models

// Endpoints and wire constants for the answer service
const (
	// DefaultBackendURL is the Sport Expert backend used when nothing else is configured.
	DefaultBackendURL = "https://sport-expert-chatbot-997402636968.us-central1.run.app"

	// AskPath is appended to the backend base URL for every question.
	AskPath = "/ask"

	ContentTypeJSON = "application/json"
)

// Prefixes for system messages shown in the transcript
const (
	ErrorPrefix         = "Error: "
	ConnectFailedPrefix = "Failed to connect to backend: "
	UnknownErrorText    = "Unknown error"
)

// DefaultHeaders returns the headers sent with every ask request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": ContentTypeJSON,
		"Accept":       ContentTypeJSON,
	}
}

// AskURL joins a base URL (without trailing slash) with the ask path
func AskURL(baseURL string) string {
	return baseURL + AskPath
}
