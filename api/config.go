// Package api provides an HTTP API server exposing the insert and search
// pipelines.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string
}

// ErrorResponse is the JSON envelope for error replies.
type ErrorResponse struct {
	Error string `json:"error"`

	// Kind carries the validation failure class ("type" or "value")
	// when the error was a local precondition failure.
	Kind string `json:"kind,omitempty"`
}
