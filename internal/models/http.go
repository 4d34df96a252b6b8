// Package models defines the request and response data structures used for
// communication between the client and the link shortener service.
package models

// LoginRequest carries the credentials of a login attempt.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse reports the outcome of a login attempt. Role is set only on
// success.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Role    string `json:"role,omitempty"`
}

// ShortenRequest carries the URL to be shortened.
type ShortenRequest struct {
	URL string `json:"url"`
}

// ShortenResponse reports the outcome of a shorten request. Message is set
// when the link was retrieved from history or when the request failed.
type ShortenResponse struct {
	Success  bool   `json:"success"`
	ShortURL string `json:"shortUrl,omitempty"`
	Message  string `json:"message,omitempty"`
}

// RegisterRequest carries the attributes of a user to be provisioned.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RegisterResponse reports the outcome of a provisioning request.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of redirect-path failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
