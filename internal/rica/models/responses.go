package models

import "time"

// RegistrationResponse is the 200 body returned to the caller.
type RegistrationResponse struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	RicaReference string    `json:"ricaReference"`
	RicaDate      time.Time `json:"ricadate"`
}

// ErrorResponse is the 4xx/5xx body. Code carries the numeric rejection
// reason when one exists (validation failures).
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// Credentials is the carrier basic-auth secret pair read from storage.
// Never persisted or logged by the gateway itself.
type Credentials struct {
	Username string
	Password string
}
