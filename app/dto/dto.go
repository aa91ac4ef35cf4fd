// Package dto contains Data Transfer Objects for API request and response structures
package dto

// APIResponse is the common response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    any         `json:"data,omitempty"`
	Error   ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries machine-readable error information
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
