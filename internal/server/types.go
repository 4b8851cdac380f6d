package server

import "github.com/MakhBeth/forfettAIro/internal/model"

// ParseResponse is the response for the parse endpoint
type ParseResponse struct {
	Invoice  *model.Invoice `json:"invoice"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// AutoPopulateResponse is the response for the profile endpoint
type AutoPopulateResponse struct {
	Updated bool          `json:"updated"`
	Config  *model.Config `json:"config,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
