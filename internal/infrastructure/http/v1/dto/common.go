// Package dto defines request and response shapes of the HTTP API.
package dto

// IDResponse returns the ID of a created entity.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
