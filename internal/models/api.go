package models

// APIError is the JSON body of every error response.
type APIError struct {
	Message string `json:"message"`
}
