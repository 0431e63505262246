package api

import (
	taskmod "github.com/example/task-manager-api/modules/task"
)

// ErrorBody is the inner payload of the uniform error envelope.
type ErrorBody struct {
	StatusCode int                  `json:"status_code"`
	Message    string               `json:"message"`
	Path       string               `json:"path"`
	Details    []taskmod.FieldError `json:"details,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// RootResponse is returned by the root endpoint.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// HealthResponse is returned by the health probe.
type HealthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Version string `json:"version"`
}
