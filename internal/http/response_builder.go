// Package http provides the JSON API over the ledger.
//
// This file implements a small builder for JSON responses. Every response
// that reports a user-facing outcome carries a notice the client can show
// as a toast.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// NotificationType represents the type of notice to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notice is the toast attached to a response.
type Notice struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

type envelope struct {
	Data   any     `json:"data,omitempty"`
	Error  string  `json:"error,omitempty"`
	Notice *Notice `json:"notice,omitempty"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       envelope
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Data sets the payload returned under "data".
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.body.Data = v
	return b
}

// Notify attaches a notice of the given type.
func (b *JSONResponseBuilder) Notify(notifType NotificationType, message string) *JSONResponseBuilder {
	b.body.Notice = &Notice{Type: notifType, Message: message}
	return b
}

func (b *JSONResponseBuilder) Success(message string) *JSONResponseBuilder {
	return b.Notify(NotificationSuccess, message)
}

func (b *JSONResponseBuilder) Warning(message string) *JSONResponseBuilder {
	return b.Notify(NotificationWarning, message)
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	body, err := json.Marshal(b.body)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// ErrorResponse creates an error response whose notice repeats the message.
// code is a short machine-readable reason such as a field name.
func ErrorResponse(statusCode int, code, message string) *JSONResponseBuilder {
	b := NewJSONResponse().Status(statusCode).Notify(NotificationError, message)
	b.body.Error = code
	return b
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, "bad_request", message)
}

// ValidationFailed creates a 422 response naming the rejected field.
func ValidationFailed(field, message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, field, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal", message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, "not_found", message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed").
		Header("Allow", allowedMethods)
}

// TooManyRequestsError creates a 429 response.
func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down").
		Header("Retry-After", "60")
}
