package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
)

// ErrorBody is the error part of a failed response.
type ErrorBody struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Envelope is the shape of every JSON response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// Success writes a 200 response carrying data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response carrying data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a 200 response with a human readable message alongside data.
func Message(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// BadRequest writes a 400 malformed request response.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Error: &ErrorBody{Kind: string(domain.KindMalformedRequest), Message: message},
	})
}

// Error maps err to a status code and writes it. Internal errors never leak
// their cause to the client.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	body := &ErrorBody{Kind: string(domain.KindOf(err)), Message: err.Error()}

	var de *domain.Error
	if errors.As(err, &de) {
		body.Message = de.Message
		body.Details = de.Context
	}
	if status == http.StatusInternalServerError {
		body.Kind = string(domain.KindInternal)
		body.Message = "internal server error"
		body.Details = nil
	}

	_ = c.Error(err)
	c.JSON(status, Envelope{Error: body})
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindMalformedRequest:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRuleViolation:
		return http.StatusUnprocessableEntity
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
