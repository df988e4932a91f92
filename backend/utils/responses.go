package utils

import (
	"errors"
	"net/http"

	"pathtracker/backend/services"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse is the envelope for successful answers.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failures.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes a JSON success envelope.
func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// Error writes a JSON error envelope.
func Error(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

// ServiceError maps the services failure taxonomy onto HTTP statuses:
// unauthenticated 401, not-found (including masked ownership misses) 404,
// access denied 403, invalid input 400, everything else 500.
func ServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return Error(c, fiber.StatusUnauthorized, err)
	case errors.Is(err, services.ErrNotFound):
		return Error(c, fiber.StatusNotFound, err)
	case errors.Is(err, services.ErrAccessDenied):
		return Error(c, fiber.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidInput):
		return Error(c, fiber.StatusBadRequest, err)
	default:
		return Error(c, fiber.StatusInternalServerError, err)
	}
}

// Created writes a 201 with the created record.
func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

// NotFound writes a 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, fiber.NewError(fiber.StatusNotFound, message))
}

// BadRequest writes a 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, message))
}

// Unauthorized writes a 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, fiber.NewError(fiber.StatusUnauthorized, message))
}

// InternalServerError writes a 500.
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, fiber.NewError(fiber.StatusInternalServerError, message))
}
