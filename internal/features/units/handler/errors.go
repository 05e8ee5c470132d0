package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"reagent-tracker/internal/core/logger"
	"reagent-tracker/internal/features/units/domain"
)

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidCode       = "INVALID_CODE"
	CodePlaceRequired     = "PLACE_REQUIRED"
	CodeInvalidStatus     = "INVALID_STATUS"
	CodeInvalidQuery      = "INVALID_QUERY"
	CodeUnitNotFound      = "UNIT_NOT_FOUND"
	CodeDuplicateUnit     = "DUPLICATE_UNIT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConflict          = "CONFLICT"
	CodeForbidden         = "FORBIDDEN"
	CodeRepositoryError   = "REPOSITORY_ERROR"
)

// ErrorResponse represents an error response with the request id.
type ErrorResponse struct {
	// Code is the machine-readable error class.
	Code string `json:"code"`
	// Message is a human-readable description without internal detail.
	Message string `json:"message"`
	// RequestID is the unique request identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
	// Key is the unit the failed operation targeted, when known.
	Key string `json:"key,omitempty"`
	// Status is the unit status at the time of the rejection, when known.
	Status string `json:"status,omitempty"`
}

type errorMapping struct {
	kind    error
	status  int
	code    string
	message string
}

// order matters: ParseError kinds before the generic ones
var errorMappings = []errorMapping{
	{domain.ErrInvalidLength, http.StatusBadRequest, CodeInvalidCode, "scanned code must be exactly 48 characters"},
	{domain.ErrInvalidDate, http.StatusBadRequest, CodeInvalidCode, "scanned code has an invalid expiration date"},
	{domain.ErrPlaceRequired, http.StatusBadRequest, CodePlaceRequired, "a destination place is required"},
	{domain.ErrInvalidStatus, http.StatusBadRequest, CodeInvalidStatus, "unknown status"},
	{domain.ErrEmptyEdit, http.StatusBadRequest, CodeInvalidRequest, "edit must set status or place"},
	{domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery, "unknown view, field or sort order"},
	{domain.ErrUnitNotFound, http.StatusNotFound, CodeUnitNotFound, "unit is not registered"},
	{domain.ErrDuplicateUnit, http.StatusConflict, CodeDuplicateUnit, "unit is already registered"},
	{domain.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition, "operation is not allowed in the current status"},
	{domain.ErrConflict, http.StatusConflict, CodeConflict, "unit was modified concurrently, reload and try again"},
	{domain.ErrForbidden, http.StatusForbidden, CodeForbidden, "operation requires an administrator"},
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:      CodeInvalidRequest,
		Message:   message,
		RequestID: requestID(c),
	})
}

// writeError renders err with the status and code of its domain kind.
func writeError(c *fiber.Ctx, err error) error {
	resp := ErrorResponse{RequestID: requestID(c)}

	var te *domain.TransitionError
	if errors.As(err, &te) {
		resp.Key = te.Key
		resp.Status = string(te.Status)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			resp.Code = m.code
			resp.Message = m.message
			return c.Status(m.status).JSON(resp)
		}
	}

	logger.Get().Error("Request failed", zap.String("request_id", resp.RequestID), zap.Error(err))
	resp.Code = CodeRepositoryError
	resp.Message = "storage is unavailable, try again later"
	return c.Status(http.StatusInternalServerError).JSON(resp)
}
