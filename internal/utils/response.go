package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every endpoint returns. CorrelationID
// mirrors the X-Correlation-ID header so clients can quote it when
// reporting a failed analysis; ErrorCode is the machine-readable
// counterpart of Message on error responses.
type APIResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id,omitempty"`
	ErrorCode     string `json:"error_code,omitempty"`
	Data          any    `json:"data,omitempty"`
}

// SendSuccess sends a 200 response with the given payload.
func SendSuccess(c *fiber.Ctx, message string, data any) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload with an explicit
// status code, for endpoints that create resources.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data any) error {
	if message == "" {
		message = "success"
	}

	return c.Status(status).JSON(APIResponse{
		Success:       true,
		Message:       message,
		CorrelationID: requestCorrelationID(c),
		Data:          data,
	})
}

// SendError sends an error response. The code is a stable identifier
// clients can branch on; the message is for humans.
func SendError(c *fiber.Ctx, status int, code, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success:       false,
		Message:       message,
		CorrelationID: requestCorrelationID(c),
		ErrorCode:     code,
	})
}

func requestCorrelationID(c *fiber.Ctx) string {
	if id, ok := c.Locals("correlation_id").(string); ok {
		return id
	}
	return ""
}
