package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope for error replies. Successful upload replies use
// the flat dto.TradeCommandResponse shape instead.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse sends an error reply with the given status code.
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
	})
}

// BadRequestResponse sends a 400 Bad Request reply.
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message)
}

// PayloadTooLargeResponse sends a 413 Content Too Large reply.
func PayloadTooLargeResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusRequestEntityTooLarge, message)
}

// NoCommandResponse sends a 422 reply: the pipeline worked but recognized no
// trade directive. Distinct from a 500 so callers can tell "nothing was
// said" from "the pipeline broke".
func NoCommandResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnprocessableEntity, message)
}

// InternalServerErrorResponse sends a generic 500 reply. Provider detail is
// logged server-side, never exposed here.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}
