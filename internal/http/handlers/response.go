// Package handlers implements the storefront's HTTP endpoints.
//
// Every failure leaves through fail, which writes the ErrorResponse envelope
// and logs 5xx results with the request-scoped logger. failService turns
// service sentinels into stable codes, so handlers never pick statuses for
// domain errors themselves:
//
//	HTTP/1.1 404 Not Found
//	{"request_id":"123e4567-e89b-12d3-a456-426614174000","code":"session_not_found","message":"session not found"}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-keynexus/internal/http/middleware"
	"github.com/tbourn/go-keynexus/internal/services"
)

// ErrorResponse is the error envelope of every endpoint. RequestID echoes
// X-Request-ID; Code is one of the ErrCode constants.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"session_not_found"`
	Message   string `json:"message" example:"session not found"`
}

func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail writes the error envelope for callers outside this package, such as
// the router's NoRoute handler.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// failService maps a service error to its HTTP status and code. Unknown
// errors become 500s.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		fail(c, http.StatusNotFound, ErrCodeSessionNotFound, "session not found")
	case errors.Is(err, services.ErrProductNotFound):
		fail(c, http.StatusNotFound, ErrCodeProductNotFound, "product not found")
	case errors.Is(err, services.ErrMessageNotFound):
		fail(c, http.StatusNotFound, ErrCodeMessageNotFound, "message not found")
	case errors.Is(err, services.ErrNoRecommendation):
		fail(c, http.StatusConflict, ErrCodeNoRecommendation, "message has no recommended product")
	case errors.Is(err, services.ErrBusy):
		fail(c, http.StatusConflict, ErrCodeScoutBusy, "assistant is still answering")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content too long")
	case errors.Is(err, services.ErrTooManySessions):
		fail(c, http.StatusServiceUnavailable, ErrCodeTooManySessions, "too many active sessions")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
