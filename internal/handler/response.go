package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/market/internal/domain"
)

// Response codes carried in the envelope.
const (
	CodeSuccess         = "S200"
	CodeBadRequest      = "E400"
	CodeUnauthorized    = "E401"
	CodeForbidden       = "E403"
	CodeNotFound        = "E404"
	CodeConflict        = "E409"
	CodePayloadTooLarge = "E413"
	CodeInternal        = "E500"
)

const (
	messageSuccess  = "Success"
	messageInternal = "Internal Server Error"
	messageTooLarge = "File size must not exceed 1MB."
)

// Envelope is the standard API response wrapper.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK writes a success envelope carrying data.
func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Code: CodeSuccess, Message: messageSuccess, Data: data})
}

// OKMessage writes a success envelope with a custom message.
func OKMessage(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Envelope{Code: CodeSuccess, Message: message, Data: data})
}

// NewHTTPErrorHandler returns echo's global error handler. It is the only
// place where errors become status codes.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := mapError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("unhandled error",
				"error", err,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("failed to send error response", "error", err)
		}
	}
}

func mapError(err error) (int, Envelope) {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return mapHTTPError(echoErr)
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, Envelope{Code: CodeBadRequest, Message: validationErr.Error()}
	}

	// Upload size violations keep status 400 for client compatibility.
	if errors.Is(err, domain.ErrPayloadTooLarge) {
		return http.StatusBadRequest, Envelope{Code: CodePayloadTooLarge, Message: messageTooLarge}
	}

	for _, m := range kindMappings {
		if errors.Is(err, m.kind) {
			return m.status, Envelope{Code: m.code, Message: clientMessage(err, m.message)}
		}
	}
	return http.StatusInternalServerError, Envelope{Code: CodeInternal, Message: messageInternal}
}

var kindMappings = []struct {
	kind    error
	status  int
	code    string
	message string
}{
	{domain.ErrInvalidInput, http.StatusBadRequest, CodeBadRequest, "Bad Request"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized"},
	{domain.ErrUpstreamAuth, http.StatusUnauthorized, CodeUnauthorized, "Kakao authentication failed"},
	{domain.ErrForbidden, http.StatusForbidden, CodeForbidden, "Forbidden"},
	{domain.ErrNotFound, http.StatusNotFound, CodeNotFound, "Not Found"},
	{domain.ErrConflict, http.StatusConflict, CodeConflict, "Conflict"},
}

// clientMessage returns the message of a *domain.Error when present, and
// the fallback otherwise, so wrapped internals never reach the client.
func clientMessage(err error, fallback string) string {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return fallback
}

func mapHTTPError(e *echo.HTTPError) (int, Envelope) {
	msg, _ := e.Message.(string)
	if msg == "" {
		msg = http.StatusText(e.Code)
	}

	code := CodeInternal
	switch e.Code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		code = CodeBadRequest
	case http.StatusUnauthorized:
		code = CodeUnauthorized
	case http.StatusForbidden:
		code = CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		code = CodeNotFound
	case http.StatusConflict:
		code = CodeConflict
	case http.StatusRequestEntityTooLarge:
		code, msg = CodePayloadTooLarge, messageTooLarge
	}
	if e.Code >= http.StatusInternalServerError {
		msg = messageInternal
	}
	return e.Code, Envelope{Code: code, Message: msg}
}
