package http

import (
	"errors"
	"log/slog"
	"net/http"

	"deliveryorders/internal/core/application/usecases/commands"
	"deliveryorders/internal/core/domain/model/order"
	"deliveryorders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const orderNotFoundMessage = "Order with this ID not found"

// statusFor maps application errors onto HTTP status codes. Anything it does
// not recognise is an internal error.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrStatusAlreadyApplied):
		return http.StatusNoContent
	case errors.Is(err, commands.ErrDeliveryIsNotPossible),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(ctx echo.Context, err error) error {
	code := statusFor(err)
	switch code {
	case http.StatusNoContent:
		return ctx.NoContent(http.StatusNoContent)
	case http.StatusNotFound:
		return s.orderNotFound(ctx)
	case http.StatusInternalServerError:
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		return ctx.JSON(code, ErrorResponse{Code: code, Message: http.StatusText(code)})
	default:
		return ctx.JSON(code, ErrorResponse{Code: code, Message: messageFor(err)})
	}
}

func (s *Server) badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: err.Error()})
}

func (s *Server) orderNotFound(ctx echo.Context) error {
	return ctx.JSON(http.StatusNotFound, ErrorResponse{Code: http.StatusNotFound, Message: orderNotFoundMessage})
}

func messageFor(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
		return http.StatusText(httpErr.Code)
	}
	return err.Error()
}

// ErrorHandler renders errors that escape the handlers, such as unknown
// routes, in the same {code, message} shape.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := statusFor(err)
		message := messageFor(err)
		if code == http.StatusInternalServerError {
			logger.ErrorContext(ctx.Request().Context(), "Unhandled error", "path", ctx.Path(), "error", err)
			message = http.StatusText(code)
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(code)
		} else {
			writeErr = ctx.JSON(code, ErrorResponse{Code: code, Message: message})
		}
		if writeErr != nil {
			logger.ErrorContext(ctx.Request().Context(), "Failed to write error response", "error", writeErr)
		}
	}
}
