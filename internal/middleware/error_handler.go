package middleware

import (
	"errors"
	"net/http"

	"ecomStore/domain"
	"ecomStore/pkg/logger"
	jsonres "ecomStore/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler. Framework errors keep their
// status; domain errors map through their kind; anything else is a 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		code   string
		msg    string
	)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		code = http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
		switch status {
		case http.StatusNotFound:
			code = domain.ErrNotFound.Code
		case http.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case http.StatusBadRequest:
			code = domain.ErrValidation.Code
		}
	} else {
		status = domain.HTTPStatus(err)
		code, msg = domain.Public(err)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "path", c.Path(), err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, jsonres.Error(code, msg, nil))
	}
	if writeErr != nil {
		logger.Error("Failed to write error response", writeErr)
	}
}
